package main

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/paulmach/orb"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"geoarcs/internal/config"
	"geoarcs/internal/dataset"
	"geoarcs/internal/interaction"
	"geoarcs/internal/layers"
	"geoarcs/internal/logging"
	"geoarcs/internal/selection"
)

type rootOptions struct {
	configPath string
	envFile    string
	logLevel   string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "geoarcs",
		Short: "Arcs and selection buffers over a ranked point dataset",
		Long: "geoarcs draws a ranked point dataset, arcs from a source point to its major\n" +
			"features, and a geodesic buffer around the selected feature. Click a point to\n" +
			"select it; the arcs re-anchor on the selection.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts, args)
		},
	}
	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "config file path (YAML)")
	pf.StringVar(&opts.envFile, "env-file", "", "dotenv file with GEOARCS_* variables")
	pf.StringVar(&opts.logLevel, "log-level", "", "override log.level (debug, info, warn, error)")

	cmd.AddCommand(newTUICommand(opts), newServeCommand(opts))
	return cmd
}

// loadConfig applies the flag overrides on top of file, env and defaults.
// Variables from the env file never replace ones already set.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	if o.envFile != "" {
		if err := godotenv.Load(o.envFile); err != nil {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	}
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	return cfg, nil
}

// core is the renderer independent part of the pipeline.
type core struct {
	store    *selection.Store
	bridge   *interaction.Bridge
	composer layers.Composer
	loader   *dataset.Loader
}

func newCore(cfg *config.Config, log *zap.Logger) core {
	store := selection.NewStore(cfg.Selection.BufferRadius, cfg.BufferUnit(),
		selection.WithLogger(log.Named("selection")))
	bridge := interaction.NewBridge(store,
		interaction.WithView(interaction.ViewState{
			Longitude: cfg.View.Longitude,
			Latitude:  cfg.View.Latitude,
			Zoom:      cfg.View.Zoom,
			Bearing:   cfg.View.Bearing,
			Pitch:     cfg.View.Pitch,
		}),
		interaction.WithClearOnMiss(cfg.Interaction.ClearOnMiss),
		interaction.WithLogger(log.Named("interaction")))

	opts := layers.DefaultOptions()
	opts.DefaultSource = orb.Point{cfg.Layers.DefaultSourceLon, cfg.Layers.DefaultSourceLat}
	opts.ArcRankThreshold = cfg.Layers.ArcRankThreshold
	opts.PointRadiusScale = cfg.Layers.PointRadiusScale
	opts.PointRadiusMinPixels = cfg.Layers.PointRadiusMinPixels

	return core{
		store:    store,
		bridge:   bridge,
		composer: layers.NewComposer(opts),
		loader:   dataset.NewLoader(cfg.Dataset.RankProperty, cfg.Dataset.FetchTimeout, log.Named("dataset")),
	}
}

func newLogger(cfg *config.Config, fallback string) (*zap.Logger, error) {
	return logging.New(cfg.Log, fallback)
}
