package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"geoarcs/internal/tui"
)

func newTUICommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui [path]",
		Short: "Interactive terminal map (default)",
		Long:  "Open the terminal map. A path argument loads a local .geojson, .json or .csv\ndataset instead of dataset.url.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts, args)
		},
	}
}

// runTUI logs only when log.file is set; the terminal belongs to the UI.
func runTUI(opts *rootOptions, args []string) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	if len(args) == 1 {
		cfg.Dataset.Path = args[0]
	}
	log, err := newLogger(cfg, "")
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	c := newCore(cfg, log)
	m := tui.New(tui.Deps{
		Store:    c.store,
		Bridge:   c.bridge,
		Composer: c.composer,
		Loader:   c.loader,
		Origin:   cfg.Dataset.Origin(),
		Log:      log,
	})
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	return err
}
