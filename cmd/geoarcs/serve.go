package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"geoarcs/internal/web"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(opts *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layer stack to browser renderers over a websocket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			log, err := newLogger(cfg, "stderr")
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			c := newCore(cfg, log)
			hub := web.NewHub(c.store, c.bridge, c.composer, log)
			srv, err := web.NewServer(cfg.Server.Addr, hub, cfg.Map, cfg.Dataset.RankProperty, log)
			if err != nil {
				return err
			}
			go hub.Run(ctx)

			origin := cfg.Dataset.Origin()
			go func() {
				log.Info("loading dataset", zap.String("origin", origin))
				hub.DatasetLoaded(c.loader.Load(ctx, origin))
			}()

			errc := make(chan error, 1)
			go func() { errc <- srv.ListenAndServe() }()

			select {
			case err := <-errc:
				return err
			case <-ctx.Done():
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "override server.addr")
	return cmd
}
