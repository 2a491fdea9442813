package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/voidwell/scenectl/internal/admin"
	"github.com/voidwell/scenectl/internal/config"
	"github.com/voidwell/scenectl/internal/dispatch"
	"github.com/voidwell/scenectl/internal/host/memworld"
	"github.com/voidwell/scenectl/internal/logging"
	"github.com/voidwell/scenectl/internal/protocol"
	"github.com/voidwell/scenectl/internal/server"
)

func serveCmd() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the control server under a fixed-rate tick loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.ConfigureRuntime("scenectl")
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			return runServe(cfg)
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to scenectl TOML config")
	return cmd
}

func runServe(cfg config.Config) error {
	world := memworld.New()
	for _, class := range cfg.Classes {
		world.RegisterClass(class)
	}

	reg := dispatch.NewRegistry()
	if err := dispatch.RegisterBuiltins(reg); err != nil {
		return err
	}
	hc := dispatch.HostContext{Types: world, Factory: world, World: world}
	dispatcher := dispatch.NewDispatcher(reg, hc, log.Logger)

	srv := server.New(dispatcher, server.Options{
		ReadChunkBytes: cfg.ReadChunkBytes,
		PollWindow:     cfg.PollWindow(),
		Limits:         protocol.Limits{MaxBufferBytes: cfg.MaxBufferBytes},
	}, log.Logger)

	if err := srv.Start(cfg.ControlPort); err != nil {
		return err
	}
	defer srv.Stop()

	if cfg.Admin.Enabled {
		surface := admin.New(cfg.Name, cfg.Admin.Addr, cfg.Admin.CorsOrigins, srv, reg)
		go func() {
			if err := surface.Serve(); err != nil {
				log.Error().Err(err).Str("addr", cfg.Admin.Addr).Msg("admin surface stopped")
			}
		}()
		log.Info().Str("addr", cfg.Admin.Addr).Msg("admin surface listening")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(cfg.TickInterval())
	defer ticker.Stop()

	log.Info().
		Int("tick_rate", cfg.TickRate).
		Uint16("port", cfg.ControlPort).
		Strs("classes", cfg.Classes).
		Msg("host loop running")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("shutdown signal received")
			return nil
		case <-ticker.C:
			srv.Tick()
		}
	}
}
