package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sabta/casedrill/internal/config"
	"github.com/sabta/casedrill/internal/drillgen"
	"github.com/sabta/casedrill/internal/llm"
	"github.com/sabta/casedrill/internal/server"
	"github.com/sabta/casedrill/internal/sparring"
	"github.com/sabta/casedrill/internal/stats"
	"github.com/sabta/casedrill/internal/store"
	"github.com/sabta/casedrill/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve drills and sparring rounds over a JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.ServerAddress = addr
		}
		if p, _ := cmd.Flags().GetString("db"); p != "" {
			cfg.DBPath = p
		}

		logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

		ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg.Telemetry.Version = version
		shutdown, err := telemetry.Init(ctx, cfg.Telemetry)
		if err != nil {
			logger.Warn("tracing disabled", "error", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Warn("flush traces", "error", err)
			}
		}()

		opts := server.Options{
			Logger:      logger,
			Source:      drillgen.New(nil),
			Stats:       stats.NewAggregator(),
			CORSOrigins: cfg.CORSOrigins,
		}

		st, err := openServeStore(cfg.DBPath)
		if err != nil {
			logger.Warn("history disabled", "error", err)
		} else {
			defer st.Close()
			opts.Repo = st.EventRepo()
		}

		if cfg.LLMEnabled {
			provider, err := llm.NewProvider(ctx, cfg.LLM, opts.Repo)
			if err != nil {
				logger.Warn("sparring feedback disabled", "error", err)
			} else {
				opts.Coach = sparring.NewCoach(provider, cfg.LLM.Timeout)
				logger.Info("sparring feedback enabled", "provider", cfg.LLM.Provider, "model", cfg.LLM.Model())
			}
		}

		return server.New(opts).Run(ctx, cfg.ServerAddress, cfg.ShutdownTimeout)
	},
}

func openServeStore(dbPath string) (*store.Store, error) {
	if dbPath == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
		dbPath = p
	} else if err := store.EnsureDir(dbPath); err != nil {
		return nil, err
	}
	return store.Open(dbPath)
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides CASEDRILL_ADDR)")
}
