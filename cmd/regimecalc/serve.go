package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/finplan/regime-calculator/internal/api"
	"github.com/finplan/regime-calculator/internal/cache"
	"github.com/finplan/regime-calculator/internal/calculation"
	"github.com/finplan/regime-calculator/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagAddr    string
	flagNoStore bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the comparison HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (default from settings, :8080)")
	serveCmd.Flags().BoolVar(&flagNoStore, "no-store", false, "Disable the per-user plan routes")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	rules, err := resolveRules(settings, nil, "")
	if err != nil {
		return err
	}

	logger := calculation.NewStdLogger(os.Stderr, flagVerbose)
	engine := calculation.NewCalculationEngineWithRules(rules)
	engine.SetLogger(logger)

	srv := api.NewServer(engine)
	srv.SetLogger(logger)
	if settings.Server.Metrics {
		srv.EnableMetrics()
	}

	if !flagNoStore {
		plans, err := store.Open(settings.Store.Path)
		if err != nil {
			return err
		}
		defer plans.Close()
		srv.SetPlanRepository(plans)
		logger.Infof("plan store at %s", settings.Store.Path)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv.SetCache(openCache(ctx, settings.RedisAddr(), logger), settings.CacheTTL())

	addr := flagAddr
	if addr == "" {
		addr = settings.Server.Addr
	}
	return srv.ListenAndServe(ctx, addr)
}

// openCache connects to Redis when an address is configured and falls back
// to the in-process cache when it is unset or unreachable.
func openCache(ctx context.Context, addr string, logger calculation.Logger) cache.Cache {
	if addr == "" {
		return cache.NewMemoryCache()
	}
	rc := cache.NewRedisCache(addr)
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rc.Ping(pingCtx); err != nil {
		logger.Warnf("redis at %s unavailable, using in-process cache: %v", addr, err)
		_ = rc.Close()
		return cache.NewMemoryCache()
	}
	logger.Infof("caching responses in redis at %s", addr)
	return rc
}
