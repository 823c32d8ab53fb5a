package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/greenfield-poultry/farmshop/internal/api"
	"github.com/greenfield-poultry/farmshop/internal/catalog"
	"github.com/greenfield-poultry/farmshop/internal/checkout"
	"github.com/greenfield-poultry/farmshop/internal/events"
	"github.com/greenfield-poultry/farmshop/internal/maintenance"
	"github.com/greenfield-poultry/farmshop/internal/session"
	"github.com/greenfield-poultry/farmshop/internal/storage"
	"github.com/greenfield-poultry/farmshop/internal/zeroconf"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the storefront HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) loadCatalog() (*catalog.Catalog, error) {
	cat := catalog.Default()
	if a.cfg.CatalogPath == "" {
		return cat, nil
	}
	if err := cat.Reload(a.cfg.CatalogPath); err != nil {
		return nil, err
	}
	return cat, nil
}

func (a *app) serve(ctx context.Context) error {
	cfg := a.cfg

	store, err := storage.Open(ctx, cfg.StorageOptions())
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Warn("failed to close storage", "err", err)
		}
	}()

	cat, err := a.loadCatalog()
	if err != nil {
		return err
	}

	bus := events.NewBus()
	sessions := session.NewRegistry(store, bus, session.WithRateLimit(cfg.RateLimit, cfg.RateBurst))
	checkoutSvc := checkout.NewService(bus, cfg.ConfirmDelay)
	defer checkoutSvc.Close()

	router := api.NewRouter(api.Deps{
		Catalog:   cat,
		Sessions:  sessions,
		Checkout:  checkoutSvc,
		Bus:       bus,
		Pricing:   cfg.Pricing(),
		Shop:      cfg.ShopName,
		Version:   version,
		Storage:   cfg.Storage,
		StaticDir: cfg.StaticDir,
	})

	var zc *zeroconf.Service
	if cfg.MDNS {
		port, err := zeroconf.PortFromAddr(cfg.Addr)
		if err != nil {
			return err
		}
		zc = zeroconf.New(cfg.ShopName, port, version)
	}

	g, gctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // 0 = no timeout (needed for SSE)
		IdleTimeout:  120 * time.Second,
		// Request contexts end with the group so SSE streams close on shutdown.
		BaseContext: func(net.Listener) context.Context { return gctx },
	}

	g.Go(func() error {
		slog.Info("storefront listening", "addr", cfg.Addr, "storage", cfg.Storage, "products", cat.Len())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down...")
		shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})

	maint := maintenance.New(store, sessions, maintenance.Options{
		SweepInterval: cfg.SweepInterval,
		IdleTTL:       cfg.SessionIdleTTL,
		BackupDir:     cfg.BackupPath(),
		Retention:     cfg.BackupRetention,
		BackupHour:    2,
	})
	g.Go(func() error {
		maint.Start(gctx)
		return nil
	})

	if cfg.CatalogPath != "" && cfg.WatchCatalog {
		g.Go(func() error {
			if err := cat.Watch(gctx, cfg.CatalogPath); err != nil {
				slog.Warn("catalog watch stopped", "err", err)
			}
			return nil
		})
	}

	if zc != nil {
		g.Go(func() error {
			if err := zc.Start(gctx); err != nil {
				slog.Warn("zeroconf failed", "err", err)
			}
			return nil
		})
	}

	return g.Wait()
}
