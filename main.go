package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"brushvault/internal/handlers"
	"brushvault/internal/library"
	"brushvault/internal/logging"
	"brushvault/internal/middleware"
	"brushvault/internal/scanindex"
	"brushvault/internal/startup"
)

func main() {
	cfg, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	index, err := scanindex.Open(ctx, cfg.IndexPath)
	if err != nil {
		startup.LogFatal("Failed to open scan index: %v", err)
	}
	defer index.Close()

	scanner := library.NewScanner(index, library.Config{
		Roots:         cfg.Roots,
		Extensions:    cfg.Extensions,
		ThumbDir:      cfg.ThumbDir,
		ToneAdjust:    cfg.ToneAdjust,
		CaseSensitive: cfg.CaseSensitive,
	})

	// Initial scan runs in the background so the server comes up
	// immediately; /readyz flips once the first pass completes.
	go runScan(ctx, scanner, "initial")

	go scanLoop(ctx, scanner, cfg.ScanInterval)

	if cfg.WatchEnabled {
		go scanner.Watch(ctx, func() {
			runScan(ctx, scanner, "watcher")
		})
	}

	router := mux.NewRouter()
	router.Use(middleware.Logger(false))
	router.Use(middleware.Metrics())
	handlers.New(scanner, index).Register(router)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var metricsSrv *http.Server
	if cfg.MetricsEnabled {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{
			Addr:        ":" + cfg.MetricsPort,
			Handler:     metricsMux,
			ReadTimeout: 15 * time.Second,
		}
		go func() {
			logging.Info("Metrics listening on :%s", cfg.MetricsPort)
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	go func() {
		logging.Info("API listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	logging.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error("Server shutdown: %v", err)
	}
	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logging.Error("Metrics server shutdown: %v", err)
		}
	}
	logging.Info("Shutdown complete")
	os.Exit(0)
}

// runScan executes one scan pass and logs its outcome. A nil result means
// another pass was already running.
func runScan(ctx context.Context, scanner *library.Scanner, trigger string) {
	res, err := scanner.Scan(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		logging.Error("Scan (%s) failed: %v", trigger, err)
		return
	}
	if res == nil {
		return
	}
	logging.Info("Scan (%s) complete: %d entries (%d extracted, %d reused, %d failures) in %v",
		trigger, len(res.Entries), res.Extracted, res.Reused, len(res.Failures), res.Duration.Round(time.Millisecond))
}

// scanLoop re-scans the library on a fixed interval.
func scanLoop(ctx context.Context, scanner *library.Scanner, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runScan(ctx, scanner, "periodic")
		}
	}
}
