package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"cinema-ticketing/internal/cache"
	"cinema-ticketing/internal/event"
	"cinema-ticketing/internal/wire"
	"cinema-ticketing/internal/worker"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the booking sweeper",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		rt, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer rt.Close()

		config, logger := rt.config, rt.log
		logger.Info("Starting application",
			zap.String("app", config.App.Name),
			zap.String("port", config.App.Port),
			zap.String("store", config.App.Store),
			zap.Bool("debug", config.App.Debug),
		)

		redisClient := cache.NewRedisClient(config.Redis, logger)
		if redisClient != nil {
			defer redisClient.Close()
		}
		seats := cache.NewSeatCache(redisClient, config.Redis.TTL, logger)

		publisher := event.New(config.Event, logger)
		defer func() {
			if err := publisher.Close(); err != nil {
				logger.Warn("Failed to close event publisher", zap.Error(err))
			}
		}()

		app := wire.Wiring(rt.repo, rt.store, seats, publisher, config, logger)
		sweeper := worker.NewSweeper(app.Service.Booking, config.Sweep.Interval, config.Sweep.CancelPendingAfter, logger)

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			sweeper.Start(ctx)
			return nil
		})
		g.Go(func() error {
			return APIServer(ctx, app.Router, config.App.Port, config.App.ShutdownTimeout, logger)
		})
		return g.Wait()
	},
}

// APIServer serves route on port until ctx is done, then drains in-flight
// requests for at most shutdownTimeout.
func APIServer(ctx context.Context, route http.Handler, port string, shutdownTimeout time.Duration, logger *zap.Logger) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           route,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server", zap.Duration("timeout", shutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("HTTP server stopped")
	return nil
}
