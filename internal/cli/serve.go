package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/smokyabdulrahman/prayer-clock/internal/config"
	"github.com/smokyabdulrahman/prayer-clock/internal/logging"
	"github.com/smokyabdulrahman/prayer-clock/internal/server"
)

const shutdownTimeout = 15 * time.Second

var flagAddr string

func newServeCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve prayer schedules over HTTP",
		Long: "Run the JSON HTTP API. Settings come from the environment or a .env file:\n" +
			"PRAYER_CLOCK_ADDR, PRAYER_CLOCK_LOG_LEVEL, PRAYER_CLOCK_CACHE_TTL,\n" +
			"PRAYER_CLOCK_CACHE_SIZE, PRAYER_CLOCK_RATE_LIMIT, ALADHAN_BASE_URL, NOMINATIM_BASE_URL, PRAYER_CLOCK_IPAPI_URL.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := config.FromEnv()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				env.Addr = flagAddr
			}

			log, err := logging.New(cmd.OutOrStdout(), logging.Options{
				Level:   env.LogLevel,
				Service: "prayer-clock",
				Version: version,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ln, err := net.Listen("tcp", env.Addr)
			if err != nil {
				return fmt.Errorf("listening on %s: %w", env.Addr, err)
			}
			return serve(ctx, ln, env, version, log)
		},
	}

	cmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (overrides PRAYER_CLOCK_ADDR)")

	return cmd
}

// serve runs the HTTP API on ln until ctx is cancelled, then shuts down
// gracefully.
func serve(ctx context.Context, ln net.Listener, env config.Env, version string, log zerolog.Logger) error {
	a := newAppWithEnv(env, log)

	router := server.NewRouter(server.Config{
		Version:   version,
		Logger:    log,
		Schedule:  a.schedule,
		Resolver:  a.resolver,
		Cities:    a.nominatim,
		Cache:     a.cache,
		RateLimit: env.RateLimit,
		Now:       now,
	})

	srv := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", ln.Addr().String()).Msg("server listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}
