package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/salmonumbrella/xmlcsv/internal/config"
	"github.com/salmonumbrella/xmlcsv/internal/convert"
	"github.com/salmonumbrella/xmlcsv/internal/server"
	"github.com/spf13/cobra"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve conversions over HTTP",
	Long: `Start an HTTP server exposing conversions.

Endpoints:
  GET  /health        liveness check
  POST /api/export    XML body in, CSV out (?strict=true, ?pad=true)
  POST /api/import    CSV body in, XML out`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := runtimeConfig
		level := cfg.Level()
		if debug {
			level = "debug"
		}
		log := newLogger(stderrFromContext(cmd.Context()), level, true)

		srv := server.New(convert.New(nil, log), log, cfg.BodyLimit())
		httpServer := &http.Server{
			Addr:         resolveListenAddr(cmd, cfg),
			Handler:      srv,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// Graceful shutdown.
		go func() {
			<-ctx.Done()
			log.Info("shutting down...")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			httpServer.Shutdown(shutdownCtx)
		}()

		log.Info("starting xmlcsv server", "addr", httpServer.Addr, "max_body_bytes", cfg.BodyLimit())
		if err := listenAndServe(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "Listen address (env: XMLCSV_LISTEN_ADDR, default :8091)")
	rootCmd.AddCommand(serveCmd)
}

// resolveListenAddr applies --addr > env > config > default.
func resolveListenAddr(cmd *cobra.Command, cfg *config.Config) string {
	if flagChanged(cmd, "addr") && strings.TrimSpace(listenAddr) != "" {
		return strings.TrimSpace(listenAddr)
	}
	if env := strings.TrimSpace(envGet("XMLCSV_LISTEN_ADDR")); env != "" {
		return env
	}
	return cfg.Listen()
}
