package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/openteamsinc/opensourcescore.dev/internal/httpapi"
)

// serveCmd mirrors the teacher's serveCmd: build a pipeline, mount it
// behind an http.Server, and shut down gracefully on SIGINT/SIGTERM.
func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the scoring API over HTTP",
		Long:  `Start an HTTP server exposing /pkg, /score, /source/git and /notes/categories.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			p, err := newPipeline(ctx)
			if err != nil {
				return err
			}

			server := httpapi.New(p.registry, p.vuln, p.git, p.cache, p.logger, gitVersion)

			httpServer := &http.Server{
				Addr:    fmt.Sprintf("0.0.0.0:%s", p.cfg.Port),
				Handler: server.Router(),
			}

			done := make(chan os.Signal, 1)
			signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

			go func() {
				p.logger.Info("server starting", "port", p.cfg.Port)
				if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					p.logger.Error(err, "server error")
				}
			}()

			<-done
			p.logger.Info("shutting down server")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("server shutdown: %w", err)
			}
			return nil
		},
	}
}
