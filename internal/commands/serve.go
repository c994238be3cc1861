package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/bookkeeper/internal/api"
)

func newServeCommand(root *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the books over a JSON HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withBooks(cmd, func(a *app) error {
				if addr == "" {
					addr = a.cfg.Server.Addr
				}

				// Saves arrive from concurrent requests; the audit log is
				// appended in order.
				var mu sync.Mutex
				save := func(ctx context.Context) error {
					mu.Lock()
					defer mu.Unlock()
					return a.save(ctx, change{command: "serve", action: "api_change", details: "change via HTTP API"})
				}

				srv := &http.Server{
					Addr:              addr,
					Handler:           api.NewHandler(a.books, save, a.logger),
					ReadHeaderTimeout: 10 * time.Second,
				}

				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()

				errc := make(chan error, 1)
				go func() {
					a.logger.Info("serving books", "addr", addr, "dir", a.dir)
					errc <- srv.ListenAndServe()
				}()

				select {
				case err := <-errc:
					if errors.Is(err, http.ErrServerClosed) {
						return nil
					}
					return fmt.Errorf("serving: %w", err)
				case <-ctx.Done():
				}

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				a.logger.Info("shutting down")
				return srv.Shutdown(shutdownCtx)
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
