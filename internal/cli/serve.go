package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/framegrid/internal/server"
	"github.com/matzehuels/framegrid/pkg/cache"
	"github.com/matzehuels/framegrid/pkg/pipeline"
	"github.com/matzehuels/framegrid/pkg/session"
)

// serveCommand runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layouts, renders and resize sessions over HTTP",
		Long: `Serve layouts, renders and resize sessions over HTTP.

Endpoints:
  GET    /healthz
  POST   /v1/layout
  POST   /v1/render?format=svg
  POST   /v1/sessions
  GET    /v1/sessions/{id}
  PUT    /v1/sessions/{id}/deltas
  DELETE /v1/sessions/{id}

The cache backend (--cache) stores layouts, artifacts and sessions. Use a
redis:// or mongodb:// URL to share it between instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, timeout)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().DurationVar(&timeout, "timeout", server.DefaultTimeout, "per-request timeout")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, timeout time.Duration) error {
	store, err := c.openCache(ctx, false)
	if err != nil {
		return err
	}
	defer store.Close()
	if _, ok := store.(*cache.NullCache); ok {
		printWarning("Caching is disabled; sessions will not persist")
	}

	srv := server.New(server.Config{
		Addr:     addr,
		Runner:   pipeline.NewRunner(store, c.keyer(), c.Logger),
		Sessions: session.NewStore(store, c.keyer()),
		Logger:   c.Logger,
		Timeout:  timeout,
	})
	if err := srv.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
