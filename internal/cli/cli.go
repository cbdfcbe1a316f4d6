package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/framegrid/pkg/buildinfo"
	"github.com/matzehuels/framegrid/pkg/cache"
	"github.com/matzehuels/framegrid/pkg/pipeline"
	"github.com/matzehuels/framegrid/pkg/session"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "framegrid"

	// cacheEnv selects the cache backend when --cache is not given.
	cacheEnv = "FRAMEGRID_CACHE"

	// cachePrefixEnv namespaces cache keys when --cache-prefix is not given.
	cachePrefixEnv = "FRAMEGRID_CACHE_PREFIX"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Out receives command output. Logs go to Logger.
	Out io.Writer

	// cacheTarget is the --cache flag: a directory or a redis:// or
	// mongodb:// URL.
	cacheTarget string

	// cachePrefix namespaces keys so several deployments can share one
	// remote backend.
	cachePrefix string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Framegrid lays out and resizes nested frameset grids",
		Long: `Framegrid computes the geometry of nested frameset grids described in TOML,
renders them to SVG, PNG, PDF, text or Graphviz, and lets you drag the borders
between frames interactively in the terminal.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.cacheTarget, "cache", "",
		"cache backend: directory, redis://, mongodb:// or none (default: $"+cacheEnv+" or the user cache dir)")
	root.PersistentFlags().StringVar(&c.cachePrefix, "cache-prefix", "",
		"prefix for cache keys (default: $"+cachePrefixEnv+")")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.sessionCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.openCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, c.keyer(), c.Logger), nil
}

// newSessionStore opens the cache sessions are kept in. Sessions need a
// persistent backend, so --no-cache does not apply.
func (c *CLI) newSessionStore(ctx context.Context) (*session.Store, cache.Cache, error) {
	store, err := c.openCache(ctx, false)
	if err != nil {
		return nil, nil, err
	}
	if _, ok := store.(*cache.NullCache); ok {
		store.Close()
		return nil, nil, fmt.Errorf("sessions need a cache backend (--cache is %q)", c.cacheTargetOrDefault())
	}
	return session.NewStore(store, c.keyer()), store, nil
}

// keyer returns the cache keyer, scoped when a prefix is configured.
func (c *CLI) keyer() cache.Keyer {
	prefix := c.cachePrefix
	if prefix == "" {
		prefix = os.Getenv(cachePrefixEnv)
	}
	if prefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), prefix)
}

// openCache opens the configured backend. Remote backends show a spinner
// while connecting.
func (c *CLI) openCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	target := c.cacheTargetOrDefault()
	if target == "" {
		return cache.NewNullCache(), nil
	}
	if !strings.Contains(target, "://") {
		return cache.Open(ctx, target)
	}

	spinner := newSpinnerWithContext(ctx, os.Stderr, "Connecting to cache...")
	spinner.Start()
	store, err := cache.Open(ctx, target)
	spinner.Stop()
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	c.Logger.Debug("connected to cache", "backend", fmt.Sprintf("%T", store))
	return store, nil
}

func (c *CLI) cacheTargetOrDefault() string {
	if c.cacheTarget != "" {
		return c.cacheTarget
	}
	if env := os.Getenv(cacheEnv); env != "" {
		return env
	}
	dir, err := cacheDir()
	if err != nil {
		return ""
	}
	return dir
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using the XDG base directory spec
// (~/.cache/framegrid on Linux).
func cacheDir() (string, error) {
	if xdg.CacheHome == "" {
		return "", fmt.Errorf("no user cache directory")
	}
	return filepath.Join(xdg.CacheHome, appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
