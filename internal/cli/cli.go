package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/digibouquet/internal/config"
	"github.com/matzehuels/digibouquet/pkg/buildinfo"
	"github.com/matzehuels/digibouquet/pkg/cache"
	"github.com/matzehuels/digibouquet/pkg/core/bouquet"
	"github.com/matzehuels/digibouquet/pkg/pipeline"
	"github.com/matzehuels/digibouquet/pkg/share"
	"github.com/matzehuels/digibouquet/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = config.AppName

	// defaultOutputBase names output files when neither -o nor an input file is given.
	defaultOutputBase = "bouquet"
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

	// ConfigPath is the --config flag. Empty means the default location.
	ConfigPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Digibouquet arranges and shares digital flower bouquets",
		Long:         `Digibouquet lays out flower bouquets deterministically from a seed, renders them as SVG, PNG or PDF, and shares them as stored bouquets or self-contained links.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default: $XDG_CONFIG_HOME/digibouquet/config.toml)")

	root.AddCommand(c.flowersCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.composeCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.linkCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner and Service Factory
// =============================================================================

func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(ch, nil, c.Logger), nil
}

// newCache opens the configured cache. A broken cache setup degrades to no
// caching rather than failing the command.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	ch, err := cfg.OpenCache(ctx)
	if err != nil {
		loggerFromContext(ctx).Warn("cache unavailable, continuing without", "backend", cfg.Cache.Backend, "error", err)
		return cache.NewNullCache(), nil
	}
	return ch, nil
}

// newService opens the configured store and returns a share service over it.
// The returned close function releases the store and the runner's cache.
func (c *CLI) newService(ctx context.Context, noCache bool) (*share.Service, func(), error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	st, err := cfg.OpenStore(ctx, c.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	svc := share.New(st, runner,
		share.WithBaseURL(cfg.Server.BaseURL),
		share.WithBackend(storeBackend(cfg)),
		share.WithFrame(cfg.Render.Width, cfg.Render.Height),
		share.WithLogger(c.Logger),
	)
	closeFn := func() {
		if err := st.Close(); err != nil {
			c.Logger.Debug("close store", "error", err)
		}
		_ = runner.Close()
	}
	return svc, closeFn, nil
}

func storeBackend(cfg *config.Config) string {
	if cfg.Store.Backend == "" {
		return store.BackendFile
	}
	return cfg.Store.Backend
}

// =============================================================================
// Bouquet Input
// =============================================================================

// bouquetFlags are the flags that describe a bouquet on the command line.
type bouquetFlags struct {
	flowers  string
	seed     int64
	greenery string
}

func (f *bouquetFlags) register(cmd *cobra.Command, defaultSeed int64) {
	cmd.Flags().StringVar(&f.flowers, "flowers", "", "flowers as key=count pairs, e.g. roses=3,tulips=2")
	cmd.Flags().Int64Var(&f.seed, "seed", defaultSeed, "layout seed")
	cmd.Flags().StringVar(&f.greenery, "greenery", string(bouquet.DefaultGreenery), "greenery style: classic, wild, eucalyptus")
}

// spec builds a Spec from the flags, or from the JSON file at path when one
// is given. Flags explicitly set on the command line override the file.
func (f *bouquetFlags) spec(cmd *cobra.Command, path string) (bouquet.Spec, error) {
	var s bouquet.Spec
	if path != "" {
		loaded, err := readSpecFile(path)
		if err != nil {
			return s, err
		}
		s = loaded
	}

	if path == "" || cmd.Flags().Changed("flowers") {
		flowers, err := parseFlowers(f.flowers)
		if err != nil {
			return s, err
		}
		s.Flowers = flowers
	}
	if path == "" || cmd.Flags().Changed("seed") {
		s.Seed = f.seed
	}
	if path == "" || cmd.Flags().Changed("greenery") {
		g, err := bouquet.ParseGreenery(f.greenery)
		if err != nil {
			return s, err
		}
		s.Greenery = g
	}
	if s.Greenery == "" {
		s.Greenery = bouquet.DefaultGreenery
	}
	return s, nil
}

// readSpecFile reads a bouquet spec. Both a bare spec and a pipeline options
// document with a "bouquet" field are accepted.
func readSpecFile(path string) (bouquet.Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return bouquet.Spec{}, fmt.Errorf("read bouquet %s: %w", path, err)
	}
	var wrapped struct {
		Bouquet *bouquet.Spec `json:"bouquet"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Bouquet != nil {
		return *wrapped.Bouquet, nil
	}
	var s bouquet.Spec
	if err := json.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse bouquet %s: %w", path, err)
	}
	return s, nil
}

// parseFlowers parses "roses=3,tulips" into counts. A key without a count
// counts once; repeated keys add up.
func parseFlowers(s string) (map[string]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("no flowers given (use --flowers roses=3,tulips=2)")
	}
	counts := make(map[string]int)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, countStr, hasCount := strings.Cut(part, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		n := 1
		if hasCount {
			v, err := strconv.Atoi(strings.TrimSpace(countStr))
			if err != nil || v < 0 {
				return nil, fmt.Errorf("invalid count for %q: %q", key, countStr)
			}
			n = v
		}
		counts[key] += n
	}
	return counts, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return parts
}
