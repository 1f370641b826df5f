package main

import (
	"context"
	"fmt"
	"os"

	"github.com/applyforge/applyforge/internal/agents"
	"github.com/applyforge/applyforge/internal/cache"
	"github.com/applyforge/applyforge/internal/config"
	"github.com/applyforge/applyforge/internal/db"
	"github.com/applyforge/applyforge/internal/llm"
	"github.com/applyforge/applyforge/internal/observability"
	"github.com/applyforge/applyforge/internal/routing"
)

var (
	configPath string
	verbose    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON config file (env vars take precedence)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print formatted summaries of results")
}

// loadSettings layers environment values over the optional config file
// and validates the result.
func loadSettings() (*config.Config, error) {
	cfg := config.LoadEnv()

	if configPath != "" {
		fileCfg, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		merged := cfg.Merge(*fileCfg)
		cfg = &merged
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runtimeHandles bundles the agent runtime with everything the command
// needs to report on and tear down after a run.
type runtimeHandles struct {
	Agents  *agents.Runtime
	Usage   *routing.UsageLog
	DB      *db.DB
	Printer *observability.Printer

	closers []func()
}

func (h *runtimeHandles) Close() {
	for i := len(h.closers) - 1; i >= 0; i-- {
		h.closers[i]()
	}
}

// PrintUsage prints aggregate model usage when verbose mode is on.
func (h *runtimeHandles) PrintUsage() {
	if verbose {
		h.Printer.PrintUsageStats(h.Usage.Stats())
	}
}

// buildRuntime wires the model client, router, cache, usage log, and
// optional database metrics into an agent runtime.
func buildRuntime(ctx context.Context, cfg *config.Config) (*runtimeHandles, error) {
	handles := &runtimeHandles{
		Usage:   routing.NewUsageLog(),
		Printer: observability.NewPrinter(os.Stdout),
	}

	llmCfg := llm.DefaultConfig()
	if cfg.Provider != "" {
		llmCfg.Provider = llm.Provider(cfg.Provider)
	}
	llmCfg.APIKey = cfg.APIKey
	llmCfg.BaseURL = cfg.BaseURL
	if cfg.StandardModel != "" {
		llmCfg.DefaultModel = cfg.StandardModel
	}

	client, err := llm.NewClient(ctx, llmCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create model client: %w", err)
	}
	handles.closers = append(handles.closers, func() { _ = client.Close() })

	router := routing.NewRouter(nil)
	for tier, model := range map[routing.Tier]string{
		routing.TierLite:     cfg.LiteModel,
		routing.TierStandard: cfg.StandardModel,
		routing.TierAdvanced: cfg.AdvancedModel,
	} {
		if model != "" {
			router = router.WithModel(tier, model)
		}
	}

	backend, err := buildCacheBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	store := cache.New(backend)
	handles.closers = append(handles.closers, func() { _ = store.Close() })

	opts := []agents.RuntimeOption{
		agents.WithRouter(router),
		agents.WithCache(store),
		agents.WithUsage(handles.Usage),
	}

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		handles.DB = database
		handles.closers = append(handles.closers, database.Close)
		opts = append(opts, agents.WithMetrics(&db.MetricsRecorder{DB: database}))
	}

	handles.Agents = agents.NewRuntime(client, opts...)
	return handles, nil
}

func buildCacheBackend(ctx context.Context, cfg *config.Config) (cache.Backend, error) {
	switch cfg.CacheBackend {
	case "redis":
		backend, err := cache.NewRedisBackend(ctx, cfg.RedisAddr, cfg.RedisPassword, 0)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis cache: %w", err)
		}
		return backend, nil
	case "none":
		return nil, nil
	default:
		backend, err := cache.NewMemoryBackend(0)
		if err != nil {
			return nil, fmt.Errorf("failed to build memory cache: %w", err)
		}
		return backend, nil
	}
}

// readInput loads a required input file for a command flag.
func readInput(path, flag string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("--%s is required", flag)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read --%s file: %w", flag, err)
	}
	return string(data), nil
}
