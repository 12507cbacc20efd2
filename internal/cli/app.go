package cli

import (
	"context"
	"errors"
	"fmt"

	"lifeplan_agent/internal/config"
	"lifeplan_agent/internal/core"
	"lifeplan_agent/internal/llm"
	"lifeplan_agent/internal/logger"
	"lifeplan_agent/internal/metrics"
	"lifeplan_agent/internal/storage"

	"golang.org/x/time/rate"
)

// newGenerator is swapped in tests
var newGenerator = llm.NewGenerator

// app holds everything a command needs
type app struct {
	cfg     *config.Config
	engine  *core.Engine
	store   *storage.Store
	metrics *metrics.Metrics
	redis   *storage.RedisWindow
}

func newApp(ctx context.Context, opts *rootOptions) (*app, error) {
	cfg, err := config.Load(opts.configPath, opts.envFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(cfg.Log); err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}

	a := &app{cfg: cfg, metrics: metrics.New()}

	var window storage.Window = storage.NewMemoryWindow(cfg.Memory.ShortTermCapacity)
	if cfg.Memory.RedisURL != "" {
		rw, err := storage.NewRedisWindow(ctx, cfg.Memory.RedisURL, cfg.Memory.RedisKey, cfg.Memory.ShortTermCapacity)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, keeping short-term memory in process")
		} else {
			a.redis = rw
			window = rw
		}
	}

	a.store, err = storage.Open(cfg.Memory.File, window, storage.WithPreferenceCapacity(cfg.Memory.PreferenceCapacity))
	if err != nil {
		a.close()
		return nil, fmt.Errorf("failed to open memory: %w", err)
	}

	var client *llm.Client
	if cfg.HasCredential() {
		gen, err := newGenerator(ctx, cfg.LLM)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("failed to create generator: %w", err)
		}
		var limiter *rate.Limiter
		if cfg.LLM.RequestsPerSecond > 0 {
			limiter = rate.NewLimiter(rate.Limit(cfg.LLM.RequestsPerSecond), 1)
		}
		client = llm.NewClient(gen, llm.Options{MaxRetries: cfg.LLM.MaxRetries, Limiter: limiter})
	} else {
		logger.Warn().Msg("DASHSCOPE_API_KEY is not set, plan requests will be refused")
	}

	a.engine, err = core.NewEngine(cfg, client, a.store, core.WithMetrics(a.metrics))
	if err != nil {
		a.close()
		return nil, err
	}
	return a, nil
}

func (a *app) close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close redis")
		}
	}
}

// unavailableHint turns the missing-credential error into something actionable
func unavailableHint(err error) error {
	if errors.Is(err, core.ErrUnavailable) {
		return fmt.Errorf("%w: set DASHSCOPE_API_KEY or llm.api_key", err)
	}
	return err
}
