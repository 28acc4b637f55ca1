package services

import (
	"context"
	"math"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/yungbote/majoradvisor-backend/internal/data/repos"
	types "github.com/yungbote/majoradvisor-backend/internal/domain"
	"github.com/yungbote/majoradvisor-backend/internal/observability"
	"github.com/yungbote/majoradvisor-backend/internal/platform/dbctx"
	"github.com/yungbote/majoradvisor-backend/internal/platform/envutil"
	"github.com/yungbote/majoradvisor-backend/internal/platform/logger"
)

const (
	DefaultAIProvider     = "deepseek"
	DefaultAIModel        = "deepseek-chat"
	DefaultAITemperature  = 0.7
	DefaultAIMaxTokens    = 2000
	DefaultAIEndpoint     = "https://api.deepseek.com/v1/chat/completions"
	DefaultAITimeout      = 30 * time.Second
	DefaultConfigCacheTTL = 60 * time.Second

	// configRefreshTimeout bounds one settings read on behalf of all waiters.
	configRefreshTimeout = 5 * time.Second

	// AISettingsScope is the invalidation scope shared with other replicas.
	AISettingsScope = "ai_settings"

	// timeouts above this many seconds are legacy millisecond values.
	legacyMillisThreshold = 120
)

// AIConfig is an immutable snapshot of the effective AI settings.
type AIConfig struct {
	APIKey                string
	Provider              string
	Model                 string
	Temperature           float64
	MaxTokens             int
	EnableAIFeatures      bool
	EnableRecommendations bool
	EnableAnalysis        bool
	APIEndpoint           string
	RequestTimeout        time.Duration
}

func (c AIConfig) HasAPIKey() bool { return strings.TrimSpace(c.APIKey) != "" }

func (c AIConfig) ModelVersion() string {
	provider := c.Provider
	if strings.TrimSpace(provider) == "" {
		provider = DefaultAIProvider
	}
	model := c.Model
	if strings.TrimSpace(model) == "" {
		model = DefaultAIModel
	}
	return provider + ":" + model
}

// LoadAIEnvDefaults reads the environment layer of the overlay.
func LoadAIEnvDefaults() AIConfig {
	return AIConfig{
		APIKey:                envutil.FirstString("", "DEEPSEEK_API_KEY", "DEEPSEEK_API_TOKEN"),
		Provider:              envutil.String("AI_PROVIDER", DefaultAIProvider),
		Model:                 envutil.String("DEEPSEEK_MODEL", DefaultAIModel),
		Temperature:           envutil.Float("DEEPSEEK_TEMPERATURE", DefaultAITemperature),
		MaxTokens:             int(envutil.Float("DEEPSEEK_MAX_TOKENS", DefaultAIMaxTokens)),
		EnableAIFeatures:      envutil.Bool("ENABLE_AI_FEATURES", true),
		EnableRecommendations: envutil.Bool("ENABLE_AI_RECOMMENDATIONS", true),
		EnableAnalysis:        envutil.Bool("ENABLE_AI_ANALYSIS", true),
		APIEndpoint:           envutil.String("DEEPSEEK_API_ENDPOINT", DefaultAIEndpoint),
		RequestTimeout:        ParseTimeout(os.Getenv("DEEPSEEK_TIMEOUT"), DefaultAITimeout),
	}
}

// ParseTimeout reads a timeout in seconds. Values above 120 are taken as
// milliseconds.
func ParseTimeout(raw string, def time.Duration) time.Duration {
	return timeoutFromSeconds(envutil.ParseFloat(raw, -1), def)
}

func timeoutFromSeconds(v float64, def time.Duration) time.Duration {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return def
	}
	if v > legacyMillisThreshold {
		v = math.Round(v / 1000)
		if v <= 0 {
			return def
		}
	}
	return time.Duration(v * float64(time.Second))
}

// BuildAIConfig overlays the persisted row on env field by field. A nil row
// yields env unchanged.
func BuildAIConfig(row *types.AISetting, env AIConfig) AIConfig {
	cfg := env
	if row == nil {
		return cfg
	}
	if s, ok := nonBlank(row.APIKey); ok {
		cfg.APIKey = s
	}
	if s, ok := nonBlank(row.Provider); ok {
		cfg.Provider = s
	}
	if s, ok := nonBlank(row.Model); ok {
		cfg.Model = s
	}
	if row.Temperature != nil && !math.IsNaN(*row.Temperature) && !math.IsInf(*row.Temperature, 0) {
		cfg.Temperature = *row.Temperature
	}
	if row.MaxTokens != nil {
		cfg.MaxTokens = *row.MaxTokens
	}
	if row.EnableAIFeatures != nil {
		cfg.EnableAIFeatures = *row.EnableAIFeatures
	}
	if row.EnableRecommendations != nil {
		cfg.EnableRecommendations = *row.EnableRecommendations
	}
	if row.EnableAnalysis != nil {
		cfg.EnableAnalysis = *row.EnableAnalysis
	}
	if s, ok := nonBlank(row.APIEndpoint); ok {
		cfg.APIEndpoint = s
	}
	if row.RequestTimeout != nil {
		cfg.RequestTimeout = timeoutFromSeconds(*row.RequestTimeout, env.RequestTimeout)
	}
	return cfg
}

func nonBlank(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	v := strings.TrimSpace(*s)
	return v, v != ""
}

type ConfigCache interface {
	Get() (AIConfig, bool)
	Set(cfg AIConfig)
	Invalidate()
}

type ttlConfigCache struct {
	mu        sync.RWMutex
	ttl       time.Duration
	now       func() time.Time
	value     AIConfig
	fetchedAt time.Time
	ok        bool
}

// NewTTLConfigCache keeps one snapshot for ttl. A nil clock uses time.Now.
func NewTTLConfigCache(ttl time.Duration, clock func() time.Time) ConfigCache {
	if ttl <= 0 {
		ttl = DefaultConfigCacheTTL
	}
	if clock == nil {
		clock = time.Now
	}
	return &ttlConfigCache{ttl: ttl, now: clock}
}

func (c *ttlConfigCache) Get() (AIConfig, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.ok || c.now().Sub(c.fetchedAt) >= c.ttl {
		return AIConfig{}, false
	}
	return c.value, true
}

func (c *ttlConfigCache) Set(cfg AIConfig) {
	c.mu.Lock()
	c.value = cfg
	c.fetchedAt = c.now()
	c.ok = true
	c.mu.Unlock()
}

func (c *ttlConfigCache) Invalidate() {
	c.mu.Lock()
	c.value = AIConfig{}
	c.ok = false
	c.mu.Unlock()
}

// NoConfigCache never holds a value.
type NoConfigCache struct{}

func (NoConfigCache) Get() (AIConfig, bool) { return AIConfig{}, false }
func (NoConfigCache) Set(AIConfig)          {}
func (NoConfigCache) Invalidate()           {}

// InvalidationPublisher fans cache invalidations out to other replicas.
type InvalidationPublisher interface {
	Publish(ctx context.Context, scope string) error
}

type AIConfigResolver interface {
	// Get never fails; store errors fall back to environment defaults.
	Get(ctx context.Context, useCache bool) AIConfig
	// Invalidate clears the local cache and notifies other replicas.
	Invalidate(ctx context.Context)
	// InvalidateLocal clears only this replica's cache.
	InvalidateLocal()
	IsConfigured(cfg AIConfig) error
}

type aiConfigResolver struct {
	log          *logger.Logger
	settingsRepo repos.AISettingRepo
	env          AIConfig
	cache        ConfigCache
	bus          InvalidationPublisher
	group        singleflight.Group

	refreshTimeout time.Duration
}

func NewAIConfigResolver(
	log *logger.Logger,
	settingsRepo repos.AISettingRepo,
	env AIConfig,
	cache ConfigCache,
	bus InvalidationPublisher,
) AIConfigResolver {
	if cache == nil {
		cache = NoConfigCache{}
	}
	return &aiConfigResolver{
		log:          log.With("service", "AIConfigResolver"),
		settingsRepo: settingsRepo,
		env:          env,
		cache:        cache,
		bus:          bus,

		refreshTimeout: configRefreshTimeout,
	}
}

func (r *aiConfigResolver) Get(ctx context.Context, useCache bool) AIConfig {
	if useCache {
		if cfg, ok := r.cache.Get(); ok {
			return cfg
		}
	}
	// The shared refresh must not die with whichever caller started it.
	v, _, _ := r.group.Do(AISettingsScope, func() (interface{}, error) {
		refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.refreshTimeout)
		defer cancel()
		return r.refresh(refreshCtx), nil
	})
	return v.(AIConfig)
}

func (r *aiConfigResolver) refresh(ctx context.Context) AIConfig {
	row, err := r.settingsRepo.Get(dbctx.Context{Ctx: ctx})
	if err != nil {
		r.log.Warn("AI settings read failed, using environment defaults", "error", err)
		cfg := BuildAIConfig(nil, r.env)
		// a timed out read says nothing about the stored row; retry next call.
		if ctx.Err() == nil {
			r.cache.Set(cfg)
		}
		observability.Current().IncConfigRefresh("error")
		return cfg
	}
	source := "env"
	if row != nil {
		source = "store"
	}
	observability.Current().IncConfigRefresh(source)
	cfg := BuildAIConfig(row, r.env)
	r.cache.Set(cfg)
	return cfg
}

func (r *aiConfigResolver) InvalidateLocal() {
	r.cache.Invalidate()
	r.group.Forget(AISettingsScope)
}

func (r *aiConfigResolver) Invalidate(ctx context.Context) {
	r.InvalidateLocal()
	if r.bus == nil {
		return
	}
	if err := r.bus.Publish(ctx, AISettingsScope); err != nil {
		r.log.Warn("AI settings invalidation publish failed", "error", err)
	}
}

// IsConfigured reports the first blocking problem: missing key, then the
// global AI flag, then the recommendations flag.
func (r *aiConfigResolver) IsConfigured(cfg AIConfig) error {
	return CheckConfigured(cfg)
}

func CheckConfigured(cfg AIConfig) error {
	switch {
	case !cfg.HasAPIKey():
		return configurationError(ConfigNoAPIKey)
	case !cfg.EnableAIFeatures:
		return configurationError(ConfigAIDisabled)
	case !cfg.EnableRecommendations:
		return configurationError(ConfigRecommendationsDisabled)
	}
	return nil
}
