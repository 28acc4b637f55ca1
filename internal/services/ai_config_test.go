package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/majoradvisor-backend/internal/domain"
	"github.com/yungbote/majoradvisor-backend/internal/platform/apierr"
	"github.com/yungbote/majoradvisor-backend/internal/platform/dbctx"
	"github.com/yungbote/majoradvisor-backend/internal/platform/logger"
)

type fakeSettingsRepo struct {
	mu    sync.Mutex
	row   *types.AISetting
	err   error
	reads atomic.Int32
	// gate, when set, holds every read until it is closed or the read's
	// context ends.
	gate chan struct{}
}

func (f *fakeSettingsRepo) Get(dbc dbctx.Context) (*types.AISetting, error) {
	f.reads.Add(1)
	ctx := dbc.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.row == nil {
		return nil, nil
	}
	cp := *f.row
	return &cp, nil
}

func (f *fakeSettingsRepo) Upsert(_ dbctx.Context, row *types.AISetting) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *row
	f.row = &cp
	return nil
}

type fakePublisher struct {
	scopes []string
}

func (p *fakePublisher) Publish(_ context.Context, scope string) error {
	p.scopes = append(p.scopes, scope)
	return nil
}

func strp(s string) *string     { return &s }
func boolp(b bool) *bool        { return &b }
func floatp(f float64) *float64 { return &f }
func intp(i int) *int           { return &i }

func clearAIEnv(t *testing.T) {
	for _, k := range []string{
		"DEEPSEEK_API_KEY", "DEEPSEEK_API_TOKEN", "AI_PROVIDER", "DEEPSEEK_MODEL",
		"DEEPSEEK_TEMPERATURE", "DEEPSEEK_MAX_TOKENS", "ENABLE_AI_FEATURES",
		"ENABLE_AI_RECOMMENDATIONS", "ENABLE_AI_ANALYSIS", "DEEPSEEK_API_ENDPOINT", "DEEPSEEK_TIMEOUT",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadAIEnvDefaults(t *testing.T) {
	clearAIEnv(t)
	cfg := LoadAIEnvDefaults()
	assert.Equal(t, AIConfig{
		Provider:              DefaultAIProvider,
		Model:                 DefaultAIModel,
		Temperature:           DefaultAITemperature,
		MaxTokens:             DefaultAIMaxTokens,
		EnableAIFeatures:      true,
		EnableRecommendations: true,
		EnableAnalysis:        true,
		APIEndpoint:           DefaultAIEndpoint,
		RequestTimeout:        DefaultAITimeout,
	}, cfg)

	t.Setenv("DEEPSEEK_API_TOKEN", "tok")
	t.Setenv("DEEPSEEK_TEMPERATURE", "NaN")
	t.Setenv("DEEPSEEK_MAX_TOKENS", "abc")
	t.Setenv("ENABLE_AI_ANALYSIS", "OFF")
	t.Setenv("ENABLE_AI_FEATURES", "maybe")
	t.Setenv("DEEPSEEK_TIMEOUT", "45000")
	cfg = LoadAIEnvDefaults()
	assert.Equal(t, "tok", cfg.APIKey)
	assert.Equal(t, DefaultAITemperature, cfg.Temperature)
	assert.Equal(t, DefaultAIMaxTokens, cfg.MaxTokens)
	assert.False(t, cfg.EnableAnalysis)
	assert.True(t, cfg.EnableAIFeatures)
	assert.Equal(t, 45*time.Second, cfg.RequestTimeout)
}

func TestParseTimeout(t *testing.T) {
	cases := map[string]time.Duration{
		"":      DefaultAITimeout,
		"-3":    DefaultAITimeout,
		"0":     DefaultAITimeout,
		"10":    10 * time.Second,
		"120":   120 * time.Second,
		"2500":  3 * time.Second,
		"100":   100 * time.Second,
		"12.5":  12500 * time.Millisecond,
		"bogus": DefaultAITimeout,
	}
	for raw, want := range cases {
		assert.Equal(t, want, ParseTimeout(raw, DefaultAITimeout), "raw=%q", raw)
	}
}

func TestBuildAIConfigOverlaysFieldByField(t *testing.T) {
	env := AIConfig{
		APIKey: "env-key", Provider: "deepseek", Model: "deepseek-chat", Temperature: 0.7,
		MaxTokens: 2000, EnableAIFeatures: true, EnableRecommendations: true, EnableAnalysis: true,
		APIEndpoint: DefaultAIEndpoint, RequestTimeout: 30 * time.Second,
	}

	assert.Equal(t, env, BuildAIConfig(nil, env))

	onlyModel := BuildAIConfig(&types.AISetting{Model: strp("deepseek-reasoner")}, env)
	want := env
	want.Model = "deepseek-reasoner"
	assert.Equal(t, want, onlyModel)

	blank := BuildAIConfig(&types.AISetting{APIKey: strp("   "), Provider: strp("")}, env)
	assert.Equal(t, env, blank)

	full := BuildAIConfig(&types.AISetting{
		APIKey:                strp("db-key"),
		Temperature:           floatp(0.2),
		MaxTokens:             intp(512),
		EnableRecommendations: boolp(false),
		RequestTimeout:        floatp(90000),
	}, env)
	assert.Equal(t, "db-key", full.APIKey)
	assert.Equal(t, 0.2, full.Temperature)
	assert.Equal(t, 512, full.MaxTokens)
	assert.False(t, full.EnableRecommendations)
	assert.Equal(t, 90*time.Second, full.RequestTimeout)
	assert.Equal(t, "deepseek:deepseek-chat", full.ModelVersion())
}

func TestResolverCachesAndInvalidates(t *testing.T) {
	repo := &fakeSettingsRepo{row: &types.AISetting{ID: 1, Model: strp("m1")}}
	bus := &fakePublisher{}
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	r := NewAIConfigResolver(logger.Nop(), repo, AIConfig{Provider: "deepseek"}, NewTTLConfigCache(time.Minute, clock), bus)
	ctx := context.Background()

	assert.Equal(t, "m1", r.Get(ctx, true).Model)
	repo.row.Model = strp("m2")
	assert.Equal(t, "m1", r.Get(ctx, true).Model, "cached snapshot")
	assert.Equal(t, "m2", r.Get(ctx, false).Model, "bypass cache")

	repo.row.Model = strp("m3")
	now = now.Add(2 * time.Minute)
	assert.Equal(t, "m3", r.Get(ctx, true).Model, "ttl expired")

	repo.row.Model = strp("m4")
	r.Invalidate(ctx)
	assert.Equal(t, "m4", r.Get(ctx, true).Model)
	assert.Equal(t, []string{AISettingsScope}, bus.scopes)
}

func TestResolverSwallowsStoreErrors(t *testing.T) {
	repo := &fakeSettingsRepo{err: errors.New("db down")}
	env := AIConfig{APIKey: "k", Model: "env-model"}
	r := NewAIConfigResolver(logger.Nop(), repo, env, NoConfigCache{}, nil)
	assert.Equal(t, env, r.Get(context.Background(), true))
}

func TestResolverCollapsesConcurrentRefreshes(t *testing.T) {
	repo := &fakeSettingsRepo{row: &types.AISetting{ID: 1, Model: strp("x")}, gate: make(chan struct{})}
	r := NewAIConfigResolver(logger.Nop(), repo, AIConfig{}, NewTTLConfigCache(time.Minute, nil), nil)

	const callers = 16
	var started, done sync.WaitGroup
	started.Add(callers)
	done.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer done.Done()
			started.Done()
			assert.Equal(t, "x", r.Get(context.Background(), true).Model)
		}()
	}
	started.Wait()
	require.Eventually(t, func() bool { return repo.reads.Load() >= 1 }, time.Second, time.Millisecond)
	// let the remaining callers join the in-flight read before it returns.
	time.Sleep(50 * time.Millisecond)
	close(repo.gate)
	done.Wait()

	assert.Equal(t, int32(1), repo.reads.Load())
}

func TestResolverSurvivesCancelledCaller(t *testing.T) {
	repo := &fakeSettingsRepo{row: &types.AISetting{ID: 1, APIKey: strp("db-key")}}
	r := NewAIConfigResolver(logger.Nop(), repo, AIConfig{EnableAIFeatures: true, EnableRecommendations: true}, NewTTLConfigCache(time.Minute, nil), nil)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, "db-key", r.Get(cancelled, true).APIKey)

	cfg := r.Get(context.Background(), true)
	assert.Equal(t, "db-key", cfg.APIKey)
	assert.NoError(t, r.IsConfigured(cfg))
}

func TestResolverDoesNotCacheTimedOutRead(t *testing.T) {
	repo := &fakeSettingsRepo{row: &types.AISetting{ID: 1, APIKey: strp("db-key")}, gate: make(chan struct{})}
	r := NewAIConfigResolver(logger.Nop(), repo, AIConfig{Model: "env-model"}, NewTTLConfigCache(time.Minute, nil), nil)
	r.(*aiConfigResolver).refreshTimeout = 10 * time.Millisecond

	fallback := r.Get(context.Background(), true)
	assert.Empty(t, fallback.APIKey)
	assert.Equal(t, "env-model", fallback.Model)

	close(repo.gate)
	assert.Equal(t, "db-key", r.Get(context.Background(), true).APIKey)
	assert.Equal(t, int32(2), repo.reads.Load())
}

func TestCheckConfiguredOrder(t *testing.T) {
	cases := []struct {
		cfg     AIConfig
		kind    ConfigProblem
		message string
	}{
		{AIConfig{EnableAIFeatures: false, EnableRecommendations: false}, ConfigNoAPIKey,
			"DeepSeek integration is not configured. يرجى إضافة مفتاح API في إعدادات الذكاء الاصطناعي."},
		{AIConfig{APIKey: "k", EnableAIFeatures: false, EnableRecommendations: false}, ConfigAIDisabled,
			"تم تعطيل ميزات الذكاء الاصطناعي من قبل المسؤول."},
		{AIConfig{APIKey: "k", EnableAIFeatures: true, EnableRecommendations: false}, ConfigRecommendationsDisabled,
			"تم تعطيل توصيات الذكاء الاصطناعي من قبل المسؤول."},
	}
	for _, tc := range cases {
		err := CheckConfigured(tc.cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrConfiguration)
		var ce *ConfigurationError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, tc.kind, ce.Kind)
		assert.Equal(t, 503, apierr.From(err, "x").Status)
		assert.Equal(t, tc.message, err.Error())
	}
	assert.NoError(t, CheckConfigured(AIConfig{APIKey: "k", EnableAIFeatures: true, EnableRecommendations: true}))
}
