package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/majoradvisor-backend/internal/data/repos"
	"github.com/yungbote/majoradvisor-backend/internal/data/repos/testutil"
	types "github.com/yungbote/majoradvisor-backend/internal/domain"
	"github.com/yungbote/majoradvisor-backend/internal/platform/dbctx"
)

type settingsFixture struct {
	repo  repos.AISettingRepo
	pub   *fakePublisher
	llm   *fakeLLM
	audit *memAuditRepo
	rec   AuditRecorder
	svc   AISettingsService
}

func newSettingsFixture(t *testing.T, env AIConfig) *settingsFixture {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	f := &settingsFixture{
		repo:  repos.NewAISettingRepo(db, log),
		pub:   &fakePublisher{},
		llm:   &fakeLLM{},
		audit: &memAuditRepo{},
	}
	f.rec = NewAuditRecorder(log, f.audit, 8)
	t.Cleanup(func() { _ = f.rec.Close(context.Background()) })
	resolver := NewAIConfigResolver(log, f.repo, env, NewTTLConfigCache(DefaultConfigCacheTTL, nil), f.pub)
	f.svc = NewAISettingsService(log, f.repo, resolver, f.llm, f.rec)
	return f
}

func TestAdminViewMasksKey(t *testing.T) {
	f := newSettingsFixture(t, configuredAI())
	view, err := f.svc.AdminView(context.Background())
	require.NoError(t, err)
	assert.Equal(t, MaskedAPIKey, view.APIKey)
	assert.Equal(t, "deepseek-chat", view.Model)

	env := configuredAI()
	env.APIKey = ""
	f = newSettingsFixture(t, env)
	view, err = f.svc.AdminView(context.Background())
	require.NoError(t, err)
	assert.Empty(t, view.APIKey)
}

func TestUpdateOverlaysAndInvalidates(t *testing.T) {
	env := configuredAI()
	env.APIKey = ""
	f := newSettingsFixture(t, env)
	ctx := context.Background()

	public, err := f.svc.PublicView(ctx)
	require.NoError(t, err)
	assert.False(t, public.IsConfigured)

	view, err := f.svc.Update(ctx, AISettingsUpdate{
		APIKey:         strp("sk-new"),
		Model:          strp("deepseek-reasoner"),
		RequestTimeout: floatp(45),
	})
	require.NoError(t, err)
	assert.Equal(t, MaskedAPIKey, view.APIKey)
	assert.Equal(t, "deepseek-reasoner", view.Model)
	assert.InDelta(t, 45, view.RequestTimeout, 1e-9)
	assert.Equal(t, []string{AISettingsScope}, f.pub.scopes)

	public, err = f.svc.PublicView(ctx)
	require.NoError(t, err)
	assert.True(t, public.IsConfigured, "cached view must be refreshed after update")

	// A masked key round-tripped from the admin form keeps the stored key.
	_, err = f.svc.Update(ctx, AISettingsUpdate{APIKey: strp(MaskedAPIKey), EnableRecommendations: boolp(false)})
	require.NoError(t, err)
	row, err := f.repo.Get(dbctx.Context{Ctx: ctx})
	require.NoError(t, err)
	require.NotNil(t, row.APIKey)
	assert.Equal(t, "sk-new", *row.APIKey)
	require.NotNil(t, row.Model)
	assert.Equal(t, "deepseek-reasoner", *row.Model)

	public, err = f.svc.PublicView(ctx)
	require.NoError(t, err)
	assert.False(t, public.IsConfigured)
	assert.False(t, public.EnableRecommendations)

	require.NoError(t, f.rec.Close(ctx))
	logs, _ := f.audit.ListRecent(dbctx.Context{}, 0)
	require.Len(t, logs, 2)
	assert.Equal(t, types.SeverityHigh, logs[0].Severity)
	assert.Equal(t, "ai_settings", logs[0].Entity)
}

func TestUpdateRejectsOutOfRangeValues(t *testing.T) {
	f := newSettingsFixture(t, configuredAI())
	ctx := context.Background()

	_, err := f.svc.Update(ctx, AISettingsUpdate{Temperature: floatp(3)})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = f.svc.Update(ctx, AISettingsUpdate{MaxTokens: intp(0)})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Empty(t, f.pub.scopes)
}

func TestConnectionTest(t *testing.T) {
	f := newSettingsFixture(t, configuredAI())
	ctx := context.Background()

	_, err := f.svc.TestConnection(ctx, AISettingsUpdate{APIKey: strp(MaskedAPIKey)})
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Equal(t, 0, f.llm.calls)

	f.llm.content = "pong"
	res, err := f.svc.TestConnection(ctx, AISettingsUpdate{APIKey: strp("sk-submitted"), Model: strp("deepseek-reasoner")})
	require.NoError(t, err)
	assert.Equal(t, "connected", res.Status)
	assert.Equal(t, "deepseek-reasoner", res.Model)
	assert.Equal(t, "sk-submitted", f.llm.last.APIKey)

	f.llm.err = errors.New("401")
	_, err = f.svc.TestConnection(ctx, AISettingsUpdate{APIKey: strp("sk-bad")})
	assert.ErrorIs(t, err, ErrUpstream)
}
