package services

import (
	"context"
	"strings"
	"time"

	"github.com/yungbote/majoradvisor-backend/internal/data/repos"
	types "github.com/yungbote/majoradvisor-backend/internal/domain"
	"github.com/yungbote/majoradvisor-backend/internal/domain/settings"
	"github.com/yungbote/majoradvisor-backend/internal/platform/dbctx"
	"github.com/yungbote/majoradvisor-backend/internal/platform/llm"
	"github.com/yungbote/majoradvisor-backend/internal/platform/logger"
)

// MaskedAPIKey stands in for a stored key in admin responses.
const MaskedAPIKey = "***ENCRYPTED***"

type AISettingsView struct {
	APIKey                string  `json:"apiKey"`
	Provider              string  `json:"provider"`
	Model                 string  `json:"model"`
	Temperature           float64 `json:"temperature"`
	MaxTokens             int     `json:"maxTokens"`
	EnableAIFeatures      bool    `json:"enableAIFeatures"`
	EnableRecommendations bool    `json:"enableRecommendations"`
	EnableAnalysis        bool    `json:"enableAnalysis"`
	APIEndpoint           string  `json:"apiEndpoint"`
	RequestTimeout        float64 `json:"requestTimeout"`
}

// PublicAISettings is what any signed-in user may see. It never carries the key.
type PublicAISettings struct {
	IsConfigured          bool    `json:"isConfigured"`
	Provider              string  `json:"provider"`
	Model                 string  `json:"model"`
	Temperature           float64 `json:"temperature"`
	MaxTokens             int     `json:"maxTokens"`
	EnableAIFeatures      bool    `json:"enableAIFeatures"`
	EnableRecommendations bool    `json:"enableRecommendations"`
	EnableAnalysis        bool    `json:"enableAnalysis"`
	APIEndpoint           string  `json:"apiEndpoint"`
	RequestTimeout        float64 `json:"requestTimeout"`
}

// AISettingsUpdate leaves a field untouched when it is nil.
type AISettingsUpdate struct {
	APIKey                *string  `json:"apiKey"`
	Provider              *string  `json:"provider"`
	Model                 *string  `json:"model"`
	Temperature           *float64 `json:"temperature"`
	MaxTokens             *int     `json:"maxTokens"`
	EnableAIFeatures      *bool    `json:"enableAIFeatures"`
	EnableRecommendations *bool    `json:"enableRecommendations"`
	EnableAnalysis        *bool    `json:"enableAnalysis"`
	APIEndpoint           *string  `json:"apiEndpoint"`
	RequestTimeout        *float64 `json:"requestTimeout"`
}

type ConnectionTestResult struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Status   string `json:"status"`
}

type AISettingsService interface {
	AdminView(ctx context.Context) (*AISettingsView, error)
	PublicView(ctx context.Context) (*PublicAISettings, error)
	Update(ctx context.Context, in AISettingsUpdate) (*AISettingsView, error)
	TestConnection(ctx context.Context, in AISettingsUpdate) (*ConnectionTestResult, error)
}

type aiSettingsService struct {
	log          *logger.Logger
	settingsRepo repos.AISettingRepo
	resolver     AIConfigResolver
	client       llm.Client
	audit        AuditRecorder
}

func NewAISettingsService(
	log *logger.Logger,
	settingsRepo repos.AISettingRepo,
	resolver AIConfigResolver,
	client llm.Client,
	audit AuditRecorder,
) AISettingsService {
	return &aiSettingsService{
		log:          log.With("service", "AISettingsService"),
		settingsRepo: settingsRepo,
		resolver:     resolver,
		client:       client,
		audit:        audit,
	}
}

func (s *aiSettingsService) AdminView(ctx context.Context) (*AISettingsView, error) {
	cfg := s.resolver.Get(ctx, false)
	view := &AISettingsView{
		Provider:              cfg.Provider,
		Model:                 cfg.Model,
		Temperature:           cfg.Temperature,
		MaxTokens:             cfg.MaxTokens,
		EnableAIFeatures:      cfg.EnableAIFeatures,
		EnableRecommendations: cfg.EnableRecommendations,
		EnableAnalysis:        cfg.EnableAnalysis,
		APIEndpoint:           cfg.APIEndpoint,
		RequestTimeout:        cfg.RequestTimeout.Seconds(),
	}
	if cfg.HasAPIKey() {
		view.APIKey = MaskedAPIKey
	}
	return view, nil
}

func (s *aiSettingsService) PublicView(ctx context.Context) (*PublicAISettings, error) {
	cfg := s.resolver.Get(ctx, true)
	return &PublicAISettings{
		IsConfigured:          s.resolver.IsConfigured(cfg) == nil,
		Provider:              cfg.Provider,
		Model:                 cfg.Model,
		Temperature:           cfg.Temperature,
		MaxTokens:             cfg.MaxTokens,
		EnableAIFeatures:      cfg.EnableAIFeatures,
		EnableRecommendations: cfg.EnableRecommendations,
		EnableAnalysis:        cfg.EnableAnalysis,
		APIEndpoint:           cfg.APIEndpoint,
		RequestTimeout:        cfg.RequestTimeout.Seconds(),
	}, nil
}

func validateSettingsUpdate(in AISettingsUpdate) error {
	switch {
	case in.Temperature != nil && (*in.Temperature < 0 || *in.Temperature > 2):
		return invalidArgument("invalid_temperature", "Temperature must be between 0 and 2")
	case in.MaxTokens != nil && *in.MaxTokens <= 0:
		return invalidArgument("invalid_max_tokens", "Max tokens must be positive")
	case in.RequestTimeout != nil && *in.RequestTimeout <= 0:
		return invalidArgument("invalid_request_timeout", "Request timeout must be positive")
	}
	return nil
}

// usableKey reports whether an incoming key should replace the stored one.
// Blank and masked values never do.
func usableKey(key *string) (string, bool) {
	if key == nil {
		return "", false
	}
	k := strings.TrimSpace(*key)
	if k == "" || strings.Contains(k, "***") {
		return "", false
	}
	return k, true
}

func (s *aiSettingsService) Update(ctx context.Context, in AISettingsUpdate) (*AISettingsView, error) {
	if err := validateSettingsUpdate(in); err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	row, err := s.settingsRepo.Get(dbc)
	if err != nil {
		return nil, err
	}
	if row == nil {
		row = &types.AISetting{ID: settings.SingletonID}
	}

	if k, ok := usableKey(in.APIKey); ok {
		row.APIKey = &k
	}
	if in.Provider != nil {
		row.Provider = in.Provider
	}
	if in.Model != nil {
		row.Model = in.Model
	}
	if in.Temperature != nil {
		row.Temperature = in.Temperature
	}
	if in.MaxTokens != nil {
		row.MaxTokens = in.MaxTokens
	}
	if in.EnableAIFeatures != nil {
		row.EnableAIFeatures = in.EnableAIFeatures
	}
	if in.EnableRecommendations != nil {
		row.EnableRecommendations = in.EnableRecommendations
	}
	if in.EnableAnalysis != nil {
		row.EnableAnalysis = in.EnableAnalysis
	}
	if in.APIEndpoint != nil {
		row.APIEndpoint = in.APIEndpoint
	}
	if in.RequestTimeout != nil {
		row.RequestTimeout = in.RequestTimeout
	}

	if err := s.settingsRepo.Upsert(dbc, row); err != nil {
		return nil, err
	}
	s.resolver.Invalidate(ctx)
	s.log.Info("AI settings updated", "api_key_changed", in.APIKey != nil)
	s.audit.Record(AuditEntryFromContext(ctx, "update", "ai_settings", "Updated AI settings", types.SeverityHigh))
	return s.AdminView(ctx)
}

// TestConnection sends one tiny completion using the submitted settings
// laid over the effective ones.
func (s *aiSettingsService) TestConnection(ctx context.Context, in AISettingsUpdate) (*ConnectionTestResult, error) {
	key, ok := usableKey(in.APIKey)
	if !ok {
		return nil, invalidArgument("invalid_api_key", "Valid API key is required for testing")
	}
	if err := validateSettingsUpdate(in); err != nil {
		return nil, err
	}
	cfg := BuildAIConfig(&types.AISetting{
		APIKey:         &key,
		Provider:       in.Provider,
		Model:          in.Model,
		Temperature:    in.Temperature,
		MaxTokens:      in.MaxTokens,
		APIEndpoint:    in.APIEndpoint,
		RequestTimeout: in.RequestTimeout,
	}, s.resolver.Get(ctx, true))

	started := time.Now()
	_, err := s.client.Complete(ctx, llm.ChatRequest{
		Endpoint:    cfg.APIEndpoint,
		APIKey:      cfg.APIKey,
		Timeout:     cfg.RequestTimeout,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   8,
		Messages:    []llm.Message{{Role: "user", Content: "ping"}},
	})
	if err != nil {
		s.log.Warn("AI connection test failed", "model", cfg.Model, "error", err)
		return nil, upstream("connection_failed", "API connection failed. Please check your API key.")
	}
	s.log.Info("AI connection test succeeded", "model", cfg.Model, "latency_ms", time.Since(started).Milliseconds())
	return &ConnectionTestResult{Provider: cfg.Provider, Model: cfg.Model, Status: "connected"}, nil
}
