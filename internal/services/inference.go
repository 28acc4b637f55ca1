package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/yungbote/majoradvisor-backend/internal/platform/llm"
	"github.com/yungbote/majoradvisor-backend/internal/platform/logger"
)

const recommendationSystemPrompt = `You are an AI academic advisor. Always return valid JSON with the schema: { "recommendations": [ { "majorName": string, "reason": string, "confidence": number } ], "analysisSummary": string }. Confidence must be between 0 and 100. Use Arabic language for explanations.`

const recommendationInstruction = "حلل بيانات الطالب التالية واقترح أفضل ثلاثة تخصصات جامعية من القائمة المتاحة. قدم توصية موجزة وواضحة باللغة العربية، ودرجة ثقة لكل تخصص بين 0 و100."

// PromptPayload is serialized verbatim into the second user message.
type PromptPayload struct {
	Student         *StudentContext `json:"student"`
	SurveyAnswers   []SurveyAnswer  `json:"surveyAnswers"`
	AvailableMajors []CatalogEntry  `json:"availableMajors"`
}

type ModelRecommendation struct {
	MajorName     string
	Reason        string
	Confidence    float64
	HasConfidence bool
}

type ModelOutput struct {
	Recommendations []ModelRecommendation
	AnalysisSummary *string
}

type RecommendationModel interface {
	Infer(ctx context.Context, cfg AIConfig, payload PromptPayload) (*ModelOutput, error)
}

type recommendationModel struct {
	log    *logger.Logger
	client llm.Client
}

func NewRecommendationModel(log *logger.Logger, client llm.Client) RecommendationModel {
	return &recommendationModel{log: log.With("service", "RecommendationModel"), client: client}
}

func (m *recommendationModel) Infer(ctx context.Context, cfg AIConfig, payload PromptPayload) (*ModelOutput, error) {
	if err := CheckConfigured(cfg); err != nil {
		return nil, err
	}
	if payload.SurveyAnswers == nil {
		payload.SurveyAnswers = []SurveyAnswer{}
	}
	body, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode prompt payload: %w", err)
	}

	content, err := m.client.Complete(ctx, llm.ChatRequest{
		Endpoint:       cfg.APIEndpoint,
		APIKey:         cfg.APIKey,
		Timeout:        cfg.RequestTimeout,
		Model:          cfg.Model,
		Temperature:    cfg.Temperature,
		MaxTokens:      cfg.MaxTokens,
		ResponseFormat: &llm.ResponseFormat{Type: "json_object"},
		Messages: []llm.Message{
			{Role: "system", Content: recommendationSystemPrompt},
			{Role: "user", Content: recommendationInstruction},
			{Role: "user", Content: string(body)},
		},
	})
	if err != nil {
		status := 0
		var httpErr *llm.HTTPError
		if errors.As(err, &httpErr) {
			status = httpErr.StatusCode
		}
		m.log.Warn("model call failed", "model", cfg.Model, "http_status", status, "error", err)
		if errors.Is(err, llm.ErrEmptyContent) {
			return nil, upstream("upstream_empty", "AI model returned an empty response")
		}
		return nil, upstream("upstream_error", "AI model request failed")
	}

	out, err := ParseModelOutput(content)
	if err != nil {
		m.log.Warn("model output was not valid JSON", "model", cfg.Model, "error", err)
		return nil, err
	}
	return out, nil
}

// ParseModelOutput decodes the model's JSON envelope. A missing or
// non-array recommendations field yields zero recommendations.
func ParseModelOutput(content string) (*ModelOutput, error) {
	var env map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &env); err != nil || env == nil {
		return nil, newKindError(http.StatusBadGateway, "invalid_model_response", ErrParse,
			"AI model response could not be parsed as JSON")
	}

	out := &ModelOutput{Recommendations: []ModelRecommendation{}}
	if s, ok := env["analysisSummary"].(string); ok && s != "" {
		out.AnalysisSummary = &s
	}
	list, ok := env["recommendations"].([]any)
	if !ok {
		return out, nil
	}
	for _, item := range list {
		obj, _ := item.(map[string]any)
		rec := ModelRecommendation{}
		if obj != nil {
			rec.MajorName, _ = obj["majorName"].(string)
			rec.Reason, _ = obj["reason"].(string)
			if rec.Reason == "" {
				rec.Reason, _ = obj["analysis"].(string)
			}
			rec.Confidence, rec.HasConfidence = obj["confidence"].(float64)
		}
		out.Recommendations = append(out.Recommendations, rec)
	}
	return out, nil
}
