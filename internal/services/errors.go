package services

import (
	"errors"
	"net/http"

	"github.com/yungbote/majoradvisor-backend/internal/platform/apierr"
)

var (
	ErrConfiguration   = errors.New("ai integration not configured")
	ErrNotFound        = errors.New("not found")
	ErrUpstream        = errors.New("upstream model failure")
	ErrParse           = errors.New("model response could not be parsed")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrConflict        = errors.New("conflict")
)

// kindError carries a caller-facing message while unwrapping to a sentinel.
type kindError struct {
	msg  string
	kind error
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

func newKindError(status int, code string, kind error, msg string) *apierr.Error {
	return apierr.New(status, code, &kindError{msg: msg, kind: kind})
}

func notFound(code, msg string) *apierr.Error {
	return newKindError(http.StatusNotFound, code, ErrNotFound, msg)
}

func forbidden(code, msg string) *apierr.Error {
	return newKindError(http.StatusForbidden, code, ErrForbidden, msg)
}

func invalidArgument(code, msg string) *apierr.Error {
	return newKindError(http.StatusBadRequest, code, ErrInvalidArgument, msg)
}

func unauthorized(code, msg string) *apierr.Error {
	return newKindError(http.StatusUnauthorized, code, ErrUnauthorized, msg)
}

func conflict(code, msg string) *apierr.Error {
	return newKindError(http.StatusConflict, code, ErrConflict, msg)
}

func upstream(code, msg string) *apierr.Error {
	return newKindError(http.StatusBadGateway, code, ErrUpstream, msg)
}

// ConfigProblem names the first reason AI generation is unavailable.
type ConfigProblem string

const (
	ConfigNoAPIKey                ConfigProblem = "no_api_key"
	ConfigAIDisabled              ConfigProblem = "ai_disabled"
	ConfigRecommendationsDisabled ConfigProblem = "recommendations_disabled"
)

type ConfigurationError struct {
	Kind ConfigProblem
}

// Error is the message shown to users of the Arabic admin and student UI.
func (e *ConfigurationError) Error() string {
	switch e.Kind {
	case ConfigAIDisabled:
		return "تم تعطيل ميزات الذكاء الاصطناعي من قبل المسؤول."
	case ConfigRecommendationsDisabled:
		return "تم تعطيل توصيات الذكاء الاصطناعي من قبل المسؤول."
	default:
		return "DeepSeek integration is not configured. يرجى إضافة مفتاح API في إعدادات الذكاء الاصطناعي."
	}
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

func configurationError(kind ConfigProblem) *apierr.Error {
	return apierr.New(http.StatusServiceUnavailable, string(kind), &ConfigurationError{Kind: kind})
}
