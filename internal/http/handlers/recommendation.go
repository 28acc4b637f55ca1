package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/majoradvisor-backend/internal/http/response"
	"github.com/yungbote/majoradvisor-backend/internal/platform/logger"
	"github.com/yungbote/majoradvisor-backend/internal/services"
)

type RecommendationHandler struct {
	log *logger.Logger
	svc services.RecommendationService
}

func NewRecommendationHandler(log *logger.Logger, svc services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{log: log.With("handler", "RecommendationHandler"), svc: svc}
}

// Generate accepts an optional body {studentId, additionalContext}. An empty
// body targets the caller.
func (h *RecommendationHandler) Generate(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req struct {
		StudentID         *string         `json:"studentId"`
		AdditionalContext json.RawMessage `json:"additionalContext"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	in := services.GenerateInput{}
	if req.StudentID != nil && *req.StudentID != "" {
		id, err := uuid.Parse(*req.StudentID)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_student_id", err)
			return
		}
		in.StudentID = &id
	}
	if len(req.AdditionalContext) > 0 && string(req.AdditionalContext) != "null" {
		var v any
		if err := json.Unmarshal(req.AdditionalContext, &v); err == nil {
			in.AdditionalContext = v
		}
	}

	res, err := h.svc.Generate(c.Request.Context(), p, in)
	if err != nil {
		h.log.Warn("recommendation generation failed", "user_id", p.UserID, "error", err)
		response.RespondAPIError(c, err, "recommendation_failed")
		return
	}
	response.RespondCreated(c, data(res))
}

func (h *RecommendationHandler) List(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	rows, err := h.svc.List(c.Request.Context(), p)
	if err != nil {
		response.RespondAPIError(c, err, "recommendation_list_failed")
		return
	}
	response.RespondOK(c, data(rows))
}
