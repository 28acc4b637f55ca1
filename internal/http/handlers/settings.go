package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/majoradvisor-backend/internal/http/response"
	"github.com/yungbote/majoradvisor-backend/internal/services"
)

type SettingsHandler struct {
	svc services.AISettingsService
}

func NewSettingsHandler(svc services.AISettingsService) *SettingsHandler {
	return &SettingsHandler{svc: svc}
}

func (h *SettingsHandler) Public(c *gin.Context) {
	view, err := h.svc.PublicView(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err, "ai_settings_failed")
		return
	}
	response.RespondOK(c, data(view))
}

func (h *SettingsHandler) AdminGet(c *gin.Context) {
	view, err := h.svc.AdminView(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err, "ai_settings_failed")
		return
	}
	response.RespondOK(c, data(view))
}

func (h *SettingsHandler) AdminUpdate(c *gin.Context) {
	var req services.AISettingsUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	view, err := h.svc.Update(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIError(c, err, "ai_settings_update_failed")
		return
	}
	response.RespondOK(c, gin.H{"message": "AI settings updated successfully", "data": view})
}

func (h *SettingsHandler) TestConnection(c *gin.Context) {
	var req services.AISettingsUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	res, err := h.svc.TestConnection(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIError(c, err, "connection_test_failed")
		return
	}
	response.RespondOK(c, gin.H{"message": "API connection successful", "data": res})
}
