package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/majoradvisor-backend/internal/http/response"
	"github.com/yungbote/majoradvisor-backend/internal/services"
)

type AuditHandler struct {
	svc services.AuditLogService
}

func NewAuditHandler(svc services.AuditLogService) *AuditHandler {
	return &AuditHandler{svc: svc}
}

// List reads ?limit=; the repo clamps out-of-range values.
func (h *AuditHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	rows, err := h.svc.ListRecent(c.Request.Context(), limit)
	if err != nil {
		response.RespondAPIError(c, err, "audit_logs_failed")
		return
	}
	response.RespondOK(c, data(rows))
}
