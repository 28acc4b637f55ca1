package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/majoradvisor-backend/internal/http/response"
	"github.com/yungbote/majoradvisor-backend/internal/services"
)

type GradesHandler struct {
	svc services.GradesService
}

func NewGradesHandler(svc services.GradesService) *GradesHandler {
	return &GradesHandler{svc: svc}
}

func (h *GradesHandler) Get(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	sheet, err := h.svc.Get(c.Request.Context(), p)
	if err != nil {
		response.RespondAPIError(c, err, "grades_failed")
		return
	}
	response.RespondOK(c, data(gin.H{"grades": sheet.Courses, "updatedAt": sheet.UpdatedAt}))
}

func (h *GradesHandler) Save(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req struct {
		Grades []services.GradeInput `json:"grades"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	sheet, err := h.svc.Save(c.Request.Context(), p, req.Grades)
	if err != nil {
		response.RespondAPIError(c, err, "grades_save_failed")
		return
	}
	response.RespondOK(c, gin.H{"message": "Grades saved successfully", "data": sheet})
}
