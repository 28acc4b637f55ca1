package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/majoradvisor-backend/internal/http/response"
	"github.com/yungbote/majoradvisor-backend/internal/services"
)

type MajorHandler struct {
	catalog services.CatalogService
}

func NewMajorHandler(catalog services.CatalogService) *MajorHandler {
	return &MajorHandler{catalog: catalog}
}

func (h *MajorHandler) List(c *gin.Context) {
	majors, err := h.catalog.ListMajors(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err, "majors_failed")
		return
	}
	response.RespondOK(c, data(majors))
}
