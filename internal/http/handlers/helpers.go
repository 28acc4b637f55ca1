package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/majoradvisor-backend/internal/domain"
	"github.com/yungbote/majoradvisor-backend/internal/http/response"
	"github.com/yungbote/majoradvisor-backend/internal/services"
)

// principal writes a 401 and returns false when the request is anonymous.
func principal(c *gin.Context) (types.Principal, bool) {
	p, err := services.PrincipalFromContext(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err, "unauthorized")
		return types.Principal{}, false
	}
	return p, true
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return uuid.Nil, false
	}
	return id, true
}

func data(v any) gin.H { return gin.H{"data": v} }
