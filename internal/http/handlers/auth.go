package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/majoradvisor-backend/internal/http/response"
	"github.com/yungbote/majoradvisor-backend/internal/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type userPayload struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	Name         string  `json:"name"`
	Role         string  `json:"role"`
	UniversityID *string `json:"universityId,omitempty"`
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	token, user, err := ah.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.RespondAPIError(c, err, "login_failed")
		return
	}
	payload := userPayload{ID: user.ID.String(), Email: user.Email, Name: user.FullName, Role: user.Role}
	if user.UniversityID != nil {
		s := user.UniversityID.String()
		payload.UniversityID = &s
	}
	response.RespondOK(c, data(gin.H{
		"token":      token,
		"expires_in": int(ah.authService.TokenTTL().Seconds()),
		"user":       payload,
	}))
}

func (ah *AuthHandler) Me(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	user, err := ah.authService.GetMe(c.Request.Context(), p)
	if err != nil {
		response.RespondAPIError(c, err, "me_failed")
		return
	}
	payload := userPayload{ID: user.ID.String(), Email: user.Email, Name: user.FullName, Role: user.Role}
	if user.UniversityID != nil {
		s := user.UniversityID.String()
		payload.UniversityID = &s
	}
	response.RespondOK(c, data(payload))
}
