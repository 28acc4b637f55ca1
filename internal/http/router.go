package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/majoradvisor-backend/internal/domain/auth"
	httpH "github.com/yungbote/majoradvisor-backend/internal/http/handlers"
	httpMW "github.com/yungbote/majoradvisor-backend/internal/http/middleware"
	"github.com/yungbote/majoradvisor-backend/internal/observability"
	"github.com/yungbote/majoradvisor-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	CORSOrigins []string
	// ServiceName enables otelgin spans when non-empty.
	ServiceName string
	Metrics     *observability.Metrics

	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler         *httpH.HealthHandler
	AuthHandler           *httpH.AuthHandler
	RecommendationHandler *httpH.RecommendationHandler
	MajorHandler          *httpH.MajorHandler
	SettingsHandler       *httpH.SettingsHandler
	AuditHandler          *httpH.AuditHandler
	SurveyHandler         *httpH.SurveyHandler
	GradesHandler         *httpH.GradesHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.AttachRequestContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api")

	// Auth (public)
	if cfg.AuthHandler != nil {
		api.POST("/auth/login", cfg.AuthHandler.Login)
	}

	protected := api.Group("")
	if cfg.AuthMiddleware == nil {
		return r
	}
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	adminOnly := cfg.AuthMiddleware.RequireRole(auth.RoleAdmin)
	studentOnly := cfg.AuthMiddleware.RequireRole(auth.RoleStudent)

	if cfg.AuthHandler != nil {
		protected.GET("/auth/me", cfg.AuthHandler.Me)
	}

	// Recommendations
	if cfg.RecommendationHandler != nil {
		protected.POST("/recommendations/generate", cfg.RecommendationHandler.Generate)
		protected.GET("/recommendations", cfg.RecommendationHandler.List)
	}

	if cfg.MajorHandler != nil {
		protected.GET("/majors", cfg.MajorHandler.List)
	}

	// Survey
	if cfg.SurveyHandler != nil {
		protected.GET("/survey/questions", cfg.SurveyHandler.ListQuestions)
		protected.GET("/survey/questions/:id", cfg.SurveyHandler.GetQuestion)
		protected.POST("/survey/questions", adminOnly, cfg.SurveyHandler.CreateQuestion)
		protected.POST("/survey/save-answer", studentOnly, cfg.SurveyHandler.SaveAnswer)
		protected.POST("/survey/submit", studentOnly, cfg.SurveyHandler.Submit)
		protected.GET("/survey/completion-status", studentOnly, cfg.SurveyHandler.CompletionStatus)
		protected.GET("/survey/my-answers", studentOnly, cfg.SurveyHandler.MyAnswers)
	}

	if cfg.GradesHandler != nil {
		protected.GET("/students/me/grades", cfg.GradesHandler.Get)
		protected.POST("/students/me/grades", cfg.GradesHandler.Save)
	}

	// AI settings
	if cfg.SettingsHandler != nil {
		protected.GET("/ai/settings", cfg.SettingsHandler.Public)
		protected.GET("/admin/ai-settings", adminOnly, cfg.SettingsHandler.AdminGet)
		protected.PUT("/admin/ai-settings", adminOnly, cfg.SettingsHandler.AdminUpdate)
		protected.POST("/admin/ai-settings/test-connection", adminOnly, cfg.SettingsHandler.TestConnection)
	}

	if cfg.AuditHandler != nil {
		protected.GET("/admin/audit-logs", adminOnly, cfg.AuditHandler.List)
	}

	return r
}
