package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/majoradvisor-backend/internal/http"
	httpH "github.com/yungbote/majoradvisor-backend/internal/http/handlers"
	httpMW "github.com/yungbote/majoradvisor-backend/internal/http/middleware"
	"github.com/yungbote/majoradvisor-backend/internal/observability"
	"github.com/yungbote/majoradvisor-backend/internal/platform/logger"
)

func wireRouterConfig(db *gorm.DB, log *logger.Logger, cfg Config, s Services, m *observability.Metrics) http.RouterConfig {
	log.Info("Wiring handlers...")
	rc := http.RouterConfig{
		Log:         log,
		CORSOrigins: cfg.CORSOrigins,
		Metrics:     m,

		AuthMiddleware: httpMW.NewAuthMiddleware(log, s.Auth),

		HealthHandler:         httpH.NewHealthHandler(db),
		AuthHandler:           httpH.NewAuthHandler(s.Auth),
		RecommendationHandler: httpH.NewRecommendationHandler(log, s.Recommendation),
		MajorHandler:          httpH.NewMajorHandler(s.Catalog),
		SettingsHandler:       httpH.NewSettingsHandler(s.AISettings),
		AuditHandler:          httpH.NewAuditHandler(s.AuditLogs),
		SurveyHandler:         httpH.NewSurveyHandler(s.Survey),
		GradesHandler:         httpH.NewGradesHandler(s.Grades),
	}
	if cfg.Otel.Enabled {
		rc.ServiceName = cfg.ServiceName
	}
	return rc
}
