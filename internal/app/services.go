package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/majoradvisor-backend/internal/platform/logger"
	"github.com/yungbote/majoradvisor-backend/internal/services"
)

type Services struct {
	Auth           services.AuthService
	AIConfig       services.AIConfigResolver
	Profile        services.ProfileService
	Catalog        services.CatalogService
	Model          services.RecommendationModel
	Recommendation services.RecommendationService
	Audit          services.AuditRecorder
	AuditLogs      services.AuditLogService
	Survey         services.SurveyService
	Grades         services.GradesService
	AISettings     services.AISettingsService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, c Clients) Services {
	log.Info("Wiring services...")

	var publisher services.InvalidationPublisher
	if c.Bus != nil {
		publisher = c.Bus
	}
	var cache services.ConfigCache = services.NoConfigCache{}
	if cfg.AIConfigCacheTTL > 0 {
		cache = services.NewTTLConfigCache(cfg.AIConfigCacheTTL, nil)
	}
	resolver := services.NewAIConfigResolver(log, r.AISetting, services.LoadAIEnvDefaults(), cache, publisher)

	audit := services.NewAuditRecorder(log, r.AuditLog, cfg.AuditBuffer)
	profile := services.NewProfileService(log, r.Student, r.Answer)
	catalog := services.NewCatalogService(db, log, r.Major, r.University)
	model := services.NewRecommendationModel(log, c.LLM)
	recommendation := services.NewRecommendationService(
		log,
		resolver,
		profile,
		catalog,
		model,
		r.Recommendation,
		r.Student,
		r.Major,
		r.User,
		audit,
	)

	return Services{
		Auth:           services.NewAuthService(db, log, r.User, r.Student, cfg.JWTSecret, cfg.TokenTTL),
		AIConfig:       resolver,
		Profile:        profile,
		Catalog:        catalog,
		Model:          model,
		Recommendation: recommendation,
		Audit:          audit,
		AuditLogs:      services.NewAuditLogService(log, r.AuditLog),
		Survey:         services.NewSurveyService(log, r.Question, r.Answer, r.Student, resolver, recommendation, audit),
		Grades:         services.NewGradesService(log, r.Student),
		AISettings:     services.NewAISettingsService(log, r.AISetting, resolver, c.LLM, audit),
	}
}
