package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/majoradvisor-backend/internal/data/repos/audit"
	"github.com/yungbote/majoradvisor-backend/internal/data/repos/catalog"
	"github.com/yungbote/majoradvisor-backend/internal/data/repos/recommendation"
	"github.com/yungbote/majoradvisor-backend/internal/data/repos/settings"
	"github.com/yungbote/majoradvisor-backend/internal/data/repos/student"
	"github.com/yungbote/majoradvisor-backend/internal/data/repos/survey"
	"github.com/yungbote/majoradvisor-backend/internal/data/repos/user"
	"github.com/yungbote/majoradvisor-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type StudentRepo = student.StudentRepo

type MajorRepo = catalog.MajorRepo
type UniversityRepo = catalog.UniversityRepo

type QuestionRepo = survey.QuestionRepo
type QuestionFilter = survey.QuestionFilter
type AnswerRepo = survey.AnswerRepo

type RecommendationRepo = recommendation.RecommendationRepo

type AISettingRepo = settings.AISettingRepo
type AuditLogRepo = audit.AuditLogRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo { return user.NewUserRepo(db, baseLog) }
func NewStudentRepo(db *gorm.DB, baseLog *logger.Logger) StudentRepo {
	return student.NewStudentRepo(db, baseLog)
}

func NewMajorRepo(db *gorm.DB, baseLog *logger.Logger) MajorRepo {
	return catalog.NewMajorRepo(db, baseLog)
}
func NewUniversityRepo(db *gorm.DB, baseLog *logger.Logger) UniversityRepo {
	return catalog.NewUniversityRepo(db, baseLog)
}

func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	return survey.NewQuestionRepo(db, baseLog)
}
func NewAnswerRepo(db *gorm.DB, baseLog *logger.Logger) AnswerRepo {
	return survey.NewAnswerRepo(db, baseLog)
}

func NewRecommendationRepo(db *gorm.DB, baseLog *logger.Logger) RecommendationRepo {
	return recommendation.NewRecommendationRepo(db, baseLog)
}

func NewAISettingRepo(db *gorm.DB, baseLog *logger.Logger) AISettingRepo {
	return settings.NewAISettingRepo(db, baseLog)
}
func NewAuditLogRepo(db *gorm.DB, baseLog *logger.Logger) AuditLogRepo {
	return audit.NewAuditLogRepo(db, baseLog)
}
