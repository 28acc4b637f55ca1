package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/majoradvisor-backend/internal/data/repos"
	"github.com/yungbote/majoradvisor-backend/internal/platform/logger"
)

type Repos struct {
	User           repos.UserRepo
	Student        repos.StudentRepo
	Major          repos.MajorRepo
	University     repos.UniversityRepo
	Question       repos.QuestionRepo
	Answer         repos.AnswerRepo
	Recommendation repos.RecommendationRepo
	AISetting      repos.AISettingRepo
	AuditLog       repos.AuditLogRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:           repos.NewUserRepo(db, log),
		Student:        repos.NewStudentRepo(db, log),
		Major:          repos.NewMajorRepo(db, log),
		University:     repos.NewUniversityRepo(db, log),
		Question:       repos.NewQuestionRepo(db, log),
		Answer:         repos.NewAnswerRepo(db, log),
		Recommendation: repos.NewRecommendationRepo(db, log),
		AISetting:      repos.NewAISettingRepo(db, log),
		AuditLog:       repos.NewAuditLogRepo(db, log),
	}
}
