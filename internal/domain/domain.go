package domain

import (
	"github.com/yungbote/majoradvisor-backend/internal/domain/academic"
	"github.com/yungbote/majoradvisor-backend/internal/domain/audit"
	"github.com/yungbote/majoradvisor-backend/internal/domain/auth"
	"github.com/yungbote/majoradvisor-backend/internal/domain/recommendation"
	"github.com/yungbote/majoradvisor-backend/internal/domain/settings"
	"github.com/yungbote/majoradvisor-backend/internal/domain/survey"
	"github.com/yungbote/majoradvisor-backend/internal/domain/user"
)

type (
	User    = user.User
	Student = user.Student

	Role      = auth.Role
	Principal = auth.Principal

	Major           = academic.Major
	University      = academic.University
	UniversityMajor = academic.UniversityMajor
	AcademicRecord  = academic.Record

	Question         = survey.Question
	Answer           = survey.Answer
	AnsweredQuestion = survey.AnsweredQuestion

	Recommendation     = recommendation.Recommendation
	RecommendationView = recommendation.View

	AISetting = settings.AISetting
	AuditLog  = audit.AuditLog
)

const (
	RoleStudent    = auth.RoleStudent
	RoleTeacher    = auth.RoleTeacher
	RoleUniversity = auth.RoleUniversity
	RoleAdmin      = auth.RoleAdmin

	SeverityLow    = audit.SeverityLow
	SeverityMedium = audit.SeverityMedium
	SeverityHigh   = audit.SeverityHigh
)

// Models lists every table in migration order.
func Models() []any {
	return []any{
		&University{},
		&Major{},
		&UniversityMajor{},
		&User{},
		&Student{},
		&Question{},
		&Answer{},
		&Recommendation{},
		&AISetting{},
		&AuditLog{},
	}
}
