package services

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/yungbote/majoradvisor-backend/internal/data/repos"
	types "github.com/yungbote/majoradvisor-backend/internal/domain"
	"github.com/yungbote/majoradvisor-backend/internal/domain/academic"
	"github.com/yungbote/majoradvisor-backend/internal/platform/dbctx"
	"github.com/yungbote/majoradvisor-backend/internal/platform/logger"
)

// GradeInput accepts the grade as a JSON number or a numeric string.
type GradeInput struct {
	Subject string          `json:"subject"`
	Name    string          `json:"name"`
	Grade   json.RawMessage `json:"grade"`
}

type GradeSheet struct {
	Courses   []academic.Record `json:"courses"`
	UpdatedAt string            `json:"updatedAt,omitempty"`
}

type GradesService interface {
	Get(ctx context.Context, actor types.Principal) (*GradeSheet, error)
	Save(ctx context.Context, actor types.Principal, grades []GradeInput) (*GradeSheet, error)
}

type gradesService struct {
	log         *logger.Logger
	studentRepo repos.StudentRepo
	now         func() time.Time
}

func NewGradesService(log *logger.Logger, studentRepo repos.StudentRepo) GradesService {
	return &gradesService{
		log:         log.With("service", "GradesService"),
		studentRepo: studentRepo,
		now:         time.Now,
	}
}

func (s *gradesService) student(ctx context.Context, actor types.Principal) (*types.Student, error) {
	if !actor.Is(types.RoleStudent) {
		return nil, forbidden("students_only", "Only students can access their grades")
	}
	st, err := s.studentRepo.GetByID(dbctx.Context{Ctx: ctx}, actor.UserID)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, notFound("student_not_found", "Student not found")
	}
	return st, nil
}

func (s *gradesService) Get(ctx context.Context, actor types.Principal) (*GradeSheet, error) {
	st, err := s.student(ctx, actor)
	if err != nil {
		return nil, err
	}
	doc := academic.Normalize(st.AcademicData)
	s.log.Debug("grades loaded", "student_id", st.ID, "count", len(doc.Courses), "schema", doc.Version.String())
	return &GradeSheet{Courses: doc.Courses, UpdatedAt: doc.UpdatedAt}, nil
}

// Save replaces the course list. Preferences already embedded in the stored
// document are carried over.
func (s *gradesService) Save(ctx context.Context, actor types.Principal, grades []GradeInput) (*GradeSheet, error) {
	if grades == nil {
		return nil, invalidArgument("missing_grades", "Grades array is required")
	}
	st, err := s.student(ctx, actor)
	if err != nil {
		return nil, err
	}

	doc := academic.Normalize(st.AcademicData)
	doc.Courses = make([]academic.Record, 0, len(grades))
	for _, g := range grades {
		subject := strings.TrimSpace(g.Subject)
		if subject == "" {
			subject = strings.TrimSpace(g.Name)
		}
		if subject == "" {
			continue
		}
		doc.Courses = append(doc.Courses, academic.Record{Subject: subject, Grade: parseGrade(g.Grade)})
	}

	now := s.now()
	raw, err := doc.Encode(now)
	if err != nil {
		return nil, err
	}
	if err := s.studentRepo.UpdateAcademicData(dbctx.Context{Ctx: ctx}, st.ID, datatypes.JSON(raw)); err != nil {
		return nil, err
	}
	return &GradeSheet{Courses: doc.Courses, UpdatedAt: now.UTC().Format(time.RFC3339)}, nil
}

// parseGrade yields 0 for anything that is not a number.
func parseGrade(raw json.RawMessage) float64 {
	text := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0
	}
	return f
}
