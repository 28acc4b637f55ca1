package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/yungbote/majoradvisor-backend/internal/data/repos"
	types "github.com/yungbote/majoradvisor-backend/internal/domain"
	"github.com/yungbote/majoradvisor-backend/internal/domain/academic"
	"github.com/yungbote/majoradvisor-backend/internal/platform/dbctx"
	"github.com/yungbote/majoradvisor-backend/internal/platform/logger"
)

type SurveyAnswer = types.AnsweredQuestion

// StudentContext is everything the model is told about one student.
type StudentContext struct {
	StudentID         uuid.UUID         `json:"id"`
	Name              string            `json:"name"`
	Age               *int              `json:"age"`
	Gender            *string           `json:"gender"`
	AcademicRecords   []academic.Record `json:"academicRecords"`
	Preferences       map[string]any    `json:"preferences"`
	AdditionalContext any               `json:"additionalContext"`
	SurveyAnswers     []SurveyAnswer    `json:"-"`
}

type ProfileService interface {
	LoadStudentContext(ctx context.Context, studentID uuid.UUID) (*StudentContext, error)
}

type profileService struct {
	log         *logger.Logger
	studentRepo repos.StudentRepo
	answerRepo  repos.AnswerRepo
}

func NewProfileService(log *logger.Logger, studentRepo repos.StudentRepo, answerRepo repos.AnswerRepo) ProfileService {
	return &profileService{
		log:         log.With("service", "ProfileService"),
		studentRepo: studentRepo,
		answerRepo:  answerRepo,
	}
}

func (s *profileService) LoadStudentContext(ctx context.Context, studentID uuid.UUID) (*StudentContext, error) {
	dbc := dbctx.Context{Ctx: ctx}
	st, err := s.studentRepo.GetByID(dbc, studentID)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, notFound("student_not_found", "Student not found")
	}

	doc := academic.Normalize(st.AcademicData)
	answers, err := s.answerRepo.ListForStudent(dbc, st.ID)
	if err != nil {
		return nil, err
	}
	surveyAnswers := make([]SurveyAnswer, 0, len(answers))
	for _, a := range answers {
		if a != nil {
			surveyAnswers = append(surveyAnswers, *a)
		}
	}

	return &StudentContext{
		StudentID:       st.ID,
		Name:            st.FullName,
		Age:             st.Age,
		Gender:          st.Gender,
		AcademicRecords: doc.Courses,
		Preferences:     mergePreferences(doc.Preferences, st.Preferences),
		SurveyAnswers:   surveyAnswers,
	}, nil
}

// mergePreferences lays the preferences column over the ones embedded in
// academic data. A column that is not a JSON object is ignored.
func mergePreferences(embedded map[string]any, column []byte) map[string]any {
	out := make(map[string]any, len(embedded))
	for k, v := range embedded {
		out[k] = v
	}
	if len(column) == 0 {
		return out
	}
	var overlay map[string]any
	if err := json.Unmarshal(column, &overlay); err != nil {
		return out
	}
	for k, v := range overlay {
		out[k] = v
	}
	return out
}
