package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/majoradvisor-backend/internal/data/repos"
	types "github.com/yungbote/majoradvisor-backend/internal/domain"
	"github.com/yungbote/majoradvisor-backend/internal/platform/dbctx"
	"github.com/yungbote/majoradvisor-backend/internal/platform/logger"
)

type AnswerInput struct {
	QuestionID string `json:"questionId"`
	Answer     string `json:"answer"`
}

type CompletionStatus struct {
	Complete     bool     `json:"complete"`
	MissingTypes []string `json:"missingTypes"`
}

type SubmitResult struct {
	Saved                    int             `json:"saved"`
	AllSurveysComplete       bool            `json:"allSurveysComplete"`
	RecommendationsGenerated bool            `json:"recommendationsGenerated,omitempty"`
	Recommendations          *GenerateResult `json:"recommendations,omitempty"`
	RecommendationError      string          `json:"recommendationError,omitempty"`
}

type NewQuestionInput struct {
	Question string `json:"question"`
	Category string `json:"category"`
	Type     string `json:"type"`
}

type SurveyService interface {
	ListQuestions(ctx context.Context, filter repos.QuestionFilter) ([]*types.Question, error)
	GetQuestion(ctx context.Context, id uuid.UUID) (*types.Question, error)
	CreateQuestion(ctx context.Context, in NewQuestionInput) (*types.Question, error)
	SaveAnswer(ctx context.Context, actor types.Principal, in AnswerInput) error
	// Submit stores every usable answer. Once each question type has an
	// answer and AI is configured, recommendations are generated inline.
	Submit(ctx context.Context, actor types.Principal, answers []AnswerInput) (*SubmitResult, error)
	CompletionStatus(ctx context.Context, studentID uuid.UUID) (*CompletionStatus, error)
	MyAnswers(ctx context.Context, actor types.Principal) ([]*types.AnsweredQuestion, error)
}

type surveyService struct {
	log             *logger.Logger
	questionRepo    repos.QuestionRepo
	answerRepo      repos.AnswerRepo
	studentRepo     repos.StudentRepo
	resolver        AIConfigResolver
	recommendations RecommendationService
	audit           AuditRecorder
}

func NewSurveyService(
	log *logger.Logger,
	questionRepo repos.QuestionRepo,
	answerRepo repos.AnswerRepo,
	studentRepo repos.StudentRepo,
	resolver AIConfigResolver,
	recommendations RecommendationService,
	audit AuditRecorder,
) SurveyService {
	return &surveyService{
		log:             log.With("service", "SurveyService"),
		questionRepo:    questionRepo,
		answerRepo:      answerRepo,
		studentRepo:     studentRepo,
		resolver:        resolver,
		recommendations: recommendations,
		audit:           audit,
	}
}

func (s *surveyService) ListQuestions(ctx context.Context, filter repos.QuestionFilter) ([]*types.Question, error) {
	out, err := s.questionRepo.List(dbctx.Context{Ctx: ctx}, filter)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []*types.Question{}
	}
	return out, nil
}

func (s *surveyService) GetQuestion(ctx context.Context, id uuid.UUID) (*types.Question, error) {
	q, err := s.questionRepo.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, notFound("question_not_found", "Question not found")
	}
	return q, nil
}

func (s *surveyService) CreateQuestion(ctx context.Context, in NewQuestionInput) (*types.Question, error) {
	text := strings.TrimSpace(in.Question)
	qType := strings.TrimSpace(in.Type)
	if text == "" || qType == "" {
		return nil, invalidArgument("missing_fields", "Question text and type are required")
	}
	created, err := s.questionRepo.Create(dbctx.Context{Ctx: ctx}, []*types.Question{{
		Text:     text,
		Category: strings.TrimSpace(in.Category),
		Type:     qType,
	}})
	if err != nil {
		return nil, err
	}
	s.audit.Record(AuditEntryFromContext(ctx, "create", "question",
		fmt.Sprintf("Created question (type: %s)", qType), types.SeverityMedium))
	return created[0], nil
}

// studentFor resolves the caller's student row; only students have answers.
func (s *surveyService) studentFor(ctx context.Context, actor types.Principal) (*types.Student, error) {
	if !actor.Is(types.RoleStudent) {
		return nil, forbidden("students_only", "Only students can answer surveys")
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

func (s *surveyService) SaveAnswer(ctx context.Context, actor types.Principal, in AnswerInput) error {
	st, err := s.studentFor(ctx, actor)
	if err != nil {
		return err
	}
	qid, err := uuid.Parse(strings.TrimSpace(in.QuestionID))
	if err != nil || strings.TrimSpace(in.Answer) == "" {
		return invalidArgument("missing_fields", "Question ID and answer are required")
	}
	if _, err := s.GetQuestion(ctx, qid); err != nil {
		return err
	}
	return s.answerRepo.Upsert(dbctx.Context{Ctx: ctx}, []*types.Answer{{
		StudentID:  st.ID,
		QuestionID: qid,
		Answer:     in.Answer,
	}})
}

func (s *surveyService) Submit(ctx context.Context, actor types.Principal, answers []AnswerInput) (*SubmitResult, error) {
	if answers == nil {
		return nil, invalidArgument("missing_answers", "Answers array is required")
	}
	st, err := s.studentFor(ctx, actor)
	if err != nil {
		return nil, err
	}

	dbc := dbctx.Context{Ctx: ctx}
	rows := make([]*types.Answer, 0, len(answers))
	seen := make(map[uuid.UUID]int, len(answers))
	for _, a := range answers {
		qid, err := uuid.Parse(strings.TrimSpace(a.QuestionID))
		if err != nil || strings.TrimSpace(a.Answer) == "" {
			continue
		}
		q, err := s.questionRepo.GetByID(dbc, qid)
		if err != nil {
			return nil, err
		}
		if q == nil {
			s.log.Debug("survey answer for unknown question skipped", "question_id", qid)
			continue
		}
		if i, ok := seen[qid]; ok {
			rows[i].Answer = a.Answer
			continue
		}
		seen[qid] = len(rows)
		rows = append(rows, &types.Answer{StudentID: st.ID, QuestionID: qid, Answer: a.Answer})
	}
	if err := s.answerRepo.Upsert(dbc, rows); err != nil {
		return nil, err
	}

	status, err := s.CompletionStatus(ctx, st.ID)
	if err != nil {
		return nil, err
	}
	res := &SubmitResult{Saved: len(rows), AllSurveysComplete: status.Complete}
	if !status.Complete {
		return res, nil
	}

	cfg := s.resolver.Get(ctx, true)
	if s.resolver.IsConfigured(cfg) != nil {
		return res, nil
	}
	generated, err := s.recommendations.Generate(ctx, actor, GenerateInput{})
	if err != nil {
		s.log.Warn("recommendation generation after survey failed", "student_id", st.ID, "error", err)
		res.RecommendationError = err.Error()
		return res, nil
	}
	res.RecommendationsGenerated = true
	res.Recommendations = generated
	return res, nil
}

func (s *surveyService) CompletionStatus(ctx context.Context, studentID uuid.UUID) (*CompletionStatus, error) {
	dbc := dbctx.Context{Ctx: ctx}
	all, err := s.questionRepo.DistinctTypes(dbc)
	if err != nil {
		return nil, err
	}
	status := &CompletionStatus{MissingTypes: []string{}}
	if len(all) == 0 {
		return status, nil
	}
	answered, err := s.answerRepo.AnsweredTypes(dbc, studentID)
	if err != nil {
		return nil, err
	}
	have := make(map[string]struct{}, len(answered))
	for _, t := range answered {
		have[t] = struct{}{}
	}
	for _, t := range all {
		if _, ok := have[t]; !ok {
			status.MissingTypes = append(status.MissingTypes, t)
		}
	}
	status.Complete = len(status.MissingTypes) == 0
	return status, nil
}

func (s *surveyService) MyAnswers(ctx context.Context, actor types.Principal) ([]*types.AnsweredQuestion, error) {
	st, err := s.studentFor(ctx, actor)
	if err != nil {
		return nil, err
	}
	out, err := s.answerRepo.ListForStudent(dbctx.Context{Ctx: ctx}, st.ID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []*types.AnsweredQuestion{}
	}
	return out, nil
}
