package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/majoradvisor-backend/internal/data/repos"
	types "github.com/yungbote/majoradvisor-backend/internal/domain"
	"github.com/yungbote/majoradvisor-backend/internal/domain/auth"
	"github.com/yungbote/majoradvisor-backend/internal/observability"
	"github.com/yungbote/majoradvisor-backend/internal/platform/dbctx"
	"github.com/yungbote/majoradvisor-backend/internal/platform/logger"
)

const adminRecommendationLimit = 100

type GenerateInput struct {
	StudentID         *uuid.UUID
	AdditionalContext any
}

type GeneratedRecommendation struct {
	ID           uuid.UUID `json:"id"`
	StudentID    uuid.UUID `json:"studentId"`
	MajorID      uuid.UUID `json:"majorId"`
	MajorName    string    `json:"majorName"`
	Confidence   float64   `json:"confidence"`
	Reasoning    string    `json:"reasoning"`
	ModelVersion string    `json:"modelVersion"`
}

type GenerateResult struct {
	Recommendations []GeneratedRecommendation `json:"recommendations"`
	AnalysisSummary *string                   `json:"analysisSummary"`
}

type RecommendationService interface {
	Generate(ctx context.Context, actor types.Principal, in GenerateInput) (*GenerateResult, error)
	// List returns the recommendations the actor may see, newest first.
	List(ctx context.Context, actor types.Principal) ([]*types.RecommendationView, error)
}

type recommendationService struct {
	log         *logger.Logger
	resolver    AIConfigResolver
	profiles    ProfileService
	catalog     CatalogService
	model       RecommendationModel
	recRepo     repos.RecommendationRepo
	studentRepo repos.StudentRepo
	majorRepo   repos.MajorRepo
	userRepo    repos.UserRepo
	audit       AuditRecorder
	now         func() time.Time
}

func NewRecommendationService(
	log *logger.Logger,
	resolver AIConfigResolver,
	profiles ProfileService,
	catalog CatalogService,
	model RecommendationModel,
	recRepo repos.RecommendationRepo,
	studentRepo repos.StudentRepo,
	majorRepo repos.MajorRepo,
	userRepo repos.UserRepo,
	audit AuditRecorder,
) RecommendationService {
	return &recommendationService{
		log:         log.With("service", "RecommendationService"),
		resolver:    resolver,
		profiles:    profiles,
		catalog:     catalog,
		model:       model,
		recRepo:     recRepo,
		studentRepo: studentRepo,
		majorRepo:   majorRepo,
		userRepo:    userRepo,
		audit:       audit,
		now:         time.Now,
	}
}

func (s *recommendationService) Generate(ctx context.Context, actor types.Principal, in GenerateInput) (res *GenerateResult, err error) {
	ctx, span := observability.Tracer().Start(ctx, "recommendation.generate")
	defer func() {
		outcome := generateOutcome(err)
		observability.Current().IncRecommendationOutcome(outcome)
		span.SetAttributes(attribute.String("recommendation.outcome", outcome))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
		}
		span.End()
	}()

	cfg := s.resolver.Get(ctx, true)
	if err := s.resolver.IsConfigured(cfg); err != nil {
		return nil, err
	}

	target := actor.UserID
	if in.StudentID != nil && *in.StudentID != uuid.Nil {
		target = *in.StudentID
	}
	if actor.Is(auth.RoleStudent) && target != actor.UserID {
		return nil, forbidden("forbidden", "Students can only generate recommendations for their own profile")
	}
	span.SetAttributes(attribute.String("recommendation.student_id", target.String()))

	var (
		profile    *StudentContext
		catalog    []CatalogEntry
		profileErr error
		catalogErr error
	)
	var g errgroup.Group
	g.Go(func() error {
		profile, profileErr = s.profiles.LoadStudentContext(ctx, target)
		return profileErr
	})
	g.Go(func() error {
		catalog, catalogErr = s.catalog.LoadCatalog(ctx)
		return catalogErr
	})
	_ = g.Wait()
	if profileErr != nil {
		return nil, profileErr
	}
	if catalogErr != nil {
		return nil, catalogErr
	}
	profile.AdditionalContext = in.AdditionalContext

	out, err := s.model.Infer(ctx, cfg, PromptPayload{
		Student:         profile,
		SurveyAnswers:   profile.SurveyAnswers,
		AvailableMajors: catalog,
	})
	if err != nil {
		return nil, err
	}

	modelVersion := cfg.ModelVersion()
	rows, err := Reconcile(profile.StudentID, out.Recommendations, catalog, modelVersion, s.now().UTC())
	if err != nil {
		s.log.Warn("no recommendations survived reconciliation",
			"student_id", profile.StudentID, "proposed", len(out.Recommendations))
		return nil, err
	}
	created, err := s.recRepo.Create(dbctx.Context{Ctx: ctx}, rows)
	if err != nil {
		return nil, fmt.Errorf("store recommendations: %w", err)
	}
	observability.Current().AddRecommendationsStored(len(created))

	names := make(map[uuid.UUID]string, len(catalog))
	for _, c := range catalog {
		names[c.ID] = c.Name
	}
	result := &GenerateResult{
		Recommendations: make([]GeneratedRecommendation, 0, len(created)),
		AnalysisSummary: out.AnalysisSummary,
	}
	for _, r := range created {
		result.Recommendations = append(result.Recommendations, GeneratedRecommendation{
			ID:           r.ID,
			StudentID:    r.StudentID,
			MajorID:      r.MajorID,
			MajorName:    names[r.MajorID],
			Confidence:   r.ConfidenceScore,
			Reasoning:    r.RecommendationText,
			ModelVersion: r.ModelVersion,
		})
	}

	entry := AuditEntryFromContext(ctx, "create", "ai_recommendation",
		fmt.Sprintf("Generated %d recommendations for student %s", len(created), profile.Name),
		types.SeverityMedium)
	if actor.UserID != uuid.Nil {
		id := actor.UserID
		entry.UserID = &id
	}
	if actor.Name != "" {
		entry.UserName = actor.Name
	}
	s.audit.Record(entry)

	s.log.Info("recommendations generated",
		"student_id", profile.StudentID, "count", len(created), "model", modelVersion)
	return result, nil
}

func generateOutcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrConfiguration):
		return "not_configured"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidArgument):
		return "empty_catalog"
	case errors.Is(err, ErrParse):
		return "parse_error"
	case errors.Is(err, ErrUpstream):
		return "upstream_error"
	default:
		return "error"
	}
}

func (s *recommendationService) List(ctx context.Context, actor types.Principal) ([]*types.RecommendationView, error) {
	dbc := dbctx.Context{Ctx: ctx}
	views, err := auth.Dispatch(actor, auth.RoleCases[[]*types.RecommendationView]{
		Student: func(p auth.Principal) ([]*types.RecommendationView, error) {
			st, err := s.studentRepo.GetByID(dbc, p.UserID)
			if err != nil {
				return nil, err
			}
			if st == nil {
				return nil, notFound("student_not_found", "Student not found")
			}
			return s.recRepo.ListByStudentIDs(dbc, []uuid.UUID{st.ID})
		},
		Teacher: func(p auth.Principal) ([]*types.RecommendationView, error) {
			ids, err := s.studentRepo.ListIDsByTeacher(dbc, p.UserID)
			if err != nil || len(ids) == 0 {
				return nil, err
			}
			return s.recRepo.ListByStudentIDs(dbc, ids)
		},
		University: func(p auth.Principal) ([]*types.RecommendationView, error) {
			u, err := s.userRepo.GetByID(dbc, p.UserID)
			if err != nil || u == nil || u.UniversityID == nil {
				return nil, err
			}
			majorIDs, err := s.majorRepo.ListIDsByUniversity(dbc, *u.UniversityID)
			if err != nil || len(majorIDs) == 0 {
				return nil, err
			}
			return s.recRepo.ListByMajorIDs(dbc, majorIDs)
		},
		Admin: func(auth.Principal) ([]*types.RecommendationView, error) {
			return s.recRepo.ListLatest(dbc, adminRecommendationLimit)
		},
	})
	if err != nil {
		return nil, err
	}
	if views == nil {
		views = []*types.RecommendationView{}
	}
	return views, nil
}
