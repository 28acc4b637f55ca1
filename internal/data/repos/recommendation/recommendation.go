package recommendation

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/majoradvisor-backend/internal/domain"
	"github.com/yungbote/majoradvisor-backend/internal/platform/dbctx"
	"github.com/yungbote/majoradvisor-backend/internal/platform/logger"
)

type RecommendationRepo interface {
	// Create inserts every row in one transaction. Rows are never merged
	// with earlier generations.
	Create(dbc dbctx.Context, rows []*types.Recommendation) ([]*types.Recommendation, error)
	ListByStudentIDs(dbc dbctx.Context, studentIDs []uuid.UUID) ([]*types.RecommendationView, error)
	ListByMajorIDs(dbc dbctx.Context, majorIDs []uuid.UUID) ([]*types.RecommendationView, error)
	ListLatest(dbc dbctx.Context, limit int) ([]*types.RecommendationView, error)
	CountByStudent(dbc dbctx.Context, studentID uuid.UUID) (int64, error)
}

type recommendationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecommendationRepo(db *gorm.DB, baseLog *logger.Logger) RecommendationRepo {
	return &recommendationRepo{db: db, log: baseLog.With("repo", "RecommendationRepo")}
}

func (r *recommendationRepo) Create(dbc dbctx.Context, rows []*types.Recommendation) ([]*types.Recommendation, error) {
	if len(rows) == 0 {
		return []*types.Recommendation{}, nil
	}
	err := dbc.Conn(r.db).Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			if err := tx.Create(row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

const viewColumns = `r.id AS id, r.student_id AS student_id, COALESCE(s.full_name, '') AS student_name,
	r.major_id AS major_id, m.name AS major_name, COALESCE(m.description, '') AS major_description,
	r.generated_at AS generated_at, COALESCE(r.recommendation_text, '') AS recommendation_text,
	r.confidence_score AS confidence_score, r.feedback AS feedback, r.bias_detected AS bias_detected,
	COALESCE(r.model_version, '') AS model_version`

func (r *recommendationRepo) view(dbc dbctx.Context) *gorm.DB {
	return dbc.Conn(r.db).
		Table("recommendations AS r").
		Select(viewColumns).
		Joins("JOIN majors AS m ON m.id = r.major_id").
		Joins("LEFT JOIN students AS s ON s.id = r.student_id").
		Order("r.generated_at DESC").
		Order("r.id")
}

func (r *recommendationRepo) ListByStudentIDs(dbc dbctx.Context, studentIDs []uuid.UUID) ([]*types.RecommendationView, error) {
	out := []*types.RecommendationView{}
	if len(studentIDs) == 0 {
		return out, nil
	}
	if err := r.view(dbc).Where("r.student_id IN ?", studentIDs).Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *recommendationRepo) ListByMajorIDs(dbc dbctx.Context, majorIDs []uuid.UUID) ([]*types.RecommendationView, error) {
	out := []*types.RecommendationView{}
	if len(majorIDs) == 0 {
		return out, nil
	}
	if err := r.view(dbc).Where("r.major_id IN ?", majorIDs).Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *recommendationRepo) ListLatest(dbc dbctx.Context, limit int) ([]*types.RecommendationView, error) {
	if limit <= 0 {
		limit = 100
	}
	out := []*types.RecommendationView{}
	if err := r.view(dbc).Limit(limit).Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *recommendationRepo) CountByStudent(dbc dbctx.Context, studentID uuid.UUID) (int64, error) {
	var n int64
	err := dbc.Conn(r.db).Model(&types.Recommendation{}).Where("student_id = ?", studentID).Count(&n).Error
	return n, err
}
