package survey

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/majoradvisor-backend/internal/domain"
	"github.com/yungbote/majoradvisor-backend/internal/platform/dbctx"
	"github.com/yungbote/majoradvisor-backend/internal/platform/logger"
)

type QuestionFilter struct {
	Type     string
	Category string
}

type QuestionRepo interface {
	Create(dbc dbctx.Context, questions []*types.Question) ([]*types.Question, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Question, error)
	List(dbc dbctx.Context, filter QuestionFilter) ([]*types.Question, error)
	DistinctTypes(dbc dbctx.Context) ([]string, error)
}

type questionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	return &questionRepo{db: db, log: baseLog.With("repo", "QuestionRepo")}
}

func (r *questionRepo) Create(dbc dbctx.Context, questions []*types.Question) ([]*types.Question, error) {
	if len(questions) == 0 {
		return []*types.Question{}, nil
	}
	if err := dbc.Conn(r.db).Create(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Question, error) {
	var q types.Question
	err := dbc.Conn(r.db).Where("id = ?", id).First(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// List filters by type and category. A type filter matches both the
// hyphen and underscore spellings ("career-goals" and "career_goals").
func (r *questionRepo) List(dbc dbctx.Context, filter QuestionFilter) ([]*types.Question, error) {
	q := dbc.Conn(r.db).Model(&types.Question{})
	if t := strings.TrimSpace(filter.Type); t != "" {
		variants := []string{t, strings.ReplaceAll(t, "-", "_"), strings.ReplaceAll(t, "_", "-")}
		q = q.Where("type IN ?", variants)
	}
	if c := strings.TrimSpace(filter.Category); c != "" {
		q = q.Where("category = ?", c)
	}
	var out []*types.Question
	if err := q.Order("category").Order("created_at").Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *questionRepo) DistinctTypes(dbc dbctx.Context) ([]string, error) {
	var out []string
	if err := dbc.Conn(r.db).
		Model(&types.Question{}).
		Distinct("type").
		Order("type").
		Pluck("type", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
