package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/majoradvisor-backend/internal/domain"
	"github.com/yungbote/majoradvisor-backend/internal/platform/dbctx"
	"github.com/yungbote/majoradvisor-backend/internal/platform/logger"
)

type MajorRepo interface {
	Create(dbc dbctx.Context, majors []*types.Major) ([]*types.Major, error)
	// ListOrdered returns every major sorted by name.
	ListOrdered(dbc dbctx.Context) ([]*types.Major, error)
	GetByNames(dbc dbctx.Context, names []string) ([]*types.Major, error)
	ListIDsByUniversity(dbc dbctx.Context, universityID uuid.UUID) ([]uuid.UUID, error)
}

type majorRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMajorRepo(db *gorm.DB, baseLog *logger.Logger) MajorRepo {
	return &majorRepo{db: db, log: baseLog.With("repo", "MajorRepo")}
}

func (r *majorRepo) Create(dbc dbctx.Context, majors []*types.Major) ([]*types.Major, error) {
	if len(majors) == 0 {
		return []*types.Major{}, nil
	}
	if err := dbc.Conn(r.db).Create(&majors).Error; err != nil {
		return nil, err
	}
	return majors, nil
}

func (r *majorRepo) ListOrdered(dbc dbctx.Context) ([]*types.Major, error) {
	var out []*types.Major
	if err := dbc.Conn(r.db).
		Model(&types.Major{}).
		Select("DISTINCT id, name, COALESCE(description, '') AS description, created_at, updated_at").
		Order("name").
		Order("id").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *majorRepo) GetByNames(dbc dbctx.Context, names []string) ([]*types.Major, error) {
	var out []*types.Major
	if len(names) == 0 {
		return out, nil
	}
	if err := dbc.Conn(r.db).
		Where("name IN ?", names).
		Order("name").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *majorRepo) ListIDsByUniversity(dbc dbctx.Context, universityID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if universityID == uuid.Nil {
		return ids, nil
	}
	if err := dbc.Conn(r.db).
		Model(&types.UniversityMajor{}).
		Where("university_id = ?", universityID).
		Order("major_id").
		Pluck("major_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}
