package catalog

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/majoradvisor-backend/internal/domain"
	"github.com/yungbote/majoradvisor-backend/internal/platform/dbctx"
	"github.com/yungbote/majoradvisor-backend/internal/platform/logger"
)

type UniversityRepo interface {
	Create(dbc dbctx.Context, universities []*types.University) ([]*types.University, error)
	// GetByName returns the oldest university with the name, or nil.
	GetByName(dbc dbctx.Context, name string) (*types.University, error)
	// OfferMajors links majors to a university; existing links are kept.
	OfferMajors(dbc dbctx.Context, universityID uuid.UUID, majorIDs []uuid.UUID) error
}

type universityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUniversityRepo(db *gorm.DB, baseLog *logger.Logger) UniversityRepo {
	return &universityRepo{db: db, log: baseLog.With("repo", "UniversityRepo")}
}

func (r *universityRepo) Create(dbc dbctx.Context, universities []*types.University) ([]*types.University, error) {
	if len(universities) == 0 {
		return []*types.University{}, nil
	}
	if err := dbc.Conn(r.db).Create(&universities).Error; err != nil {
		return nil, err
	}
	return universities, nil
}

func (r *universityRepo) GetByName(dbc dbctx.Context, name string) (*types.University, error) {
	var u types.University
	err := dbc.Conn(r.db).
		Where("name = ?", name).
		Order("created_at").
		Order("id").
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *universityRepo) OfferMajors(dbc dbctx.Context, universityID uuid.UUID, majorIDs []uuid.UUID) error {
	if len(majorIDs) == 0 {
		return nil
	}
	links := make([]*types.UniversityMajor, 0, len(majorIDs))
	for _, id := range majorIDs {
		links = append(links, &types.UniversityMajor{UniversityID: universityID, MajorID: id})
	}
	return dbc.Conn(r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error
}
