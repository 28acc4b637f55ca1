package settings

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/majoradvisor-backend/internal/domain"
	"github.com/yungbote/majoradvisor-backend/internal/domain/settings"
	"github.com/yungbote/majoradvisor-backend/internal/platform/dbctx"
	"github.com/yungbote/majoradvisor-backend/internal/platform/logger"
)

type AISettingRepo interface {
	// Get returns the singleton row, or nil, nil when it does not exist.
	Get(dbc dbctx.Context) (*types.AISetting, error)
	// Upsert replaces the singleton row with row's columns.
	Upsert(dbc dbctx.Context, row *types.AISetting) error
}

type aiSettingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAISettingRepo(db *gorm.DB, baseLog *logger.Logger) AISettingRepo {
	return &aiSettingRepo{db: db, log: baseLog.With("repo", "AISettingRepo")}
}

func (r *aiSettingRepo) Get(dbc dbctx.Context) (*types.AISetting, error) {
	var row types.AISetting
	err := dbc.Conn(r.db).Where("id = ?", settings.SingletonID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *aiSettingRepo) Upsert(dbc dbctx.Context, row *types.AISetting) error {
	row.ID = settings.SingletonID
	now := time.Now().UTC()
	row.UpdatedAt = &now
	return dbc.Conn(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(row).Error
}
