package audit

import (
	"gorm.io/gorm"

	types "github.com/yungbote/majoradvisor-backend/internal/domain"
	"github.com/yungbote/majoradvisor-backend/internal/platform/dbctx"
	"github.com/yungbote/majoradvisor-backend/internal/platform/logger"
)

type AuditLogRepo interface {
	Create(dbc dbctx.Context, entry *types.AuditLog) error
	ListRecent(dbc dbctx.Context, limit int) ([]*types.AuditLog, error)
}

type auditLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAuditLogRepo(db *gorm.DB, baseLog *logger.Logger) AuditLogRepo {
	return &auditLogRepo{db: db, log: baseLog.With("repo", "AuditLogRepo")}
}

func (r *auditLogRepo) Create(dbc dbctx.Context, entry *types.AuditLog) error {
	return dbc.Conn(r.db).Create(entry).Error
}

func (r *auditLogRepo) ListRecent(dbc dbctx.Context, limit int) ([]*types.AuditLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var out []*types.AuditLog
	if err := dbc.Conn(r.db).
		Order("created_at DESC").
		Order("id").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
