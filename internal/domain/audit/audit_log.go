package audit

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

type AuditLog struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      *uuid.UUID `gorm:"type:uuid;index;column:user_id" json:"user_id,omitempty"`
	UserName    string     `gorm:"column:user_name" json:"user_name"`
	Action      string     `gorm:"not null;column:action" json:"action"`
	Entity      string     `gorm:"not null;column:entity;index" json:"entity"`
	Description string     `gorm:"column:description" json:"description"`
	IPAddress   string     `gorm:"column:ip_address" json:"ip_address"`
	UserAgent   string     `gorm:"column:user_agent" json:"user_agent"`
	Severity    string     `gorm:"not null;column:severity" json:"severity"`
	CreatedAt   time.Time  `gorm:"not null;index" json:"created_at"`
}

func (AuditLog) TableName() string { return "audit_logs" }

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
