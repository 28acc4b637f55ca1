package academic

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Major struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"not null;uniqueIndex;column:name" json:"name"`
	Description string    `gorm:"column:description" json:"description"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (Major) TableName() string { return "majors" }

func (m *Major) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type University struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null;column:name" json:"name"`
	Location  string    `gorm:"column:location" json:"location,omitempty"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (University) TableName() string { return "universities" }

func (u *University) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// UniversityMajor records that a university offers a major.
type UniversityMajor struct {
	UniversityID uuid.UUID   `gorm:"type:uuid;primaryKey" json:"university_id"`
	University   *University `gorm:"constraint:OnDelete:CASCADE;foreignKey:UniversityID;references:ID" json:"university,omitempty"`
	MajorID      uuid.UUID   `gorm:"type:uuid;primaryKey;index" json:"major_id"`
	Major        *Major      `gorm:"constraint:OnDelete:CASCADE;foreignKey:MajorID;references:ID" json:"major,omitempty"`
	CreatedAt    time.Time   `gorm:"not null" json:"created_at"`
}

func (UniversityMajor) TableName() string { return "university_majors" }
