package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Student shares its primary key with the owning User row.
type Student struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	FullName  string     `gorm:"not null;column:full_name" json:"full_name"`
	Email     string     `gorm:"column:email" json:"email"`
	Age       *int       `gorm:"column:age" json:"age,omitempty"`
	Gender    *string    `gorm:"column:gender" json:"gender,omitempty"`
	TeacherID *uuid.UUID `gorm:"type:uuid;index;column:teacher_id" json:"teacher_id,omitempty"`

	AcademicData datatypes.JSON `gorm:"column:academic_data" json:"academic_data,omitempty"`
	Preferences  datatypes.JSON `gorm:"column:preferences" json:"preferences,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Student) TableName() string { return "students" }

func (s *Student) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
