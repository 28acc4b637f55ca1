package survey

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Question struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Text      string    `gorm:"not null;column:text" json:"question"`
	Category  string    `gorm:"column:category;index" json:"category"`
	Type      string    `gorm:"not null;column:type;index" json:"type"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Question) TableName() string { return "questions" }

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

// Answer is unique per (student, question); saving again overwrites the text.
type Answer struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_answer_student_question,priority:1" json:"student_id"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_answer_student_question,priority:2" json:"question_id"`
	Question   *Question `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuestionID;references:ID" json:"-"`
	Answer     string    `gorm:"not null;column:answer" json:"answer"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

func (Answer) TableName() string { return "answers" }

func (a *Answer) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// AnsweredQuestion is an answer joined with its question.
type AnsweredQuestion struct {
	QuestionID uuid.UUID `json:"questionId"`
	Question   string    `json:"question"`
	Type       string    `json:"type"`
	Category   string    `json:"category"`
	Answer     string    `json:"answer"`
}
