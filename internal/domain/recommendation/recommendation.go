package recommendation

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Recommendation is one matched (student, major) pair from one generation event.
// ConfidenceScore is always in [0,1].
type Recommendation struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID          uuid.UUID `gorm:"type:uuid;not null;index" json:"student_id"`
	MajorID            uuid.UUID `gorm:"type:uuid;not null;index" json:"major_id"`
	GeneratedAt        time.Time `gorm:"not null;index" json:"generated_at"`
	RecommendationText string    `gorm:"column:recommendation_text" json:"recommendation_text"`
	ConfidenceScore    float64   `gorm:"not null;column:confidence_score" json:"confidence_score"`
	Feedback           *string   `gorm:"column:feedback" json:"feedback,omitempty"`
	BiasDetected       bool      `gorm:"not null;default:false;column:bias_detected" json:"bias_detected"`
	ModelVersion       string    `gorm:"column:model_version" json:"model_version"`
}

func (Recommendation) TableName() string { return "recommendations" }

func (r *Recommendation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// View is a recommendation joined with its major and student for listing.
type View struct {
	ID                 uuid.UUID `json:"id"`
	StudentID          uuid.UUID `json:"studentId"`
	StudentName        string    `json:"studentName,omitempty"`
	MajorID            uuid.UUID `json:"majorId"`
	MajorName          string    `json:"majorName"`
	MajorDescription   string    `json:"majorDescription"`
	GeneratedAt        time.Time `json:"generatedAt"`
	RecommendationText string    `json:"recommendationText"`
	ConfidenceScore    float64   `json:"confidenceScore"`
	Feedback           *string   `json:"feedback"`
	BiasDetected       bool      `json:"biasDetected"`
	ModelVersion       string    `json:"modelVersion"`
}
