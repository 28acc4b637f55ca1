package settings

import "time"

// SingletonID is the only row id the ai_settings table holds.
const SingletonID = 1

// AISetting is the persisted overlay over environment AI defaults. Nil means
// "not set"; the resolver then falls back per field.
type AISetting struct {
	ID                    int        `gorm:"primaryKey;autoIncrement:false" json:"id"`
	APIKey                *string    `gorm:"column:api_key" json:"api_key,omitempty"`
	Provider              *string    `gorm:"column:provider" json:"provider,omitempty"`
	Model                 *string    `gorm:"column:model" json:"model,omitempty"`
	Temperature           *float64   `gorm:"column:temperature" json:"temperature,omitempty"`
	MaxTokens             *int       `gorm:"column:max_tokens" json:"max_tokens,omitempty"`
	EnableAIFeatures      *bool      `gorm:"column:enable_ai_features" json:"enable_ai_features,omitempty"`
	EnableRecommendations *bool      `gorm:"column:enable_recommendations" json:"enable_recommendations,omitempty"`
	EnableAnalysis        *bool      `gorm:"column:enable_analysis" json:"enable_analysis,omitempty"`
	APIEndpoint           *string    `gorm:"column:api_endpoint" json:"api_endpoint,omitempty"`
	RequestTimeout        *float64   `gorm:"column:request_timeout" json:"request_timeout,omitempty"`
	UpdatedAt             *time.Time `gorm:"column:updated_at" json:"updated_at,omitempty"`
}

func (AISetting) TableName() string { return "ai_settings" }
