package db

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/yungbote/majoradvisor-backend/internal/domain"
	"github.com/yungbote/majoradvisor-backend/internal/domain/settings"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(domain.Models()...)
}

//go:embed seed/questions.yaml
var defaultQuestions []byte

//go:embed seed/catalog.yaml
var defaultCatalog []byte

// DefaultQuestions returns the built-in survey question set.
func DefaultQuestions() []byte { return defaultQuestions }

// DefaultCatalog returns the built-in majors list. It has no universities.
func DefaultCatalog() []byte { return defaultCatalog }

type questionSeed struct {
	Questions []struct {
		Text     string `yaml:"text"`
		Category string `yaml:"category"`
		Type     string `yaml:"type"`
	} `yaml:"questions"`
}

// SeedQuestions inserts questions from a YAML document, skipping any whose
// (type, text) already exists. It returns the number inserted.
func SeedQuestions(ctx context.Context, db *gorm.DB, raw []byte) (int, error) {
	var doc questionSeed
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return 0, fmt.Errorf("parse question seed: %w", err)
	}
	inserted := 0
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, q := range doc.Questions {
			text := strings.TrimSpace(q.Text)
			qType := strings.TrimSpace(q.Type)
			if text == "" || qType == "" {
				return fmt.Errorf("question %d: text and type are required", i)
			}
			var count int64
			if err := tx.Model(&domain.Question{}).
				Where("type = ? AND text = ?", qType, text).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			row := &domain.Question{Text: text, Category: strings.TrimSpace(q.Category), Type: qType}
			if err := tx.Create(row).Error; err != nil {
				return err
			}
			inserted++
		}
		return nil
	})
	return inserted, err
}

// EnsureAISettingsRow creates the empty singleton settings row if missing.
// Every column stays NULL so environment defaults apply.
func EnsureAISettingsRow(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).
		Where(settings.AISetting{ID: settings.SingletonID}).
		FirstOrCreate(&settings.AISetting{ID: settings.SingletonID}).Error
}
