package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/majoradvisor-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string, role types.Role) *types.User {
	tb.Helper()
	u := &types.User{
		ID:       uuid.New(),
		Email:    email,
		Password: "pw",
		FullName: "User " + email,
		Role:     role.String(),
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedStudent(tb testing.TB, ctx context.Context, tx *gorm.DB, name string, teacherID *uuid.UUID, academic, prefs string) *types.Student {
	tb.Helper()
	s := &types.Student{
		ID:        uuid.New(),
		FullName:  name,
		TeacherID: teacherID,
	}
	if academic != "" {
		s.AcademicData = datatypes.JSON([]byte(academic))
	}
	if prefs != "" {
		s.Preferences = datatypes.JSON([]byte(prefs))
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed student: %v", err)
	}
	return s
}

func SeedMajor(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Major {
	tb.Helper()
	m := &types.Major{ID: uuid.New(), Name: name, Description: name + " description"}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed major: %v", err)
	}
	return m
}

func SeedUniversity(tb testing.TB, ctx context.Context, tx *gorm.DB, name string, majors ...*types.Major) *types.University {
	tb.Helper()
	u := &types.University{ID: uuid.New(), Name: name}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed university: %v", err)
	}
	for _, m := range majors {
		link := &types.UniversityMajor{UniversityID: u.ID, MajorID: m.ID}
		if err := tx.WithContext(ctx).Create(link).Error; err != nil {
			tb.Fatalf("seed university major: %v", err)
		}
	}
	return u
}

func SeedQuestion(tb testing.TB, ctx context.Context, tx *gorm.DB, qType, category, text string) *types.Question {
	tb.Helper()
	q := &types.Question{ID: uuid.New(), Type: qType, Category: category, Text: text}
	if err := tx.WithContext(ctx).Create(q).Error; err != nil {
		tb.Fatalf("seed question: %v", err)
	}
	return q
}

func SeedRecommendation(tb testing.TB, ctx context.Context, tx *gorm.DB, studentID, majorID uuid.UUID, at time.Time) *types.Recommendation {
	tb.Helper()
	r := &types.Recommendation{
		ID:                 uuid.New(),
		StudentID:          studentID,
		MajorID:            majorID,
		GeneratedAt:        at,
		RecommendationText: "because",
		ConfidenceScore:    0.5,
		ModelVersion:       "deepseek:deepseek-chat",
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed recommendation: %v", err)
	}
	return r
}
