package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/majoradvisor-backend/internal/data/repos"
	"github.com/yungbote/majoradvisor-backend/internal/data/repos/testutil"
	types "github.com/yungbote/majoradvisor-backend/internal/domain"
	"github.com/yungbote/majoradvisor-backend/internal/domain/academic"
	"github.com/yungbote/majoradvisor-backend/internal/platform/dbctx"
)

func TestLoadStudentContextFlatAcademicData(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	log := testutil.Logger(t)

	st := testutil.SeedStudent(t, ctx, db, "Omar",
		nil,
		`{"math": 95, "science": 88, "updatedAt": "2024-01-01"}`,
		`{"city": "Jeddah"}`)
	q1 := testutil.SeedQuestion(t, ctx, db, "skills", "analysis", "Do you like puzzles?")
	q2 := testutil.SeedQuestion(t, ctx, db, "interests", "science", "Favorite subject?")

	answers := repos.NewAnswerRepo(db, log)
	require.NoError(t, answers.Upsert(dbctx.Context{Ctx: ctx}, []*types.Answer{
		{StudentID: st.ID, QuestionID: q1.ID, Answer: "yes"},
		{StudentID: st.ID, QuestionID: q2.ID, Answer: "physics"},
	}))

	svc := NewProfileService(log, repos.NewStudentRepo(db, log), answers)
	got, err := svc.LoadStudentContext(ctx, st.ID)
	require.NoError(t, err)

	assert.Equal(t, "Omar", got.Name)
	assert.Equal(t, []academic.Record{{Subject: "math", Grade: 95}, {Subject: "science", Grade: 88}}, got.AcademicRecords)
	assert.Equal(t, map[string]any{"city": "Jeddah"}, got.Preferences)
	require.Len(t, got.SurveyAnswers, 2)
	assert.Equal(t, "interests", got.SurveyAnswers[0].Type)
	assert.Equal(t, "physics", got.SurveyAnswers[0].Answer)
	assert.Equal(t, "skills", got.SurveyAnswers[1].Type)
}

func TestLoadStudentContextMergesEmbeddedPreferences(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	log := testutil.Logger(t)

	st := testutil.SeedStudent(t, ctx, db, "Lina", nil,
		`{"courses":[{"subject":"art","grade":"91"}],"preferences":{"city":"Riyadh","field":"design"}}`,
		`{"city":"Dammam"}`)

	svc := NewProfileService(log, repos.NewStudentRepo(db, log), repos.NewAnswerRepo(db, log))
	got, err := svc.LoadStudentContext(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, []academic.Record{{Subject: "art", Grade: 91}}, got.AcademicRecords)
	assert.Equal(t, map[string]any{"city": "Dammam", "field": "design"}, got.Preferences)
	assert.Empty(t, got.SurveyAnswers)
}

func TestLoadStudentContextNotFound(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	svc := NewProfileService(log, repos.NewStudentRepo(db, log), repos.NewAnswerRepo(db, log))

	_, err := svc.LoadStudentContext(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMergePreferencesIgnoresMalformedColumn(t *testing.T) {
	got := mergePreferences(map[string]any{"a": 1.0}, []byte(`[1,2`))
	assert.Equal(t, map[string]any{"a": 1.0}, got)

	got = mergePreferences(nil, []byte(`"text"`))
	assert.Equal(t, map[string]any{}, got)
}

func TestCatalogService(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	log := testutil.Logger(t)
	svc := NewCatalogService(db, log, repos.NewMajorRepo(db, log), repos.NewUniversityRepo(db, log))

	_, err := svc.LoadCatalog(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	all, err := svc.ListMajors(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	testutil.SeedMajor(t, ctx, db, "Nursing")
	testutil.SeedMajor(t, ctx, db, "Architecture")

	got, err := svc.LoadCatalog(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Architecture", got[0].Name)
	assert.Equal(t, "Architecture description", got[0].Description)
	assert.Equal(t, "Nursing", got[1].Name)
}
