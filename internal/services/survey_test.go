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
)

func newSurveyFixture(t *testing.T, env AIConfig) (*recFixture, SurveyService) {
	t.Helper()
	f := newRecFixture(t, env)
	log := testutil.Logger(t)
	svc := NewSurveyService(
		log,
		repos.NewQuestionRepo(f.db, log),
		repos.NewAnswerRepo(f.db, log),
		repos.NewStudentRepo(f.db, log),
		NewAIConfigResolver(log, &fakeSettingsRepo{}, env, NoConfigCache{}, nil),
		f.svc,
		f.rec,
	)
	return f, svc
}

func TestSubmitPartialSurveyDoesNotGenerate(t *testing.T) {
	f, svc := newSurveyFixture(t, configuredAI())
	ctx := context.Background()
	q1 := testutil.SeedQuestion(t, ctx, f.db, "interests", "general", "What do you enjoy?")
	testutil.SeedQuestion(t, ctx, f.db, "skills", "general", "What are you good at?")
	st := testutil.SeedStudent(t, ctx, f.db, "Sara", nil, "", "")

	res, err := svc.Submit(ctx, studentPrincipal(st.ID), []AnswerInput{
		{QuestionID: q1.ID.String(), Answer: "robots"},
		{QuestionID: uuid.NewString(), Answer: "ignored"},
		{QuestionID: "not-a-uuid", Answer: "ignored"},
		{QuestionID: q1.ID.String(), Answer: " "},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Saved)
	assert.False(t, res.AllSurveysComplete)
	assert.False(t, res.RecommendationsGenerated)
	assert.Equal(t, 0, f.llm.calls)

	status, err := svc.CompletionStatus(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"skills"}, status.MissingTypes)
}

func TestSubmitCompleteSurveyGenerates(t *testing.T) {
	f, svc := newSurveyFixture(t, configuredAI())
	ctx := context.Background()
	testutil.SeedMajor(t, ctx, f.db, "Engineering")
	q1 := testutil.SeedQuestion(t, ctx, f.db, "interests", "general", "What do you enjoy?")
	q2 := testutil.SeedQuestion(t, ctx, f.db, "skills", "general", "What are you good at?")
	st := testutil.SeedStudent(t, ctx, f.db, "Sara", nil, "", "")
	f.llm.content = `{"recommendations":[{"majorName":"Engineering","confidence":0.9,"reason":"builds things"}]}`

	res, err := svc.Submit(ctx, studentPrincipal(st.ID), []AnswerInput{
		{QuestionID: q1.ID.String(), Answer: "robots"},
		{QuestionID: q2.ID.String(), Answer: "math"},
	})
	require.NoError(t, err)
	assert.True(t, res.AllSurveysComplete)
	assert.True(t, res.RecommendationsGenerated)
	require.NotNil(t, res.Recommendations)
	assert.Len(t, res.Recommendations.Recommendations, 1)
	assert.Equal(t, int64(1), f.count(t, st.ID))

	// The prompt carries the answers just saved.
	assert.Contains(t, f.llm.last.Messages[2].Content, "robots")
}

func TestSubmitGenerationFailureIsReported(t *testing.T) {
	f, svc := newSurveyFixture(t, configuredAI())
	ctx := context.Background()
	testutil.SeedMajor(t, ctx, f.db, "Engineering")
	q := testutil.SeedQuestion(t, ctx, f.db, "interests", "general", "What do you enjoy?")
	st := testutil.SeedStudent(t, ctx, f.db, "Sara", nil, "", "")
	f.llm.content = `not json`

	res, err := svc.Submit(ctx, studentPrincipal(st.ID), []AnswerInput{{QuestionID: q.ID.String(), Answer: "robots"}})
	require.NoError(t, err)
	assert.True(t, res.AllSurveysComplete)
	assert.False(t, res.RecommendationsGenerated)
	assert.NotEmpty(t, res.RecommendationError)
}

func TestSubmitWithoutAIConfigOnlySaves(t *testing.T) {
	env := configuredAI()
	env.APIKey = ""
	f, svc := newSurveyFixture(t, env)
	ctx := context.Background()
	q := testutil.SeedQuestion(t, ctx, f.db, "interests", "general", "What do you enjoy?")
	st := testutil.SeedStudent(t, ctx, f.db, "Sara", nil, "", "")

	res, err := svc.Submit(ctx, studentPrincipal(st.ID), []AnswerInput{{QuestionID: q.ID.String(), Answer: "robots"}})
	require.NoError(t, err)
	assert.True(t, res.AllSurveysComplete)
	assert.False(t, res.RecommendationsGenerated)
	assert.Empty(t, res.RecommendationError)
	assert.Equal(t, 0, f.llm.calls)
}

func TestSubmitRejectsNonStudentsAndMissingAnswers(t *testing.T) {
	_, svc := newSurveyFixture(t, configuredAI())
	ctx := context.Background()

	_, err := svc.Submit(ctx, studentPrincipal(uuid.New()), nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	teacher := types.Principal{UserID: uuid.New(), Role: types.RoleTeacher}
	_, err = svc.Submit(ctx, teacher, []AnswerInput{})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Submit(ctx, studentPrincipal(uuid.New()), []AnswerInput{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveAnswerOverwritesAndMyAnswers(t *testing.T) {
	f, svc := newSurveyFixture(t, configuredAI())
	ctx := context.Background()
	q := testutil.SeedQuestion(t, ctx, f.db, "interests", "general", "What do you enjoy?")
	st := testutil.SeedStudent(t, ctx, f.db, "Sara", nil, "", "")
	p := studentPrincipal(st.ID)

	require.NoError(t, svc.SaveAnswer(ctx, p, AnswerInput{QuestionID: q.ID.String(), Answer: "first"}))
	require.NoError(t, svc.SaveAnswer(ctx, p, AnswerInput{QuestionID: q.ID.String(), Answer: "second"}))

	err := svc.SaveAnswer(ctx, p, AnswerInput{QuestionID: uuid.NewString(), Answer: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
	err = svc.SaveAnswer(ctx, p, AnswerInput{QuestionID: q.ID.String(), Answer: ""})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	got, err := svc.MyAnswers(ctx, p)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "second", got[0].Answer)
	assert.Equal(t, "What do you enjoy?", got[0].Question)
}

func TestQuestionCatalog(t *testing.T) {
	_, svc := newSurveyFixture(t, configuredAI())
	ctx := context.Background()

	empty, err := svc.ListQuestions(ctx, repos.QuestionFilter{})
	require.NoError(t, err)
	assert.NotNil(t, empty)

	created, err := svc.CreateQuestion(ctx, NewQuestionInput{Question: " Favourite subject? ", Type: "interests"})
	require.NoError(t, err)
	assert.Equal(t, "Favourite subject?", created.Text)

	_, err = svc.CreateQuestion(ctx, NewQuestionInput{Question: "no type"})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	got, err := svc.GetQuestion(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.GetQuestion(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	listed, err := svc.ListQuestions(ctx, repos.QuestionFilter{Type: "interests"})
	require.NoError(t, err)
	assert.Len(t, listed, 1)

	status, err := svc.CompletionStatus(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, status.Complete)
}
