package survey

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/majoradvisor-backend/internal/domain"
	"github.com/yungbote/majoradvisor-backend/internal/platform/dbctx"
	"github.com/yungbote/majoradvisor-backend/internal/platform/logger"
)

type AnswerRepo interface {
	// Upsert writes one row per (student, question), replacing the answer text.
	Upsert(dbc dbctx.Context, answers []*types.Answer) error
	ListForStudent(dbc dbctx.Context, studentID uuid.UUID) ([]*types.AnsweredQuestion, error)
	AnsweredTypes(dbc dbctx.Context, studentID uuid.UUID) ([]string, error)
}

type answerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAnswerRepo(db *gorm.DB, baseLog *logger.Logger) AnswerRepo {
	return &answerRepo{db: db, log: baseLog.With("repo", "AnswerRepo")}
}

func (r *answerRepo) Upsert(dbc dbctx.Context, answers []*types.Answer) error {
	if len(answers) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for _, a := range answers {
		a.UpdatedAt = now
	}
	return dbc.Conn(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_id"}, {Name: "question_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"answer", "updated_at"}),
		}).
		Create(&answers).Error
}

// ListForStudent joins answers with their questions, ordered by question
// type then question id.
func (r *answerRepo) ListForStudent(dbc dbctx.Context, studentID uuid.UUID) ([]*types.AnsweredQuestion, error) {
	var out []*types.AnsweredQuestion
	if err := dbc.Conn(r.db).
		Table("answers AS a").
		Select("q.id AS question_id, q.text AS question, q.type AS type, q.category AS category, a.answer AS answer").
		Joins("JOIN questions AS q ON q.id = a.question_id").
		Where("a.student_id = ?", studentID).
		Order("q.type").
		Order("q.id").
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *answerRepo) AnsweredTypes(dbc dbctx.Context, studentID uuid.UUID) ([]string, error) {
	var out []string
	if err := dbc.Conn(r.db).
		Table("answers AS a").
		Joins("JOIN questions AS q ON q.id = a.question_id").
		Where("a.student_id = ?", studentID).
		Distinct("q.type").
		Order("q.type").
		Pluck("q.type", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
