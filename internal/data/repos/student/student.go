package student

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/majoradvisor-backend/internal/domain"
	"github.com/yungbote/majoradvisor-backend/internal/platform/dbctx"
	"github.com/yungbote/majoradvisor-backend/internal/platform/logger"
)

type StudentRepo interface {
	Create(dbc dbctx.Context, students []*types.Student) ([]*types.Student, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Student, error)
	ListIDsByTeacher(dbc dbctx.Context, teacherID uuid.UUID) ([]uuid.UUID, error)
	UpdateAcademicData(dbc dbctx.Context, id uuid.UUID, data datatypes.JSON) error
}

type studentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudentRepo(db *gorm.DB, baseLog *logger.Logger) StudentRepo {
	return &studentRepo{db: db, log: baseLog.With("repo", "StudentRepo")}
}

func (r *studentRepo) Create(dbc dbctx.Context, students []*types.Student) ([]*types.Student, error) {
	if len(students) == 0 {
		return []*types.Student{}, nil
	}
	if err := dbc.Conn(r.db).Create(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}

// GetByID returns nil, nil when the student does not exist.
func (r *studentRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Student, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var s types.Student
	err := dbc.Conn(r.db).Where("id = ?", id).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *studentRepo) ListIDsByTeacher(dbc dbctx.Context, teacherID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if teacherID == uuid.Nil {
		return ids, nil
	}
	if err := dbc.Conn(r.db).
		Model(&types.Student{}).
		Where("teacher_id = ?", teacherID).
		Order("id").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *studentRepo) UpdateAcademicData(dbc dbctx.Context, id uuid.UUID, data datatypes.JSON) error {
	res := dbc.Conn(r.db).
		Model(&types.Student{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"academic_data": data,
			"updated_at":    time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
