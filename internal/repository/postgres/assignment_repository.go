package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fitness-tracker/internal/domain/assignment"
	"fitness-tracker/internal/domain/exercise"
	domain "fitness-tracker/internal/domain/user"
	repo "fitness-tracker/internal/repository/interfaces"
)

// pgAssignment - ORM-модель таблицы user_exercises (связь многие-ко-многим
// с данными на самой связи).
type pgAssignment struct {
	UserID       string    `gorm:"column:user_id;type:uuid;primaryKey"`
	ExerciseID   string    `gorm:"column:exercise_id;type:uuid;primaryKey"`
	DateAssigned time.Time `gorm:"column:date_assigned;type:timestamptz;not null"`
	TargetSets   *int      `gorm:"column:target_sets"`
	TargetReps   *int      `gorm:"column:target_reps"`
	Notes        *string   `gorm:"column:notes;type:varchar(500)"`
}

func (pgAssignment) TableName() string {
	return "user_exercises"
}

func (m *pgAssignment) toDomain() (*assignment.Assignment, error) {
	userID, err := uuid.Parse(m.UserID)
	if err != nil {
		return nil, err
	}
	exerciseID, err := uuid.Parse(m.ExerciseID)
	if err != nil {
		return nil, err
	}
	return &assignment.Assignment{
		UserID:       userID,
		ExerciseID:   exerciseID,
		DateAssigned: m.DateAssigned,
		TargetSets:   m.TargetSets,
		TargetReps:   m.TargetReps,
		Notes:        m.Notes,
	}, nil
}

// AssignmentRepository реализует repo.AssignmentRepository поверх GORM.
type AssignmentRepository struct {
	db *gorm.DB
}

var _ repo.AssignmentRepository = (*AssignmentRepository)(nil)

// NewAssignmentRepository создает репозиторий назначений.
func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Upsert выполняет INSERT ... ON CONFLICT (user_id, exercise_id) DO UPDATE.
// Все поля назначения перезаписываются, включая NULL.
// Существование родителей проверяется в той же транзакции; если родителя
// удалили между проверкой и вставкой, FK-ошибка тоже превращается в ErrNotFound.
func (r *AssignmentRepository) Upsert(ctx context.Context, a *assignment.Assignment) error {
	model := &pgAssignment{
		UserID:       a.UserID.String(),
		ExerciseID:   a.ExerciseID.String(),
		DateAssigned: a.DateAssigned,
		TargetSets:   a.TargetSets,
		TargetReps:   a.TargetReps,
		Notes:        a.Notes,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := exists(tx, &pgUser{}, model.UserID); err != nil {
			return err
		}
		if err := exists(tx, &pgExercise{}, model.ExerciseID); err != nil {
			return err
		}

		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "exercise_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"target_sets", "target_reps", "notes", "date_assigned",
			}),
		}).Create(model).Error
	})

	if isForeignKeyViolation(err) {
		return repo.ErrNotFound
	}
	return err
}

// exists проверяет наличие строки с данным id, ErrNotFound если её нет.
func exists(tx *gorm.DB, model interface{}, id string) error {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *AssignmentRepository) Get(ctx context.Context, userID, exerciseID uuid.UUID) (*assignment.Assignment, error) {
	var model pgAssignment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND exercise_id = ?", userID.String(), exerciseID.String()).
		Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return model.toDomain()
}

func (r *AssignmentRepository) Delete(ctx context.Context, userID, exerciseID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND exercise_id = ?", userID.String(), exerciseID.String()).
		Delete(&pgAssignment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *AssignmentRepository) ListExercisesByUser(ctx context.Context, userID uuid.UUID) ([]*exercise.Exercise, error) {
	var models []pgExercise
	err := r.db.WithContext(ctx).
		Table("exercises AS e").
		Select("e.*").
		Joins("JOIN user_exercises ue ON ue.exercise_id = e.id").
		Where("ue.user_id = ?", userID.String()).
		Order("ue.date_assigned DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return exercisesToDomain(models)
}

func (r *AssignmentRepository) ListUsersByExercise(ctx context.Context, exerciseID uuid.UUID) ([]*domain.User, error) {
	var models []pgUser
	err := r.db.WithContext(ctx).
		Table("users AS u").
		Select("u.*").
		Joins("JOIN user_exercises ue ON ue.user_id = u.id").
		Where("ue.exercise_id = ?", exerciseID.String()).
		Order("ue.date_assigned DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	users := NewUserRepository(r.db)
	return users.withRoles(ctx, models)
}
