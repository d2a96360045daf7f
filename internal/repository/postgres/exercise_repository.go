package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"fitness-tracker/internal/domain/exercise"
	repo "fitness-tracker/internal/repository/interfaces"
)

// pgExercise - ORM-модель таблицы exercises.
type pgExercise struct {
	ID                string    `gorm:"column:id;type:uuid;primaryKey"`
	Name              string    `gorm:"column:name;type:varchar(100);not null"`
	Description       string    `gorm:"column:description;type:varchar(500);not null"`
	TargetMuscleGroup string    `gorm:"column:target_muscle_group;type:varchar(100);not null"`
	CreatedAt         time.Time `gorm:"column:created_at;type:timestamptz;not null"`
}

func (pgExercise) TableName() string {
	return "exercises"
}

func (m *pgExercise) toDomain() (*exercise.Exercise, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, err
	}
	return &exercise.Exercise{
		ID:                id,
		Name:              m.Name,
		Description:       m.Description,
		TargetMuscleGroup: m.TargetMuscleGroup,
		CreatedAt:         m.CreatedAt,
	}, nil
}

func exerciseFromDomain(e *exercise.Exercise) *pgExercise {
	return &pgExercise{
		ID:                e.ID.String(),
		Name:              e.Name,
		Description:       e.Description,
		TargetMuscleGroup: e.TargetMuscleGroup,
		CreatedAt:         e.CreatedAt,
	}
}

func exercisesToDomain(models []pgExercise) ([]*exercise.Exercise, error) {
	out := make([]*exercise.Exercise, 0, len(models))
	for i := range models {
		e, err := models[i].toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// ExerciseRepository реализует repo.ExerciseRepository поверх GORM.
type ExerciseRepository struct {
	db *gorm.DB
}

var _ repo.ExerciseRepository = (*ExerciseRepository)(nil)

// NewExerciseRepository создает репозиторий упражнений.
func NewExerciseRepository(db *gorm.DB) *ExerciseRepository {
	return &ExerciseRepository{db: db}
}

func (r *ExerciseRepository) Create(ctx context.Context, e *exercise.Exercise) error {
	return r.db.WithContext(ctx).Create(exerciseFromDomain(e)).Error
}

func (r *ExerciseRepository) GetByID(ctx context.Context, id uuid.UUID) (*exercise.Exercise, error) {
	var model pgExercise
	err := r.db.WithContext(ctx).Where("id = ?", id.String()).Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return model.toDomain()
}

func (r *ExerciseRepository) List(ctx context.Context) ([]*exercise.Exercise, error) {
	var models []pgExercise
	if err := r.db.WithContext(ctx).Order("name").Find(&models).Error; err != nil {
		return nil, err
	}
	return exercisesToDomain(models)
}

func (r *ExerciseRepository) Update(ctx context.Context, e *exercise.Exercise) error {
	result := r.db.WithContext(ctx).
		Model(&pgExercise{}).
		Where("id = ?", e.ID.String()).
		Updates(map[string]interface{}{
			"name":                e.Name,
			"description":         e.Description,
			"target_muscle_group": e.TargetMuscleGroup,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// Delete удаляет упражнение вместе со всеми его назначениями.
func (r *ExerciseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exerciseID := id.String()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("exercise_id = ?", exerciseID).Delete(&pgAssignment{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", exerciseID).Delete(&pgExercise{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return repo.ErrNotFound
		}
		return nil
	})
}
