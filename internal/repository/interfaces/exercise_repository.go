package interfaces

import (
	"context"

	"github.com/google/uuid"

	"fitness-tracker/internal/domain/exercise"
)

// ExerciseRepository определяет контракт хранилища упражнений.
type ExerciseRepository interface {
	Create(ctx context.Context, e *exercise.Exercise) error

	// GetByID возвращает упражнение или ErrNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*exercise.Exercise, error)

	List(ctx context.Context) ([]*exercise.Exercise, error)

	// Update обновляет name/description/targetMuscleGroup. ErrNotFound, если записи нет.
	Update(ctx context.Context, e *exercise.Exercise) error

	// Delete удаляет упражнение и все его назначения. ErrNotFound, если записи нет.
	Delete(ctx context.Context, id uuid.UUID) error
}
