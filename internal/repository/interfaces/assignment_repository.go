package interfaces

import (
	"context"

	"github.com/google/uuid"

	"fitness-tracker/internal/domain/assignment"
	"fitness-tracker/internal/domain/exercise"
	domain "fitness-tracker/internal/domain/user"
)

// AssignmentRepository определяет контракт хранилища назначений упражнений пользователям.
type AssignmentRepository interface {
	// Upsert вставляет назначение или полностью перезаписывает существующее
	// (target_sets, target_reps, notes, date_assigned) одной атомарной операцией.
	// Возвращает ErrNotFound, если пользователь или упражнение не существуют;
	// в этом случае ничего не записывается.
	Upsert(ctx context.Context, a *assignment.Assignment) error

	// Get возвращает назначение по паре ключей или ErrNotFound.
	Get(ctx context.Context, userID, exerciseID uuid.UUID) (*assignment.Assignment, error)

	// Delete удаляет ровно одно назначение. ErrNotFound, если его нет.
	Delete(ctx context.Context, userID, exerciseID uuid.UUID) error

	// ListExercisesByUser возвращает упражнения, назначенные пользователю.
	// Пустой срез, если назначений нет; существование пользователя не проверяется.
	ListExercisesByUser(ctx context.Context, userID uuid.UUID) ([]*exercise.Exercise, error)

	// ListUsersByExercise возвращает пользователей, которым назначено упражнение.
	// Пустой срез, если назначений нет; существование упражнения не проверяется.
	ListUsersByExercise(ctx context.Context, exerciseID uuid.UUID) ([]*domain.User, error)
}
