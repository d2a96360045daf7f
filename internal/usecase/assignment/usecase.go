package assignment

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	domain "fitness-tracker/internal/domain/assignment"
	"fitness-tracker/internal/domain/exercise"
	"fitness-tracker/internal/domain/user"
	repo "fitness-tracker/internal/repository/interfaces"
)

// Service описывает назначение упражнений пользователям.
type Service interface {
	// Assign создаёт назначение или полностью перезаписывает существующее.
	// Отсутствующие поля сохраняются как NULL, dateAssigned обновляется всегда.
	Assign(ctx context.Context, in AssignInput) error

	// Remove удаляет назначение; repo.ErrNotFound, если его нет.
	Remove(ctx context.Context, userID, exerciseID uuid.UUID) error

	// Get возвращает сохранённое назначение.
	Get(ctx context.Context, userID, exerciseID uuid.UUID) (*domain.Assignment, error)

	// ListForUser - упражнения пользователя; пустой срез, если назначений нет.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*exercise.Exercise, error)

	// ListForExercise - пользователи упражнения; пустой срез, если назначений нет.
	ListForExercise(ctx context.Context, exerciseID uuid.UUID) ([]*user.User, error)
}

// AssignInput - параметры назначения.
type AssignInput struct {
	UserID     uuid.UUID
	ExerciseID uuid.UUID
	TargetSets *int
	TargetReps *int
	Notes      *string
}

// ErrInvalidInput - ошибка валидации входных данных.
var ErrInvalidInput = errors.New("invalid input")

type service struct {
	assignments repo.AssignmentRepository
	now         func() time.Time
}

// NewService создаёт сервис назначений.
func NewService(assignments repo.AssignmentRepository) Service {
	return &service{
		assignments: assignments,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (in AssignInput) validate() error {
	if in.TargetSets != nil && *in.TargetSets <= 0 {
		return fmt.Errorf("%w: targetSets must be positive", ErrInvalidInput)
	}
	if in.TargetReps != nil && *in.TargetReps <= 0 {
		return fmt.Errorf("%w: targetReps must be positive", ErrInvalidInput)
	}
	if in.Notes != nil && utf8.RuneCountInString(*in.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}
	return nil
}

func (s *service) Assign(ctx context.Context, in AssignInput) error {
	if err := in.validate(); err != nil {
		return err
	}

	return s.assignments.Upsert(ctx, &domain.Assignment{
		UserID:       in.UserID,
		ExerciseID:   in.ExerciseID,
		DateAssigned: s.now(),
		TargetSets:   in.TargetSets,
		TargetReps:   in.TargetReps,
		Notes:        in.Notes,
	})
}

func (s *service) Remove(ctx context.Context, userID, exerciseID uuid.UUID) error {
	return s.assignments.Delete(ctx, userID, exerciseID)
}

func (s *service) Get(ctx context.Context, userID, exerciseID uuid.UUID) (*domain.Assignment, error) {
	return s.assignments.Get(ctx, userID, exerciseID)
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) ([]*exercise.Exercise, error) {
	list, err := s.assignments.ListExercisesByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*exercise.Exercise{}
	}
	return list, nil
}

func (s *service) ListForExercise(ctx context.Context, exerciseID uuid.UUID) ([]*user.User, error) {
	list, err := s.assignments.ListUsersByExercise(ctx, exerciseID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*user.User{}
	}
	return list, nil
}
