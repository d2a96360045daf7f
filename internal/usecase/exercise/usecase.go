package exercise

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	domain "fitness-tracker/internal/domain/exercise"
	repo "fitness-tracker/internal/repository/interfaces"
)

// Service описывает каталог упражнений.
type Service interface {
	Create(ctx context.Context, in Input) (*domain.Exercise, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Exercise, error)
	List(ctx context.Context) ([]*domain.Exercise, error)
	// Update полностью заменяет name, description и targetMuscleGroup.
	Update(ctx context.Context, id uuid.UUID, in Input) (*domain.Exercise, error)
	// Delete удаляет упражнение и все его назначения.
	Delete(ctx context.Context, id uuid.UUID) error
}

// Input - редактируемые поля упражнения.
type Input struct {
	Name              string
	Description       string
	TargetMuscleGroup string
}

// ErrInvalidInput - ошибка валидации входных данных.
var ErrInvalidInput = errors.New("invalid input")

type service struct {
	exercises repo.ExerciseRepository
}

// NewService создаёт сервис упражнений.
func NewService(exercises repo.ExerciseRepository) Service {
	return &service{exercises: exercises}
}

func (in *Input) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.TargetMuscleGroup = strings.TrimSpace(in.TargetMuscleGroup)

	switch {
	case in.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	case utf8.RuneCountInString(in.Name) > domain.MaxNameLength:
		return fmt.Errorf("%w: name must be at most %d characters", ErrInvalidInput, domain.MaxNameLength)
	case utf8.RuneCountInString(in.Description) > domain.MaxDescriptionLength:
		return fmt.Errorf("%w: description must be at most %d characters", ErrInvalidInput, domain.MaxDescriptionLength)
	case utf8.RuneCountInString(in.TargetMuscleGroup) > domain.MaxMuscleGroupLength:
		return fmt.Errorf("%w: targetMuscleGroup must be at most %d characters", ErrInvalidInput, domain.MaxMuscleGroupLength)
	}
	return nil
}

func (s *service) Create(ctx context.Context, in Input) (*domain.Exercise, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	e := domain.NewExercise(in.Name, in.Description, in.TargetMuscleGroup)
	if err := s.exercises.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*domain.Exercise, error) {
	return s.exercises.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]*domain.Exercise, error) {
	return s.exercises.List(ctx)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, in Input) (*domain.Exercise, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	e, err := s.exercises.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	e.Name = in.Name
	e.Description = in.Description
	e.TargetMuscleGroup = in.TargetMuscleGroup

	if err := s.exercises.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.exercises.Delete(ctx, id)
}
