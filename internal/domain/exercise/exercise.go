package exercise

import (
	"time"

	"github.com/google/uuid"
)

// Ограничения длины полей упражнения.
const (
	MaxNameLength        = 100
	MaxDescriptionLength = 500
	MaxMuscleGroupLength = 100
)

// Exercise представляет упражнение из каталога.
type Exercise struct {
	ID                uuid.UUID
	Name              string // Название (обязательно)
	Description       string
	TargetMuscleGroup string // Целевая группа мышц, свободный тег
	CreatedAt         time.Time
}

// NewExercise создаёт упражнение с новым идентификатором и временем создания.
func NewExercise(name, description, targetMuscleGroup string) *Exercise {
	return &Exercise{
		ID:                uuid.New(),
		Name:              name,
		Description:       description,
		TargetMuscleGroup: targetMuscleGroup,
		CreatedAt:         time.Now().UTC(),
	}
}
