package assignment

import (
	"time"

	"github.com/google/uuid"
)

// MaxNotesLength - максимальная длина заметок к назначению (в символах).
const MaxNotesLength = 500

// Assignment связывает пользователя с упражнением и хранит целевые параметры.
// Пара (UserID, ExerciseID) уникальна.
type Assignment struct {
	UserID     uuid.UUID
	ExerciseID uuid.UUID

	DateAssigned time.Time // Обновляется при каждом upsert
	TargetSets   *int      // nil - не задано
	TargetReps   *int      // nil - не задано
	Notes        *string   // nil - не задано
}
