package assignment

import (
	"time"

	domain "fitness-tracker/internal/domain/assignment"
)

// AssignRequest - тело назначения. Отсутствующее поле сохраняется как null.
type AssignRequest struct {
	TargetSets *int    `json:"targetSets" binding:"omitempty,gt=0"`
	TargetReps *int    `json:"targetReps" binding:"omitempty,gt=0"`
	Notes      *string `json:"notes" binding:"omitempty,max=500"`
}

// Response - сохранённое назначение.
type Response struct {
	UserID       string    `json:"userId"`
	ExerciseID   string    `json:"exerciseId"`
	DateAssigned time.Time `json:"dateAssigned"`
	TargetSets   *int      `json:"targetSets"`
	TargetReps   *int      `json:"targetReps"`
	Notes        *string   `json:"notes"`
}

// ToResponse маппит доменную модель в DTO.
func ToResponse(a *domain.Assignment) Response {
	return Response{
		UserID:       a.UserID.String(),
		ExerciseID:   a.ExerciseID.String(),
		DateAssigned: a.DateAssigned,
		TargetSets:   a.TargetSets,
		TargetReps:   a.TargetReps,
		Notes:        a.Notes,
	}
}
