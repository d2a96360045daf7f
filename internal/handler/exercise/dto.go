package exercise

import (
	"time"

	domain "fitness-tracker/internal/domain/exercise"
)

// Request - тело создания и обновления упражнения.
type Request struct {
	Name              string `json:"name" binding:"required,max=100"`
	Description       string `json:"description" binding:"max=500"`
	TargetMuscleGroup string `json:"targetMuscleGroup" binding:"max=100"`
}

// Response - представление упражнения.
type Response struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	TargetMuscleGroup string    `json:"targetMuscleGroup"`
	CreatedAt         time.Time `json:"createdAt"`
}

// ToResponse маппит доменную модель в DTO.
func ToResponse(e *domain.Exercise) Response {
	return Response{
		ID:                e.ID.String(),
		Name:              e.Name,
		Description:       e.Description,
		TargetMuscleGroup: e.TargetMuscleGroup,
		CreatedAt:         e.CreatedAt,
	}
}

// ToResponseList маппит срез упражнений; nil превращается в пустой массив.
func ToResponseList(list []*domain.Exercise) []Response {
	out := make([]Response, 0, len(list))
	for _, e := range list {
		out = append(out, ToResponse(e))
	}
	return out
}
