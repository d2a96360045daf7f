package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"fitness-tracker/internal/domain/exercise"
	repo "fitness-tracker/internal/repository/interfaces"
)

// ExerciseRepository - in-memory реализация repo.ExerciseRepository.
type ExerciseRepository struct {
	s *Store
}

var _ repo.ExerciseRepository = (*ExerciseRepository)(nil)

func (r *ExerciseRepository) Create(_ context.Context, e *exercise.Exercise) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.exercises[e.ID] = cloneExercise(e)
	return nil
}

func (r *ExerciseRepository) GetByID(_ context.Context, id uuid.UUID) (*exercise.Exercise, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.exercises[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return cloneExercise(e), nil
}

func (r *ExerciseRepository) List(_ context.Context) ([]*exercise.Exercise, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*exercise.Exercise, 0, len(r.s.exercises))
	for _, e := range r.s.exercises {
		out = append(out, cloneExercise(e))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *ExerciseRepository) Update(_ context.Context, e *exercise.Exercise) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.exercises[e.ID]
	if !ok {
		return repo.ErrNotFound
	}
	stored.Name = e.Name
	stored.Description = e.Description
	stored.TargetMuscleGroup = e.TargetMuscleGroup
	return nil
}

// Delete удаляет упражнение и все его назначения.
func (r *ExerciseRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.exercises[id]; !ok {
		return repo.ErrNotFound
	}
	for key := range r.s.assignments {
		if key.exerciseID == id {
			delete(r.s.assignments, key)
		}
	}
	delete(r.s.exercises, id)
	return nil
}
