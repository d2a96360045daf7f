package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"fitness-tracker/internal/domain/assignment"
	"fitness-tracker/internal/domain/exercise"
	domain "fitness-tracker/internal/domain/user"
	repo "fitness-tracker/internal/repository/interfaces"
)

// AssignmentRepository - in-memory реализация repo.AssignmentRepository.
type AssignmentRepository struct {
	s *Store
}

var _ repo.AssignmentRepository = (*AssignmentRepository)(nil)

// Upsert проверяет родителей и перезаписывает назначение под одной блокировкой.
func (r *AssignmentRepository) Upsert(_ context.Context, a *assignment.Assignment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[a.UserID]; !ok {
		return repo.ErrNotFound
	}
	if _, ok := r.s.exercises[a.ExerciseID]; !ok {
		return repo.ErrNotFound
	}

	r.s.assignments[assignmentKey{a.UserID, a.ExerciseID}] = cloneAssignment(a)
	return nil
}

func (r *AssignmentRepository) Get(_ context.Context, userID, exerciseID uuid.UUID) (*assignment.Assignment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.assignments[assignmentKey{userID, exerciseID}]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return cloneAssignment(a), nil
}

func (r *AssignmentRepository) Delete(_ context.Context, userID, exerciseID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := assignmentKey{userID, exerciseID}
	if _, ok := r.s.assignments[key]; !ok {
		return repo.ErrNotFound
	}
	delete(r.s.assignments, key)
	return nil
}

// matching возвращает назначения по предикату, новые первыми.
func (r *AssignmentRepository) matching(match func(assignmentKey) bool) []*assignment.Assignment {
	var out []*assignment.Assignment
	for key, a := range r.s.assignments {
		if match(key) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DateAssigned.After(out[j].DateAssigned)
	})
	return out
}

func (r *AssignmentRepository) ListExercisesByUser(_ context.Context, userID uuid.UUID) ([]*exercise.Exercise, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	found := r.matching(func(k assignmentKey) bool { return k.userID == userID })
	out := make([]*exercise.Exercise, 0, len(found))
	for _, a := range found {
		if e, ok := r.s.exercises[a.ExerciseID]; ok {
			out = append(out, cloneExercise(e))
		}
	}
	return out, nil
}

func (r *AssignmentRepository) ListUsersByExercise(_ context.Context, exerciseID uuid.UUID) ([]*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	found := r.matching(func(k assignmentKey) bool { return k.exerciseID == exerciseID })
	out := make([]*domain.User, 0, len(found))
	for _, a := range found {
		if u, ok := r.s.users[a.UserID]; ok {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}
