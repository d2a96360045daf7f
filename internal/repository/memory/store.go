// Package memory содержит in-process реализацию репозиториев.
// Используется для локального запуска (STORAGE_DRIVER=memory) и в тестах
// usecase/handler слоёв, где поднимать Postgres избыточно.
package memory

import (
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"fitness-tracker/internal/domain/assignment"
	"fitness-tracker/internal/domain/exercise"
	domain "fitness-tracker/internal/domain/user"
)

type assignmentKey struct {
	userID     uuid.UUID
	exerciseID uuid.UUID
}

// Store - общее состояние трёх репозиториев под одним мьютексом,
// чтобы каскадные удаления и upsert были атомарными.
type Store struct {
	mu          sync.RWMutex
	users       map[uuid.UUID]*domain.User
	exercises   map[uuid.UUID]*exercise.Exercise
	assignments map[assignmentKey]*assignment.Assignment
}

// NewStore создает пустое хранилище.
func NewStore() *Store {
	return &Store{
		users:       make(map[uuid.UUID]*domain.User),
		exercises:   make(map[uuid.UUID]*exercise.Exercise),
		assignments: make(map[assignmentKey]*assignment.Assignment),
	}
}

// Users возвращает репозиторий пользователей поверх хранилища.
func (s *Store) Users() *UserRepository {
	return &UserRepository{s: s}
}

// Exercises возвращает репозиторий упражнений поверх хранилища.
func (s *Store) Exercises() *ExerciseRepository {
	return &ExerciseRepository{s: s}
}

// Assignments возвращает репозиторий назначений поверх хранилища.
func (s *Store) Assignments() *AssignmentRepository {
	return &AssignmentRepository{s: s}
}

// findUserLocked ищет пользователя по предикату. Вызывать под s.mu.
func (s *Store) findUserLocked(match func(*domain.User) bool) *domain.User {
	for _, u := range s.users {
		if match(u) {
			return u
		}
	}
	return nil
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	c.Roles = append([]domain.Role(nil), u.EffectiveRoles()...)
	sort.Slice(c.Roles, func(i, j int) bool { return c.Roles[i] < c.Roles[j] })
	return &c
}

func cloneExercise(e *exercise.Exercise) *exercise.Exercise {
	c := *e
	return &c
}

func cloneAssignment(a *assignment.Assignment) *assignment.Assignment {
	c := *a
	if a.TargetSets != nil {
		v := *a.TargetSets
		c.TargetSets = &v
	}
	if a.TargetReps != nil {
		v := *a.TargetReps
		c.TargetReps = &v
	}
	if a.Notes != nil {
		v := *a.Notes
		c.Notes = &v
	}
	return &c
}

func sameFold(a, b string) bool {
	return strings.EqualFold(a, b)
}
