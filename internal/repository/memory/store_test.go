package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"fitness-tracker/internal/domain/assignment"
	"fitness-tracker/internal/domain/exercise"
	domain "fitness-tracker/internal/domain/user"
	repo "fitness-tracker/internal/repository/interfaces"
)

func intPtr(v int) *int { return &v }

func seed(t *testing.T, s *Store) (*domain.User, *exercise.Exercise) {
	t.Helper()
	ctx := context.Background()

	u := domain.NewUser("Alice", "alice@example.com", "", "hash")
	require.NoError(t, s.Users().Create(ctx, u))

	e := exercise.NewExercise("Squat", "Back squat", "Legs")
	require.NoError(t, s.Exercises().Create(ctx, e))
	return u, e
}

func TestUserRepository_Uniqueness(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seed(t, s)

	err := s.Users().Create(ctx, domain.NewUser("Other", "ALICE@example.com", "other", "hash"))
	require.ErrorIs(t, err, repo.ErrEmailExists)

	err = s.Users().Create(ctx, domain.NewUser("Other", "other@example.com", "Alice@Example.com", "hash"))
	require.ErrorIs(t, err, repo.ErrUsernameExists)

	got, err := s.Users().GetByUsername(ctx, "ALICE@EXAMPLE.COM")
	require.NoError(t, err)
	require.Equal(t, "Alice", got.Name)
	require.Equal(t, []domain.Role{domain.RoleUser}, got.Roles)
}

func TestUserRepository_UpdateUsername(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	alice, _ := seed(t, s)
	require.NoError(t, s.Users().Create(ctx, domain.NewUser("Bob", "bob@example.com", "bob", "hash")))

	alice.Email = "alice2@example.com"
	alice.Username = "BOB"
	require.ErrorIs(t, s.Users().Update(ctx, alice), repo.ErrUsernameExists)

	alice.Username = "alice2@example.com"
	require.NoError(t, s.Users().Update(ctx, alice))

	_, err := s.Users().GetByUsername(ctx, "alice@example.com")
	require.ErrorIs(t, err, repo.ErrNotFound)
	got, err := s.Users().GetByUsername(ctx, "alice2@example.com")
	require.NoError(t, err)
	require.Equal(t, alice.ID, got.ID)
}

func TestUserRepository_AddRoleIdempotent(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	u, _ := seed(t, s)

	require.NoError(t, s.Users().AddRole(ctx, u.ID, domain.RoleAdmin))
	require.NoError(t, s.Users().AddRole(ctx, u.ID, domain.RoleAdmin))

	got, err := s.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, []domain.Role{domain.RoleAdmin, domain.RoleUser}, got.Roles)

	require.ErrorIs(t, s.Users().AddRole(ctx, uuid.New(), domain.RoleAdmin), repo.ErrNotFound)
}

func TestAssignmentRepository_UpsertOverwrites(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	u, e := seed(t, s)
	notes := "slow"

	first := &assignment.Assignment{
		UserID: u.ID, ExerciseID: e.ID,
		DateAssigned: time.Now().UTC(),
		TargetSets:   intPtr(3), TargetReps: intPtr(10), Notes: &notes,
	}
	require.NoError(t, s.Assignments().Upsert(ctx, first))

	second := &assignment.Assignment{
		UserID: u.ID, ExerciseID: e.ID,
		DateAssigned: time.Now().UTC().Add(time.Minute),
		TargetSets:   intPtr(4),
	}
	require.NoError(t, s.Assignments().Upsert(ctx, second))

	got, err := s.Assignments().Get(ctx, u.ID, e.ID)
	require.NoError(t, err)
	require.Equal(t, 4, *got.TargetSets)
	require.Nil(t, got.TargetReps)
	require.Nil(t, got.Notes)

	exercises, err := s.Assignments().ListExercisesByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, exercises, 1)
}

func TestAssignmentRepository_UpsertMissingParent(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	u, e := seed(t, s)

	err := s.Assignments().Upsert(ctx, &assignment.Assignment{UserID: uuid.New(), ExerciseID: e.ID})
	require.ErrorIs(t, err, repo.ErrNotFound)

	err = s.Assignments().Upsert(ctx, &assignment.Assignment{UserID: u.ID, ExerciseID: uuid.New()})
	require.ErrorIs(t, err, repo.ErrNotFound)

	users, err := s.Assignments().ListUsersByExercise(ctx, e.ID)
	require.NoError(t, err)
	require.NotNil(t, users)
	require.Empty(t, users)
}

func TestCascadeDeletes(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	u, e := seed(t, s)

	require.NoError(t, s.Assignments().Upsert(ctx, &assignment.Assignment{UserID: u.ID, ExerciseID: e.ID}))
	require.NoError(t, s.Exercises().Delete(ctx, e.ID))

	_, err := s.Assignments().Get(ctx, u.ID, e.ID)
	require.ErrorIs(t, err, repo.ErrNotFound)

	e2 := exercise.NewExercise("Bench", "", "Chest")
	require.NoError(t, s.Exercises().Create(ctx, e2))
	require.NoError(t, s.Assignments().Upsert(ctx, &assignment.Assignment{UserID: u.ID, ExerciseID: e2.ID}))
	require.NoError(t, s.Users().Delete(ctx, u.ID))

	users, err := s.Assignments().ListUsersByExercise(ctx, e2.ID)
	require.NoError(t, err)
	require.Empty(t, users)

	require.ErrorIs(t, s.Users().Delete(ctx, u.ID), repo.ErrNotFound)
	require.ErrorIs(t, s.Assignments().Delete(ctx, u.ID, e2.ID), repo.ErrNotFound)
}
