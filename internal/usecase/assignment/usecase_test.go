package assignment

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"fitness-tracker/internal/domain/exercise"
	"fitness-tracker/internal/domain/user"
	repo "fitness-tracker/internal/repository/interfaces"
	"fitness-tracker/internal/repository/memory"
)

func intPtr(v int) *int       { return &v }
func strPtr(s string) *string { return &s }

type fixture struct {
	store    *memory.Store
	svc      *service
	clock    time.Time
	user     *user.User
	exercise *exercise.Exercise
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	f := &fixture{
		store: memory.NewStore(),
		clock: time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC),
	}
	f.svc = &service{
		assignments: f.store.Assignments(),
		now:         func() time.Time { return f.clock },
	}

	f.user = user.NewUser("Alice", "alice@example.com", "", "hash")
	require.NoError(t, f.store.Users().Create(ctx, f.user))
	f.exercise = exercise.NewExercise("Squat", "", "Legs")
	require.NoError(t, f.store.Exercises().Create(ctx, f.exercise))
	return f
}

func TestAssign_OverwritesEveryField(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Assign(ctx, AssignInput{
		UserID: f.user.ID, ExerciseID: f.exercise.ID,
		TargetSets: intPtr(3), TargetReps: intPtr(10), Notes: strPtr("focus on depth"),
	}))
	first, err := f.svc.Get(ctx, f.user.ID, f.exercise.ID)
	require.NoError(t, err)
	require.Equal(t, 3, *first.TargetSets)
	require.Equal(t, 10, *first.TargetReps)
	require.Equal(t, "focus on depth", *first.Notes)

	f.clock = f.clock.Add(time.Hour)
	require.NoError(t, f.svc.Assign(ctx, AssignInput{
		UserID: f.user.ID, ExerciseID: f.exercise.ID,
		TargetSets: intPtr(4),
	}))

	second, err := f.svc.Get(ctx, f.user.ID, f.exercise.ID)
	require.NoError(t, err)
	require.Equal(t, 4, *second.TargetSets)
	require.Nil(t, second.TargetReps)
	require.Nil(t, second.Notes)
	require.True(t, second.DateAssigned.After(first.DateAssigned))

	list, err := f.svc.ListForUser(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestAssign_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := AssignInput{UserID: f.user.ID, ExerciseID: f.exercise.ID, TargetReps: intPtr(8)}

	require.NoError(t, f.svc.Assign(ctx, in))
	require.NoError(t, f.svc.Assign(ctx, in))

	users, err := f.svc.ListForExercise(ctx, f.exercise.ID)
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, f.user.ID, users[0].ID)
}

func TestAssign_MissingParentCreatesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.svc.Assign(ctx, AssignInput{UserID: uuid.New(), ExerciseID: f.exercise.ID})
	require.ErrorIs(t, err, repo.ErrNotFound)

	err = f.svc.Assign(ctx, AssignInput{UserID: f.user.ID, ExerciseID: uuid.New()})
	require.ErrorIs(t, err, repo.ErrNotFound)

	users, err := f.svc.ListForExercise(ctx, f.exercise.ID)
	require.NoError(t, err)
	require.NotNil(t, users)
	require.Empty(t, users)

	exercises, err := f.svc.ListForUser(ctx, f.user.ID)
	require.NoError(t, err)
	require.NotNil(t, exercises)
	require.Empty(t, exercises)
}

func TestAssign_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []AssignInput{
		{TargetSets: intPtr(0)},
		{TargetReps: intPtr(-1)},
		{Notes: strPtr(strings.Repeat("x", 501))},
	}
	for _, in := range cases {
		in.UserID, in.ExerciseID = f.user.ID, f.exercise.ID
		require.ErrorIs(t, f.svc.Assign(ctx, in), ErrInvalidInput)
	}

	_, err := f.svc.Get(ctx, f.user.ID, f.exercise.ID)
	require.ErrorIs(t, err, repo.ErrNotFound)
}

func TestRemove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.ErrorIs(t, f.svc.Remove(ctx, f.user.ID, f.exercise.ID), repo.ErrNotFound)

	other := exercise.NewExercise("Bench", "", "Chest")
	require.NoError(t, f.store.Exercises().Create(ctx, other))
	require.NoError(t, f.svc.Assign(ctx, AssignInput{UserID: f.user.ID, ExerciseID: f.exercise.ID}))
	require.NoError(t, f.svc.Assign(ctx, AssignInput{UserID: f.user.ID, ExerciseID: other.ID}))

	require.NoError(t, f.svc.Remove(ctx, f.user.ID, f.exercise.ID))

	list, err := f.svc.ListForUser(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, other.ID, list[0].ID)
}

func TestCascadeOnParentDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	bob := user.NewUser("Bob", "bob@example.com", "", "hash")
	require.NoError(t, f.store.Users().Create(ctx, bob))
	require.NoError(t, f.svc.Assign(ctx, AssignInput{UserID: f.user.ID, ExerciseID: f.exercise.ID}))
	require.NoError(t, f.svc.Assign(ctx, AssignInput{UserID: bob.ID, ExerciseID: f.exercise.ID}))

	require.NoError(t, f.store.Users().Delete(ctx, f.user.ID))
	users, err := f.svc.ListForExercise(ctx, f.exercise.ID)
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.Equal(t, bob.ID, users[0].ID)

	require.NoError(t, f.store.Exercises().Delete(ctx, f.exercise.ID))
	list, err := f.svc.ListForUser(ctx, bob.ID)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestNewService(t *testing.T) {
	svc := NewService(memory.NewStore().Assignments())
	list, err := svc.ListForUser(context.Background(), uuid.New())
	require.NoError(t, err)
	require.Empty(t, list)
}
