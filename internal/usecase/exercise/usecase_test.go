package exercise

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	repo "fitness-tracker/internal/repository/interfaces"
	"fitness-tracker/internal/repository/memory"
)

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewStore().Exercises())

	created, err := svc.Create(ctx, Input{Name: "  Deadlift ", Description: "Hip hinge", TargetMuscleGroup: "Back"})
	require.NoError(t, err)
	require.Equal(t, "Deadlift", created.Name)
	require.False(t, created.CreatedAt.IsZero())

	got, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.Name, got.Name)
	require.Equal(t, "Hip hinge", got.Description)
	require.Equal(t, "Back", got.TargetMuscleGroup)
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(memory.NewStore().Exercises())
	ctx := context.Background()

	cases := []Input{
		{Name: ""},
		{Name: strings.Repeat("n", 101)},
		{Name: "ok", Description: strings.Repeat("d", 501)},
		{Name: "ok", TargetMuscleGroup: strings.Repeat("m", 101)},
	}
	for _, in := range cases {
		_, err := svc.Create(ctx, in)
		require.ErrorIs(t, err, ErrInvalidInput)
	}

	_, err := svc.Create(ctx, Input{Name: strings.Repeat("н", 100)})
	require.NoError(t, err)
}

func TestUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := NewService(memory.NewStore().Exercises())

	created, err := svc.Create(ctx, Input{Name: "Row"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, Input{Name: "Barbell Row", TargetMuscleGroup: "Back"})
	require.NoError(t, err)
	require.Equal(t, "Barbell Row", updated.Name)

	_, err = svc.Update(ctx, uuid.New(), Input{Name: "x"})
	require.ErrorIs(t, err, repo.ErrNotFound)

	require.NoError(t, svc.Delete(ctx, created.ID))
	require.ErrorIs(t, svc.Delete(ctx, created.ID), repo.ErrNotFound)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Empty(t, list)
}
