package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"stripe-inspector/internal/domain/entity"
)

func TestMemoryUserRepository_GetCreatesAndCopies(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	user, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)

	// Изменения без Save не видны другим читателям.
	user.SetState(entity.StateProcessing)
	again, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, again.State)

	require.NoError(t, repo.Save(ctx, user))
	again, err = repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateProcessing, again.State)
}

func TestMemoryUserRepository_UpdateState(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	require.NoError(t, repo.UpdateState(ctx, 5, entity.StateAwaitingVideo))
	_, err := repo.Get(ctx, 5, 50)
	require.NoError(t, err)

	require.NoError(t, repo.UpdateState(ctx, 5, entity.StateAwaitingVideo))
	user, err := repo.Get(ctx, 5, 50)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingVideo, user.State)
}
