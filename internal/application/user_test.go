package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"stripe-inspector/internal/domain/entity"
	"stripe-inspector/internal/infrastructure/storage"
)

func TestUserService_BeginAndCancel(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.BeginImage(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingImage, user.State)

	user, err = svc.BeginVideo(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingVideo, user.State)

	user, err = svc.Cancel(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)
}

func TestUserService_CancelKeepsThresholds(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	_, err := svc.SetThresholds(ctx, 4, 40, 10, 90)
	require.NoError(t, err)
	_, err = svc.BeginImage(ctx, 4, 40)
	require.NoError(t, err)

	user, err := svc.Cancel(ctx, 4, 40)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)
	require.Equal(t, float32(10), user.EdgeLow)
	require.Equal(t, float32(90), user.EdgeHigh)

	// Оператор, которого ещё нет в хранилище, получает новую сессию в главном меню.
	user, err = svc.Cancel(ctx, 5, 50)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)
	require.Equal(t, int64(50), user.ChatID)
}

func TestUserService_SetState(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.SetState(ctx, 2, 20, entity.StateProcessing)
	require.NoError(t, err)
	require.Equal(t, entity.StateProcessing, user.State)

	user, err = svc.Get(ctx, 2, 20)
	require.NoError(t, err)
	require.Equal(t, entity.StateProcessing, user.State)
}

func TestUserService_SetThresholds(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.SetThresholds(ctx, 3, 30, 35, 110)
	require.NoError(t, err)
	require.Equal(t, entity.ImageProfile(35, 110), user.ImageProfile())

	_, err = svc.SetThresholds(ctx, 3, 30, 35, 300)
	require.ErrorIs(t, err, entity.ErrInvalidProfile)

	user, err = svc.Get(ctx, 3, 30)
	require.NoError(t, err)
	require.Equal(t, float32(110), user.EdgeHigh)
}
