package app

import (
	"context"

	"stripe-inspector/internal/domain/entity"
	"stripe-inspector/internal/domain/port"
)

type UserService struct {
	repo port.UserRepository
}

func NewUserService(repo port.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.repo.Get(ctx, userID, chatID)
}

func (s *UserService) SetState(ctx context.Context, userID, chatID int64, state entity.UserState) (*entity.User, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	user.SetState(state)
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *UserService) BeginImage(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateAwaitingImage)
}

func (s *UserService) BeginVideo(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.SetState(ctx, userID, chatID, entity.StateAwaitingVideo)
}

// Cancel возвращает оператора в главное меню, пороги не трогает.
func (s *UserService) Cancel(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	if err := s.repo.UpdateState(ctx, userID, entity.StateMainMenu); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, userID, chatID)
}

// SetThresholds сохраняет пороги Canny оператора для следующих фото.
func (s *UserService) SetThresholds(ctx context.Context, userID, chatID int64, low, high float32) (*entity.User, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	if err := user.SetThresholds(low, high); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
