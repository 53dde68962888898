package services

import (
	"context"
	"errors"

	"contacts_backend/internal/logger"
	"contacts_backend/internal/models"
	"contacts_backend/internal/repositories"
	"contacts_backend/internal/services/dto"
	"contacts_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type UserService interface {
	GetCurrent(ctx context.Context, db *gorm.DB, userID string) (*dto.CurrentUserResponse, error)
	UpdateSubscription(ctx context.Context, db *gorm.DB, userID string, req *dto.UpdateSubscriptionRequest) (*dto.UserResponse, error)
}

type UserServiceImpl struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &UserServiceImpl{userRepo: userRepo}
}

func (s *UserServiceImpl) GetCurrent(ctx context.Context, db *gorm.DB, userID string) (*dto.CurrentUserResponse, error) {
	user, err := s.findUser(db, userID)
	if err != nil {
		return nil, err
	}
	return &dto.CurrentUserResponse{
		ID:           user.ID,
		Email:        user.Email,
		Subscription: string(user.Subscription),
		AvatarURL:    user.AvatarURL,
	}, nil
}

func (s *UserServiceImpl) UpdateSubscription(ctx context.Context, db *gorm.DB, userID string, req *dto.UpdateSubscriptionRequest) (*dto.UserResponse, error) {
	subscription := models.Subscription(req.Subscription)
	if !subscription.IsValid() {
		return nil, apperrors.ErrInvalidSubscription
	}

	if err := s.userRepo.UpdateSubscription(db, userID, subscription); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotAuthorized
		}
		return nil, apperrors.InternalError(err)
	}

	user, err := s.findUser(db, userID)
	if err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "Subscription updated", "user_id", userID, "subscription", subscription)

	return &dto.UserResponse{
		Email:        user.Email,
		Subscription: string(user.Subscription),
	}, nil
}

// findUser - пользователь сессии; если его нет, сессия недействительна
func (s *UserServiceImpl) findUser(db *gorm.DB, userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotAuthorized
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}
