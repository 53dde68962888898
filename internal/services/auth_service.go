package services

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"

	"contacts_backend/internal/auth"
	"contacts_backend/internal/logger"
	"contacts_backend/internal/models"
	"contacts_backend/internal/repositories"
	"contacts_backend/internal/services/dto"
	"contacts_backend/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuthService interface {
	Signup(ctx context.Context, db *gorm.DB, req *dto.SignupRequest) (*dto.SignupResponse, error)
	Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, db *gorm.DB, userID string) error
	VerifyEmail(ctx context.Context, db *gorm.DB, token string) error
	ResendVerification(ctx context.Context, db *gorm.DB, req *dto.ResendVerificationRequest) error
	// Authenticate проверяет bearer-токен и возвращает владельца сессии
	Authenticate(ctx context.Context, db *gorm.DB, token string) (*models.User, error)
}

type AuthServiceImpl struct {
	userRepo     repositories.UserRepository
	tokens       *auth.TokenManager
	emailService *EmailService
}

func NewAuthService(
	userRepo repositories.UserRepository,
	tokens *auth.TokenManager,
	emailService *EmailService,
) AuthService {
	return &AuthServiceImpl{
		userRepo:     userRepo,
		tokens:       tokens,
		emailService: emailService,
	}
}

// Signup - регистрация. Пользователь и письмо живут в одной транзакции:
// если письмо не ушло, запись откатывается и регистрацию можно повторить.
func (s *AuthServiceImpl) Signup(ctx context.Context, db *gorm.DB, req *dto.SignupRequest) (*dto.SignupResponse, error) {
	email := strings.TrimSpace(req.Email)

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	verificationToken := uuid.NewString()
	user := &models.User{
		Email:             email,
		PasswordHash:      hash,
		Subscription:      models.SubscriptionStarter,
		VerificationToken: &verificationToken,
		AvatarURL:         gravatarURL(email),
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.Create(tx, user); err != nil {
			if errors.Is(err, repositories.ErrUserAlreadyExists) {
				return apperrors.ErrEmailInUse
			}
			return apperrors.InternalError(err)
		}
		if err := s.emailService.SendVerification(ctx, user.Email, verificationToken); err != nil {
			return mailError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, "User registered", "user_id", user.ID)

	return &dto.SignupResponse{
		Status: http.StatusCreated,
		User: dto.UserResponse{
			Email:        user.Email,
			Subscription: string(user.Subscription),
		},
	}, nil
}

// Login - статус подтверждения проверяется до пароля
func (s *AuthServiceImpl) Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(db, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserEmailNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	if !user.Verify {
		return nil, apperrors.ErrUserNotVerified
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		logger.CtxWarn(ctx, "Login with wrong password", "user_id", user.ID)
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	// новый токен вытесняет предыдущую сессию
	if err := s.userRepo.SetToken(db, user.ID, &token); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "User logged in", "user_id", user.ID)

	return &dto.LoginResponse{
		Token: token,
		User: dto.UserResponse{
			Email:        user.Email,
			Subscription: string(user.Subscription),
		},
	}, nil
}

func (s *AuthServiceImpl) Logout(ctx context.Context, db *gorm.DB, userID string) error {
	if err := s.userRepo.SetToken(db, userID, nil); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrNotAuthorized
		}
		return apperrors.InternalError(err)
	}
	logger.CtxInfo(ctx, "User logged out", "user_id", userID)
	return nil
}

func (s *AuthServiceImpl) VerifyEmail(ctx context.Context, db *gorm.DB, token string) error {
	user, err := s.userRepo.FindByVerificationToken(db, token)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}

	if err := s.userRepo.MarkVerified(db, user.ID); err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Email verified", "user_id", user.ID)
	return nil
}

func (s *AuthServiceImpl) ResendVerification(ctx context.Context, db *gorm.DB, req *dto.ResendVerificationRequest) error {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return apperrors.ErrMissingEmail
	}

	user, err := s.userRepo.FindByEmail(db, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}

	if user.Verify {
		return apperrors.ErrAlreadyVerified
	}

	// новый токен обесценивает ссылку из предыдущего письма
	return db.Transaction(func(tx *gorm.DB) error {
		token := uuid.NewString()
		if err := s.userRepo.SetVerificationToken(tx, user.ID, token); err != nil {
			return apperrors.InternalError(err)
		}
		if err := s.emailService.SendVerification(ctx, user.Email, token); err != nil {
			return mailError(err)
		}
		return nil
	})
}

func (s *AuthServiceImpl) Authenticate(ctx context.Context, db *gorm.DB, token string) (*models.User, error) {
	userID, err := s.tokens.Parse(token)
	if err != nil {
		return nil, apperrors.ErrNotAuthorized.WithError(err)
	}

	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotAuthorized.WithError(err)
		}
		return nil, apperrors.InternalError(err)
	}

	// после logout или повторного login старый токен не принимается
	if !user.HasSession(token) {
		logger.CtxDebug(ctx, "Token does not match active session", "user_id", user.ID)
		return nil, apperrors.ErrNotAuthorized
	}

	return user, nil
}

func mailError(err error) *apperrors.AppError {
	return apperrors.Wrap(err, apperrors.CodeExternalServiceError, "email",
		"Failed to send verification email", http.StatusInternalServerError)
}

// gravatarURL - аватар по умолчанию: md5 от нормализованного email
func gravatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return "https://www.gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?s=250&r=pg&d=404"
}
