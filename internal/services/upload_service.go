package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	"contacts_backend/internal/imageprocessor"
	"contacts_backend/internal/logger"
	"contacts_backend/internal/repositories"
	"contacts_backend/internal/services/dto"
	"contacts_backend/internal/storage"
	"contacts_backend/pkg/apperrors"

	"github.com/gabriel-vasile/mimetype"
	"gorm.io/gorm"
)

// ============================================
// AVATAR UPLOAD SERVICE
// ============================================

type UploadService interface {
	// UploadAvatar нормализует картинку до квадрата и делает ее аватаром пользователя
	UploadAvatar(ctx context.Context, db *gorm.DB, userID string, file *multipart.FileHeader) (*dto.AvatarResponse, error)
}

type UploadConfig struct {
	MaxFileSize  int64
	TempDir      string
	AvatarSize   int
	ImageQuality int
	AllowedTypes []string // MIME-типы, определяются по содержимому
}

func GetDefaultUploadConfig() *UploadConfig {
	return &UploadConfig{
		MaxFileSize:  1 << 20,
		TempDir:      os.TempDir(),
		AvatarSize:   imageprocessor.SizeAvatar.Width,
		ImageQuality: 90,
		AllowedTypes: []string{"image/jpeg", "image/png", "image/gif"},
	}
}

type uploadService struct {
	userRepo  repositories.UserRepository
	storage   storage.Storage
	processor *imageprocessor.Processor
	config    *UploadConfig
	now       func() time.Time
}

func NewUploadService(userRepo repositories.UserRepository, storage storage.Storage, config *UploadConfig) UploadService {
	if config == nil {
		config = GetDefaultUploadConfig()
	}
	return &uploadService{
		userRepo:  userRepo,
		storage:   storage,
		processor: imageprocessor.NewProcessor(config.ImageQuality),
		config:    config,
		now:       time.Now,
	}
}

func (s *uploadService) UploadAvatar(ctx context.Context, db *gorm.DB, userID string, file *multipart.FileHeader) (*dto.AvatarResponse, error) {
	if file == nil {
		return nil, apperrors.ErrFileRequired
	}
	if file.Size > s.config.MaxFileSize {
		return nil, apperrors.ErrFileTooLarge
	}

	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotAuthorized
		}
		return nil, apperrors.InternalError(err)
	}

	tmpPath, err := s.stage(file)
	if err != nil {
		return nil, err
	}
	// временный файл удаляется при любом исходе
	defer func() {
		if rmErr := os.Remove(tmpPath); rmErr != nil && !os.IsNotExist(rmErr) {
			logger.CtxWarn(ctx, "Failed to remove temp upload", "path", tmpPath, "error", rmErr)
		}
	}()

	mtype, err := mimetype.DetectFile(tmpPath)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !mimetype.EqualsAny(mtype.String(), s.config.AllowedTypes...) {
		return nil, apperrors.ErrInvalidFileType.WithDetails(map[string]string{"detected": mtype.String()})
	}

	src, err := os.Open(tmpPath)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	defer src.Close()

	size := imageprocessor.ImageSize{Name: "avatar", Width: s.config.AvatarSize, Height: s.config.AvatarSize}
	processed, err := s.processor.ProcessImage(src, size, "jpg")
	if err != nil {
		return nil, apperrors.ErrInvalidFileType.WithError(err)
	}

	key := fmt.Sprintf("%s-%d.jpg", user.ID, s.now().UnixMilli())
	if err := s.storage.Save(ctx, key, processed, "image/jpeg"); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeExternalServiceError, "storage",
			"Failed to store avatar", http.StatusInternalServerError)
	}

	avatarURL := s.storage.URL(key)
	if err := s.userRepo.UpdateAvatar(db, user.ID, avatarURL); err != nil {
		s.deleteQuietly(ctx, key)
		return nil, apperrors.InternalError(err)
	}

	// старый аватар из нашего хранилища больше не нужен; gravatar не трогаем
	if oldKey, ok := s.storage.KeyFromURL(user.AvatarURL); ok && oldKey != key {
		s.deleteQuietly(ctx, oldKey)
	}

	logger.CtxInfo(ctx, "Avatar updated", "user_id", user.ID, "key", key, "source_type", mtype.String())

	return &dto.AvatarResponse{
		Status:    http.StatusOK,
		AvatarURL: avatarURL,
	}, nil
}

// stage копирует загрузку во временную папку, обрезая ее по лимиту размера
func (s *uploadService) stage(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", apperrors.InternalError(err)
	}
	defer src.Close()

	if err := os.MkdirAll(s.config.TempDir, 0o755); err != nil {
		return "", apperrors.InternalError(err)
	}

	tmp, err := os.CreateTemp(s.config.TempDir, "avatar-*")
	if err != nil {
		return "", apperrors.InternalError(err)
	}

	written, err := io.Copy(tmp, io.LimitReader(src, s.config.MaxFileSize+1))
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return "", apperrors.InternalError(err)
	}
	if written > s.config.MaxFileSize {
		_ = os.Remove(tmp.Name())
		return "", apperrors.ErrFileTooLarge
	}

	return tmp.Name(), nil
}

func (s *uploadService) deleteQuietly(ctx context.Context, key string) {
	if err := s.storage.Delete(ctx, key); err != nil {
		logger.CtxWarn(ctx, "Failed to delete avatar file", "key", key, "error", err)
	}
}
