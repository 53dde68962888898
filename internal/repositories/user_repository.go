package repositories

import (
	"errors"
	"strings"
	"time"

	"contacts_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

// UserRepository - Credential Store. Репозиторий без состояния:
// *gorm.DB (пул или транзакция) передается в каждый вызов.
type UserRepository interface {
	Create(db *gorm.DB, user *models.User) error
	FindByID(db *gorm.DB, id string) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)
	FindByVerificationToken(db *gorm.DB, token string) (*models.User, error)

	SetToken(db *gorm.DB, userID string, token *string) error
	MarkVerified(db *gorm.DB, userID string) error
	SetVerificationToken(db *gorm.DB, userID, token string) error
	UpdateSubscription(db *gorm.DB, userID string, subscription models.Subscription) error
	UpdateAvatar(db *gorm.DB, userID, avatarURL string) error

	// ClearExpiredSessions гасит сохраненные токены, выданные раньше issuedBefore
	ClearExpiredSessions(db *gorm.DB, issuedBefore time.Time) (int64, error)
}

type userRepository struct{}

func NewUserRepository() UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(db *gorm.DB, user *models.User) error {
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrUserAlreadyExists
	}

	if err := db.Create(user).Error; err != nil {
		// гонка между проверкой и вставкой ловится уникальным индексом
		if isDuplicateKey(err) {
			return ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

func (r *userRepository) FindByID(db *gorm.DB, id string) (*models.User, error) {
	return r.findOne(db, "id = ?", id)
}

func (r *userRepository) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	return r.findOne(db, "email = ?", email)
}

func (r *userRepository) FindByVerificationToken(db *gorm.DB, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrUserNotFound
	}
	return r.findOne(db, "verification_token = ?", token)
}

// SetToken сохраняет текущую сессию; nil очищает ее (logout)
func (r *userRepository) SetToken(db *gorm.DB, userID string, token *string) error {
	return r.update(db, userID, map[string]interface{}{"token": token})
}

// MarkVerified переводит пользователя в Verified и гасит одноразовый токен
func (r *userRepository) MarkVerified(db *gorm.DB, userID string) error {
	return r.update(db, userID, map[string]interface{}{
		"verify":             true,
		"verification_token": nil,
	})
}

func (r *userRepository) SetVerificationToken(db *gorm.DB, userID, token string) error {
	return r.update(db, userID, map[string]interface{}{"verification_token": token})
}

func (r *userRepository) UpdateSubscription(db *gorm.DB, userID string, subscription models.Subscription) error {
	return r.update(db, userID, map[string]interface{}{"subscription": subscription})
}

func (r *userRepository) UpdateAvatar(db *gorm.DB, userID, avatarURL string) error {
	return r.update(db, userID, map[string]interface{}{"avatar_url": avatarURL})
}

func (r *userRepository) findOne(db *gorm.DB, query string, args ...interface{}) (*models.User, error) {
	var user models.User
	if err := db.Where(query, args...).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// updated_at выставляется при каждом login, поэтому служит верхней оценкой времени выдачи токена
func (r *userRepository) ClearExpiredSessions(db *gorm.DB, issuedBefore time.Time) (int64, error) {
	result := db.Model(&models.User{}).
		Where("token IS NOT NULL AND updated_at < ?", issuedBefore).
		Updates(map[string]interface{}{"token": nil})
	return result.RowsAffected, result.Error
}

func (r *userRepository) update(db *gorm.DB, userID string, fields map[string]interface{}) error {
	result := db.Model(&models.User{}).Where("id = ?", userID).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	// MySQL не считает строку затронутой, если значения не изменились
	var count int64
	if err := db.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrUserNotFound
	}
	return nil
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate")
}
