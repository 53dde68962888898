package repositories

import (
	"errors"

	"contacts_backend/internal/models"

	"gorm.io/gorm"
)

var ErrContactNotFound = errors.New("contact not found")

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// ContactFilter - параметры выборки контактов владельца
type ContactFilter struct {
	Page     int
	Limit    int
	Favorite *bool
}

// Normalize подставляет значения по умолчанию вместо невалидных
func (f ContactFilter) Normalize() ContactFilter {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	return f
}

func (f ContactFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// ContactRepository - Resource Store. Каждый метод принимает owner:
// запрос без владельца построить нельзя.
type ContactRepository interface {
	Create(db *gorm.DB, contact *models.Contact) error
	List(db *gorm.DB, owner string, filter ContactFilter) ([]models.Contact, int64, error)
	FindByID(db *gorm.DB, owner, id string) (*models.Contact, error)
	Update(db *gorm.DB, owner, id string, fields map[string]interface{}) (*models.Contact, error)
	Delete(db *gorm.DB, owner, id string) error
}

type contactRepository struct{}

func NewContactRepository() ContactRepository {
	return &contactRepository{}
}

// ownedBy - единственная точка, где строится условие на владельца
func ownedBy(db *gorm.DB, owner string) *gorm.DB {
	return db.Model(&models.Contact{}).Where("owner = ?", owner)
}

func (r *contactRepository) Create(db *gorm.DB, contact *models.Contact) error {
	return db.Create(contact).Error
}

func (r *contactRepository) List(db *gorm.DB, owner string, filter ContactFilter) ([]models.Contact, int64, error) {
	filter = filter.Normalize()

	scoped := func() *gorm.DB {
		query := ownedBy(db, owner)
		if filter.Favorite != nil {
			query = query.Where("favorite = ?", *filter.Favorite)
		}
		return query
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	contacts := make([]models.Contact, 0, filter.Limit)
	err := scoped().
		Order("created_at ASC").
		Order("id ASC").
		Offset(filter.Offset()).
		Limit(filter.Limit).
		Find(&contacts).Error
	if err != nil {
		return nil, 0, err
	}

	return contacts, total, nil
}

func (r *contactRepository) FindByID(db *gorm.DB, owner, id string) (*models.Contact, error) {
	var contact models.Contact
	if err := ownedBy(db, owner).Where("id = ?", id).First(&contact).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}
	return &contact, nil
}

// Update меняет только переданные поля и возвращает актуальную запись
func (r *contactRepository) Update(db *gorm.DB, owner, id string, fields map[string]interface{}) (*models.Contact, error) {
	contact, err := r.FindByID(db, owner, id)
	if err != nil {
		return nil, err
	}

	if err := ownedBy(db, owner).Where("id = ?", id).Updates(fields).Error; err != nil {
		return nil, err
	}

	if err := ownedBy(db, owner).Where("id = ?", id).First(contact).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, err
	}
	return contact, nil
}

func (r *contactRepository) Delete(db *gorm.DB, owner, id string) error {
	result := ownedBy(db, owner).Where("id = ?", id).Delete(&models.Contact{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrContactNotFound
	}
	return nil
}
