package services

import (
	"context"
	"errors"
	"net/http"

	"contacts_backend/internal/logger"
	"contacts_backend/internal/models"
	"contacts_backend/internal/repositories"
	"contacts_backend/internal/services/dto"
	"contacts_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// ContactService - все операции ограничены контактами владельца сессии
type ContactService interface {
	List(ctx context.Context, db *gorm.DB, owner string, query dto.ContactListQuery) (*dto.ContactListResponse, error)
	Get(ctx context.Context, db *gorm.DB, owner, id string) (*models.Contact, error)
	Create(ctx context.Context, db *gorm.DB, owner string, req *dto.ContactRequest) (*models.Contact, error)
	Replace(ctx context.Context, db *gorm.DB, owner, id string, req *dto.ContactRequest) (*models.Contact, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, owner, id string, req *dto.ContactPatchRequest) (*models.Contact, error)
	Delete(ctx context.Context, db *gorm.DB, owner, id string) error
}

type ContactServiceImpl struct {
	contactRepo repositories.ContactRepository
}

func NewContactService(contactRepo repositories.ContactRepository) ContactService {
	return &ContactServiceImpl{contactRepo: contactRepo}
}

func (s *ContactServiceImpl) List(ctx context.Context, db *gorm.DB, owner string, query dto.ContactListQuery) (*dto.ContactListResponse, error) {
	filter := repositories.ContactFilter{
		Page:     query.Page,
		Limit:    query.Limit,
		Favorite: query.Favorite,
	}.Normalize()

	contacts, total, err := s.contactRepo.List(db, owner, filter)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if contacts == nil {
		contacts = []models.Contact{}
	}

	return &dto.ContactListResponse{
		Status: http.StatusOK,
		Data:   dto.ContactsData{Contacts: contacts},
		Pagination: dto.Pagination{
			Page:  filter.Page,
			Limit: filter.Limit,
			Total: total,
		},
	}, nil
}

func (s *ContactServiceImpl) Get(ctx context.Context, db *gorm.DB, owner, id string) (*models.Contact, error) {
	contact, err := s.contactRepo.FindByID(db, owner, id)
	if err != nil {
		return nil, contactError(err)
	}
	return contact, nil
}

func (s *ContactServiceImpl) Create(ctx context.Context, db *gorm.DB, owner string, req *dto.ContactRequest) (*models.Contact, error) {
	contact := &models.Contact{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Owner: owner,
	}
	if req.Favorite != nil {
		contact.Favorite = *req.Favorite
	}

	if err := s.contactRepo.Create(db, contact); err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Contact created", "contact_id", contact.ID)
	return contact, nil
}

// Replace перезаписывает содержательные поля; владелец не меняется
func (s *ContactServiceImpl) Replace(ctx context.Context, db *gorm.DB, owner, id string, req *dto.ContactRequest) (*models.Contact, error) {
	fields := map[string]interface{}{
		"name":  req.Name,
		"email": req.Email,
		"phone": req.Phone,
	}
	if req.Favorite != nil {
		fields["favorite"] = *req.Favorite
	}

	contact, err := s.contactRepo.Update(db, owner, id, fields)
	if err != nil {
		return nil, contactError(err)
	}
	return contact, nil
}

func (s *ContactServiceImpl) UpdateStatus(ctx context.Context, db *gorm.DB, owner, id string, req *dto.ContactPatchRequest) (*models.Contact, error) {
	fields := req.Fields()
	if len(fields) == 0 {
		return nil, apperrors.ErrEmptyUpdate
	}

	contact, err := s.contactRepo.Update(db, owner, id, fields)
	if err != nil {
		return nil, contactError(err)
	}
	return contact, nil
}

func (s *ContactServiceImpl) Delete(ctx context.Context, db *gorm.DB, owner, id string) error {
	if err := s.contactRepo.Delete(db, owner, id); err != nil {
		return contactError(err)
	}
	logger.CtxInfo(ctx, "Contact deleted", "contact_id", id)
	return nil
}

// чужой и несуществующий контакт неразличимы снаружи
func contactError(err error) error {
	if errors.Is(err, repositories.ErrContactNotFound) {
		return apperrors.ErrContactNotFound
	}
	return apperrors.InternalError(err)
}
