package dto

import "contacts_backend/internal/models"

// ContactRequest - тело создания и полной замены контакта.
// owner обязателен по схеме, но владелец всегда берется из сессии.
type ContactRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email,email_tld"`
	Phone    int64  `json:"phone" validate:"required,gt=0"`
	Favorite *bool  `json:"favorite"`
	Owner    string `json:"owner" validate:"required,alphanum"`
}

// ContactPatchRequest - частичное обновление, нужно хотя бы одно поле
type ContactPatchRequest struct {
	Name     *string `json:"name" validate:"omitnil,min=1"`
	Email    *string `json:"email" validate:"omitnil,email,email_tld"`
	Phone    *int64  `json:"phone" validate:"omitnil,gt=0"`
	Favorite *bool   `json:"favorite"`
}

// Fields возвращает переданные поля как колонки БД
func (r *ContactPatchRequest) Fields() map[string]interface{} {
	fields := make(map[string]interface{})
	if r.Name != nil {
		fields["name"] = *r.Name
	}
	if r.Email != nil {
		fields["email"] = *r.Email
	}
	if r.Phone != nil {
		fields["phone"] = *r.Phone
	}
	if r.Favorite != nil {
		fields["favorite"] = *r.Favorite
	}
	return fields
}

// ContactListQuery - разобранные параметры списка
type ContactListQuery struct {
	Page     int
	Limit    int
	Favorite *bool
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

type ContactsData struct {
	Contacts []models.Contact `json:"contacts"`
}

type ContactListResponse struct {
	Status     int          `json:"status"`
	Data       ContactsData `json:"data"`
	Pagination Pagination   `json:"pagination"`
}
