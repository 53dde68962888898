package dto

// SignupRequest - запрос регистрации
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email,email_tld"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest - запрос входа
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,email_tld"`
	Password string `json:"password" validate:"required"`
}

// ResendVerificationRequest - повторная отправка письма.
// Отсутствие email сервис отдает отдельным сообщением.
type ResendVerificationRequest struct {
	Email string `json:"email" validate:"omitempty,email"`
}

type UpdateSubscriptionRequest struct {
	Subscription string `json:"subscription"`
}

// UserResponse - публичное представление пользователя
type UserResponse struct {
	Email        string `json:"email"`
	Subscription string `json:"subscription"`
}

type CurrentUserResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Subscription string `json:"subscription"`
	AvatarURL    string `json:"avatarURL"`
}

type SignupResponse struct {
	Status int          `json:"status"`
	User   UserResponse `json:"user"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type AvatarResponse struct {
	Status    int    `json:"status"`
	AvatarURL string `json:"avatarURL"`
}
