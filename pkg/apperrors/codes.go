package apperrors

// ErrorCode - тип для кодов ошибок
type ErrorCode string

const (
	// Системные ошибки
	CodeInternalError        ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError        ErrorCode = "DATABASE_ERROR"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"

	// Общие ошибки бизнес-логики
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeAlreadyExists    ErrorCode = "ALREADY_EXISTS"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeLimitExceeded    ErrorCode = "LIMIT_EXCEEDED"
	CodeRateLimited      ErrorCode = "RATE_LIMITED"

	// Аутентификация и состояние пользователя
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	CodeUserNotVerified    ErrorCode = "USER_NOT_VERIFIED"
	CodeAlreadyVerified    ErrorCode = "ALREADY_VERIFIED"
)
