package apperrors

import "net/http"

// --- Auth & User Status ---

// ErrEmailInUse - email уже зарегистрирован.
var ErrEmailInUse = New(
	CodeAlreadyExists,
	"auth",
	"Email in use",
	http.StatusConflict,
)

// ErrUserEmailNotFound - логин с email, которого нет в базе.
// Отдается как 401, чтобы не отличаться по статусу от неверного пароля.
var ErrUserEmailNotFound = New(
	CodeNotFound,
	"auth",
	"User with this email doesn't exist",
	http.StatusUnauthorized,
)

// ErrUserNotVerified - email не подтвержден, проверяется до пароля.
var ErrUserNotVerified = New(
	CodeUserNotVerified,
	"auth",
	"User is not verified",
	http.StatusUnauthorized,
)

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Password is wrong",
	http.StatusUnauthorized,
)

// ErrNotAuthorized - общий ответ Auth Gate на любой невалидный bearer.
var ErrNotAuthorized = New(
	CodeUnauthorized,
	"auth",
	"Not authorized",
	http.StatusUnauthorized,
)

var ErrUserNotFound = New(
	CodeNotFound,
	"user",
	"User not found",
	http.StatusNotFound,
)

var ErrAlreadyVerified = New(
	CodeAlreadyVerified,
	"user",
	"Verification has already been passed",
	http.StatusBadRequest,
)

var ErrMissingEmail = New(
	CodeValidationFailed,
	"validation",
	"missing required field email",
	http.StatusBadRequest,
)

var ErrInvalidSubscription = New(
	CodeValidationFailed,
	"validation",
	"Invalid subscription type",
	http.StatusBadRequest,
)

// --- Contacts ---

var ErrContactNotFound = New(
	CodeNotFound,
	"contact",
	"Not found",
	http.StatusNotFound,
)

var ErrEmptyUpdate = New(
	CodeValidationFailed,
	"validation",
	"missing fields",
	http.StatusBadRequest,
)

// --- Uploads ---

var ErrFileRequired = New(
	CodeValidationFailed,
	"validation",
	"File is required (field 'avatar')",
	http.StatusBadRequest,
)

var ErrFileTooLarge = New(
	CodeLimitExceeded,
	"validation",
	"File size exceeds the allowed limit",
	http.StatusRequestEntityTooLarge,
)

var ErrInvalidFileType = New(
	CodeValidationFailed,
	"validation",
	"The provided file type is not allowed",
	http.StatusUnsupportedMediaType,
)

// --- Transport ---

var ErrRateLimited = New(
	CodeRateLimited,
	"request",
	"Too many requests",
	http.StatusTooManyRequests,
)

var ErrRouteNotFound = New(
	CodeNotFound,
	"request",
	"Not found",
	http.StatusNotFound,
)
