package handlers

import (
	"errors"
	"net/http"
	"strings"

	"contacts_backend/internal/logger"
	"contacts_backend/internal/services"
	"contacts_backend/internal/services/dto"
	"contacts_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// запас на заголовки multipart поверх лимита самого файла
const multipartOverhead = 64 << 10

type UserHandler struct {
	*BaseHandler
	authService   services.AuthService
	userService   services.UserService
	uploadService services.UploadService
	maxUploadSize int64
}

func NewUserHandler(
	base *BaseHandler,
	authService services.AuthService,
	userService services.UserService,
	uploadService services.UploadService,
	maxUploadSize int64,
) *UserHandler {
	return &UserHandler{
		BaseHandler:   base,
		authService:   authService,
		userService:   userService,
		uploadService: uploadService,
		maxUploadSize: maxUploadSize,
	}
}

// RegisterRoutes регистрирует маршруты /users.
// limiter ставится только на публичные маршруты, которые шлют письма или проверяют пароль.
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware, limiter gin.HandlerFunc) {
	users := rg.Group("/users")
	{
		users.POST("/signup", limiter, h.Signup)
		users.POST("/login", limiter, h.Login)
		users.POST("/verify", limiter, h.ResendVerification)
		users.GET("/verify/:verificationToken", h.VerifyEmail)
	}

	protected := users.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/logout", h.Logout)
		protected.GET("/current", h.GetCurrent)
		protected.PATCH("", h.UpdateSubscription)
		protected.PATCH("/avatars", h.UpdateAvatar)
	}
}

// Signup godoc
// @Summary Регистрация пользователя
// @Description Создает пользователя и отправляет письмо для подтверждения email
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.SignupRequest true "Email и пароль"
// @Success 201 {object} dto.SignupResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 409 {object} apperrors.ErrorResponse "Email in use"
// @Router /api/users/signup [post]
func (h *UserHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.Signup(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login godoc
// @Summary Вход
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Email и пароль"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 401 {object} apperrors.ErrorResponse
// @Router /api/users/login [post]
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Logout godoc
// @Summary Выход
// @Tags users
// @Security BearerAuth
// @Success 204 "No Content"
// @Failure 401 {object} apperrors.ErrorResponse
// @Router /api/users/logout [get]
func (h *UserHandler) Logout(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.authService.Logout(c.Request.Context(), h.GetDB(c), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GetCurrent godoc
// @Summary Текущий пользователь
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.CurrentUserResponse
// @Failure 401 {object} apperrors.ErrorResponse
// @Router /api/users/current [get]
func (h *UserHandler) GetCurrent(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetCurrent(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "user": user})
}

// UpdateSubscription godoc
// @Summary Смена тарифа
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateSubscriptionRequest true "starter, pro или business"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} apperrors.ErrorResponse "Invalid subscription type"
// @Failure 401 {object} apperrors.ErrorResponse
// @Router /api/users [patch]
func (h *UserHandler) UpdateSubscription(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// тело без валидного тарифа - та же ошибка, что и неизвестный тариф
		h.HandleServiceError(c, apperrors.ErrInvalidSubscription.WithError(err))
		return
	}

	user, err := h.userService.UpdateSubscription(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "user": user})
}

// UpdateAvatar godoc
// @Summary Загрузка аватара
// @Description Картинка обрезается до квадрата 250x250 и сохраняется в JPEG
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param avatar formData file true "jpeg, png или gif"
// @Success 200 {object} dto.AvatarResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 401 {object} apperrors.ErrorResponse
// @Failure 413 {object} apperrors.ErrorResponse
// @Failure 415 {object} apperrors.ErrorResponse
// @Router /api/users/avatars [patch]
func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize+multipartOverhead)

	file, err := c.FormFile("avatar")
	if err != nil {
		logger.CtxDebug(c.Request.Context(), "Avatar form rejected", "error", err)
		h.HandleServiceError(c, formFileError(err))
		return
	}

	resp, err := h.uploadService.UploadAvatar(c.Request.Context(), h.GetDB(c), userID, file)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// VerifyEmail godoc
// @Summary Подтверждение email
// @Tags users
// @Produce json
// @Param verificationToken path string true "Токен из письма"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} apperrors.ErrorResponse "User not found"
// @Router /api/users/verify/{verificationToken} [get]
func (h *UserHandler) VerifyEmail(c *gin.Context) {
	token := c.Param("verificationToken")

	if err := h.authService.VerifyEmail(c.Request.Context(), h.GetDB(c), token); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "message": "Verification successful"})
}

// ResendVerification godoc
// @Summary Повторная отправка письма подтверждения
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.ResendVerificationRequest true "Email"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse "User not found"
// @Router /api/users/verify [post]
func (h *UserHandler) ResendVerification(c *gin.Context) {
	var req dto.ResendVerificationRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.authService.ResendVerification(c.Request.Context(), h.GetDB(c), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "message": "Verification email sent"})
}

func formFileError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
		return apperrors.ErrFileTooLarge.WithError(err)
	}
	return apperrors.ErrFileRequired.WithError(err)
}
