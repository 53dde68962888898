package handlers

import (
	"net/http"

	"contacts_backend/internal/repositories"
	"contacts_backend/internal/services"
	"contacts_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	*BaseHandler
	contactService services.ContactService
}

func NewContactHandler(base *BaseHandler, contactService services.ContactService) *ContactHandler {
	return &ContactHandler{
		BaseHandler:    base,
		contactService: contactService,
	}
}

// RegisterRoutes - все маршруты /contacts требуют авторизации
func (h *ContactHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	contacts := rg.Group("/contacts")
	contacts.Use(authMiddleware)
	{
		contacts.GET("", h.ListContacts)
		contacts.POST("", h.CreateContact)
		contacts.GET("/:contactId", h.GetContact)
		contacts.PUT("/:contactId", h.ReplaceContact)
		contacts.PATCH("/:contactId/status", h.UpdateContactStatus)
		contacts.DELETE("/:contactId", h.DeleteContact)
	}
}

// ListContacts godoc
// @Summary Список контактов
// @Description Контакты текущего пользователя постранично, с фильтром по избранному
// @Tags contacts
// @Produce json
// @Security BearerAuth
// @Param page query int false "Страница (по умолчанию 1)"
// @Param limit query int false "Размер страницы (по умолчанию 20, максимум 100)"
// @Param favorite query bool false "Только избранные / только обычные"
// @Success 200 {object} dto.ContactListResponse
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 401 {object} apperrors.ErrorResponse
// @Router /api/contacts [get]
func (h *ContactHandler) ListContacts(c *gin.Context) {
	owner, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	favorite, err := ParseQueryBool(c, "favorite")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	query := dto.ContactListQuery{
		Page:     ParseQueryInt(c, "page", repositories.DefaultPage),
		Limit:    ParseQueryInt(c, "limit", repositories.DefaultLimit),
		Favorite: favorite,
	}

	resp, err := h.contactService.List(c.Request.Context(), h.GetDB(c), owner, query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetContact godoc
// @Summary Контакт по ID
// @Tags contacts
// @Produce json
// @Security BearerAuth
// @Param contactId path string true "ID контакта"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /api/contacts/{contactId} [get]
func (h *ContactHandler) GetContact(c *gin.Context) {
	owner, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	contact, err := h.contactService.Get(c.Request.Context(), h.GetDB(c), owner, c.Param("contactId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "data": gin.H{"contact": contact}})
}

// CreateContact godoc
// @Summary Создание контакта
// @Tags contacts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ContactRequest true "Контакт"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 401 {object} apperrors.ErrorResponse
// @Router /api/contacts [post]
func (h *ContactHandler) CreateContact(c *gin.Context) {
	owner, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ContactRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	contact, err := h.contactService.Create(c.Request.Context(), h.GetDB(c), owner, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": http.StatusCreated, "data": gin.H{"newContact": contact}})
}

// ReplaceContact godoc
// @Summary Полная замена контакта
// @Tags contacts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param contactId path string true "ID контакта"
// @Param request body dto.ContactRequest true "Контакт"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 401 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /api/contacts/{contactId} [put]
func (h *ContactHandler) ReplaceContact(c *gin.Context) {
	owner, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ContactRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	contact, err := h.contactService.Replace(c.Request.Context(), h.GetDB(c), owner, c.Param("contactId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "data": gin.H{"newContact": contact}})
}

// UpdateContactStatus godoc
// @Summary Частичное обновление контакта
// @Tags contacts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param contactId path string true "ID контакта"
// @Param request body dto.ContactPatchRequest true "Любые поля контакта"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} apperrors.ErrorResponse "missing fields"
// @Failure 401 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /api/contacts/{contactId}/status [patch]
func (h *ContactHandler) UpdateContactStatus(c *gin.Context) {
	owner, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ContactPatchRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	contact, err := h.contactService.UpdateStatus(c.Request.Context(), h.GetDB(c), owner, c.Param("contactId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "data": gin.H{"updatedContact": contact}})
}

// DeleteContact godoc
// @Summary Удаление контакта
// @Tags contacts
// @Produce json
// @Security BearerAuth
// @Param contactId path string true "ID контакта"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /api/contacts/{contactId} [delete]
func (h *ContactHandler) DeleteContact(c *gin.Context) {
	owner, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.contactService.Delete(c.Request.Context(), h.GetDB(c), owner, c.Param("contactId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "message": "Contact deleted"})
}
