package middleware

import (
	"errors"
	"strings"

	"contacts_backend/internal/logger"
	"contacts_backend/internal/services"
	"contacts_backend/pkg/apperrors"
	"contacts_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware - Auth Gate: Bearer JWT, живой пользователь и совпадение
// с сохраненной сессией. Любой отказ отдается одинаковым 401.
func AuthMiddleware(authService services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			logger.CtxDebug(ctx, "Missing or malformed Authorization header", "path", c.Request.URL.Path)
			apperrors.HandleError(c, apperrors.ErrNotAuthorized)
			return
		}

		db, ok := dbFromContext(c)
		if !ok {
			apperrors.HandleError(c, apperrors.InternalError(errors.New("auth middleware: db not found in context")))
			return
		}

		user, err := authService.Authenticate(ctx, db.WithContext(ctx), token)
		if err != nil {
			if appErr, isApp := apperrors.AsAppError(err); isApp && appErr.HTTPCode < 500 {
				logger.CtxDebug(ctx, "Token rejected", "reason", err.Error())
				apperrors.HandleError(c, apperrors.ErrNotAuthorized)
				return
			}
			apperrors.HandleError(c, err)
			return
		}

		c.Set(contextkeys.UserIDKey, user.ID)
		c.Set(contextkeys.UserKey, user)
		c.Request = c.Request.WithContext(logger.WithUserID(ctx, user.ID))
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
