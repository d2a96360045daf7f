package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"fitness-tracker/internal/handler/response"
	jwtsvc "fitness-tracker/pkg/jwt"
)

const (
	ContextUserIDKey    = "userID"
	ContextUserNameKey  = "userName"
	ContextUserRolesKey = "userRoles"
)

// Authenticate возвращает глобальный middleware аутентификации по JWT.
// Без заголовка Authorization запрос считается анонимным и идёт дальше;
// заголовок с невалидным токеном сразу даёт 401.
func Authenticate(jwtService jwtsvc.Service, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			log.Debug("invalid Authorization header format", zap.String("path", c.Request.URL.Path))
			unauthenticated(c)
			return
		}

		claims, err := jwtService.ParseToken(strings.TrimSpace(parts[1]))
		if err != nil {
			log.Debug("invalid token", zap.String("path", c.Request.URL.Path), zap.Error(err))
			unauthenticated(c)
			return
		}

		// Сохраняем данные пользователя в контексте Gin
		c.Set(ContextUserIDKey, claims.Subject)
		c.Set(ContextUserNameKey, claims.Name)
		c.Set(ContextUserRolesKey, claims.Roles)

		c.Next()
	}
}

// RequireAuth пропускает только аутентифицированные запросы.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserID(c); !ok {
			unauthenticated(c)
			return
		}
		c.Next()
	}
}

// RequireRole проверяет, что у пользователя есть хотя бы одна из разрешённых ролей.
// Анонимный запрос получает 401, аутентифицированный без роли - 403.
func RequireRole(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserID(c); !ok {
			unauthenticated(c)
			return
		}
		if !HasAnyRole(c, allowedRoles...) {
			forbidden(c)
			return
		}
		c.Next()
	}
}

// RequireSelfOrRole разрешает доступ, если subject совпадает с параметром пути param,
// либо у пользователя есть одна из ролей.
func RequireSelfOrRole(param string, allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		subject, ok := UserID(c)
		if !ok {
			unauthenticated(c)
			return
		}
		if target, err := uuid.Parse(c.Param(param)); err == nil && target == subject {
			c.Next()
			return
		}
		if !HasAnyRole(c, allowedRoles...) {
			forbidden(c)
			return
		}
		c.Next()
	}
}

// UserID извлекает идентификатор аутентифицированного пользователя.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	idStr := c.GetString(ContextUserIDKey)
	if idStr == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// Roles возвращает роли из токена.
func Roles(c *gin.Context) []string {
	return c.GetStringSlice(ContextUserRolesKey)
}

// HasAnyRole сравнивает роли без учёта регистра.
func HasAnyRole(c *gin.Context, allowedRoles ...string) bool {
	for _, have := range Roles(c) {
		for _, want := range allowedRoles {
			if want != "" && strings.EqualFold(have, want) {
				return true
			}
		}
	}
	return false
}

func unauthenticated(c *gin.Context) {
	response.Error(c, http.StatusUnauthorized, "unauthenticated", "Требуется аутентификация", nil)
}

func forbidden(c *gin.Context) {
	response.Error(c, http.StatusForbidden, "forbidden", "Недостаточно прав для доступа к ресурсу", nil)
}
