package v1

import (
	"net/http"
	"strings"

	"github.com/citywatch/incident_reporting_system/internal/auth"
	"github.com/citywatch/incident_reporting_system/internal/models"
	"github.com/citywatch/incident_reporting_system/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const contextUserKey = "current_user"

// JWTAuthMiddleware - middleware для аутентификации по Bearer токену.
// Пользователь загружается из бд и кладется в контекст запроса,
// хэндлеры передают его в сервисы явным параметром.
func JWTAuthMiddleware(tokens auth.TokenManager, users service.UserService, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization token is required"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header format must be Bearer {token}"})
			return
		}

		claims, err := tokens.ValidateAccessToken(parts[1])
		if err != nil {
			log.WithError(err).Warn("Invalid access token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		user, err := users.CurrentUser(c.Request.Context(), claims.UserID)
		if err != nil {
			log.WithError(err).Warn("Token references unknown user")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		if !user.IsActive {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "account is disabled"})
			return
		}

		c.Set(contextUserKey, user)
		c.Next()
	}
}

// currentUser возвращает аутентифицированного пользователя из контекста запроса
func currentUser(c *gin.Context) *models.User {
	value, exists := c.Get(contextUserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}
