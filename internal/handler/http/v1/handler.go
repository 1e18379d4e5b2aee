package v1

import (
	"errors"
	"net/http"

	"github.com/citywatch/incident_reporting_system/internal/config"
	"github.com/citywatch/incident_reporting_system/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	incidentService service.IncidentService
	userService     service.UserService
	logger          *logrus.Logger
	validate        *validator.Validate
	cfg             *config.Config
}

func NewHandler(incidentService service.IncidentService, userService service.UserService, logger *logrus.Logger, cfg *config.Config) *Handler {
	return &Handler{
		incidentService: incidentService,
		userService:     userService,
		logger:          logger,
		validate:        validator.New(),
		cfg:             cfg,
	}
}

// respondServiceError транслирует ошибку сервисного слоя в HTTP статус:
// валидация - 400, неверные учетные данные - 401, запрет - 403,
// отсутствие - 404, остальное - 500 с общим сообщением.
func (h *Handler) respondServiceError(c *gin.Context, log *logrus.Entry, err error) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{vErr.Field: vErr.Message}})
	case errors.Is(err, service.ErrInvalidCredentials):
		log.WithError(err).Warn("Invalid credentials")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, service.ErrAccountDisabled):
		log.WithError(err).Warn("Account is disabled")
		c.JSON(http.StatusForbidden, gin.H{"error": "account is disabled"})
	case errors.Is(err, service.ErrForbidden):
		log.WithError(err).Warn("Forbidden")
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, service.ErrNotFound):
		log.WithError(err).Warn("Not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		log.WithError(err).Error("Unexpected service error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// @Summary Get application health status
// @Description Get health status of the application
// @Tags System
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Status OK"
// @Router /system/health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
