package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API v1.
// authMW - middleware аутентификации по Bearer токену; админские
// проверки выполняются в сервисном слое по явной личности вызывающего.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup, authMW gin.HandlerFunc) {
	// Выпуск и обновление токенов
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.register)
		authGroup.POST("/login", h.login)
		authGroup.POST("/token/refresh", h.refreshTokens)
		authGroup.POST("/biometric-login", h.biometricLogin)
		authGroup.POST("/register-biometric", authMW, h.registerBiometric)
	}

	// Маршруты для управления инцидентами
	incidents := api.Group("/incidents", authMW)
	{
		incidents.POST("", h.createIncident)
		incidents.GET("", h.listOwnIncidents)
		incidents.GET("/all", h.listAllIncidents)
		incidents.GET("/:id", h.getIncident)
		incidents.PUT("/:id", h.updateIncident)
		incidents.DELETE("/:id", h.deleteIncident)
		incidents.POST("/offline", h.queueOfflineIncident)
		incidents.POST("/sync", h.syncIncidents)
		incidents.GET("/stats", h.getIncidentStats)
	}

	// Маршруты для управления пользователями
	users := api.Group("/users", authMW)
	{
		users.GET("", h.listUsers)
		users.GET("/me", h.getCurrentUser)
		users.GET("/stats", h.getUserStats)
		users.GET("/:id", h.getUser)
		users.PUT("/:id", h.updateUser)
		users.DELETE("/:id", h.deleteUser)
		users.PATCH("/:id/toggle-status", h.toggleUserStatus)
	}

	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)
}
