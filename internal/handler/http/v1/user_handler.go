package v1

import (
	"encoding/base64"
	"net/http"
	"strconv"

	"github.com/citywatch/incident_reporting_system/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// @Summary Register a new user
// @Description Public citizen registration. Returns the created user and a token pair.
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "Registration request"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} map[string]string "Invalid request body or validation error"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /auth/register [post]
func (h *Handler) register(c *gin.Context) {
	log := h.logger.WithField("method", "register")

	var input RegisterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var faceEmbedding []byte
	if input.FaceEmbedding != "" {
		decoded, err := base64.StdEncoding.DecodeString(input.FaceEmbedding)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"face_embedding": "must be valid base64"}})
			return
		}
		faceEmbedding = decoded
	}

	user, pair, err := h.userService.Register(c.Request.Context(), service.RegisterInput{
		Username:       input.Username,
		Email:          input.Email,
		Password:       input.Password,
		PhoneNumber:    input.PhoneNumber,
		ProfilePicture: input.ProfilePicture,
		FaceEmbedding:  faceEmbedding,
	})
	if err != nil {
		h.respondServiceError(c, log, err)
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{
		Status: "success",
		User:   ModelToUserResponse(user),
		Tokens: TokenResponse{Access: pair.AccessToken, Refresh: pair.RefreshToken},
	})
}

// @Summary Log in with username and password
// @Description Issue a token pair for valid credentials. Disabled accounts get 403.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login request"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Failure 403 {object} map[string]string "Account disabled"
// @Router /auth/login [post]
func (h *Handler) login(c *gin.Context) {
	log := h.logger.WithField("method", "login")

	var input LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, pair, err := h.userService.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		h.respondServiceError(c, log, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Status: "success",
		User:   ModelToUserResponse(user),
		Tokens: TokenResponse{Access: pair.AccessToken, Refresh: pair.RefreshToken},
	})
}

// @Summary Refresh token pair
// @Description Issue a new access/refresh pair from a valid refresh token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param token body RefreshRequest true "Refresh request"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Invalid refresh token"
// @Router /auth/token/refresh [post]
func (h *Handler) refreshTokens(c *gin.Context) {
	log := h.logger.WithField("method", "refreshTokens")

	var input RefreshRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pair, err := h.userService.RefreshTokens(c.Request.Context(), input.Refresh)
	if err != nil {
		h.respondServiceError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, TokenResponse{Access: pair.AccessToken, Refresh: pair.RefreshToken})
}

// @Summary Log in with a biometric token
// @Description Issue a token pair for a valid biometric token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body BiometricLoginRequest true "Biometric login request"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Invalid biometric token"
// @Failure 404 {object} map[string]string "User not found"
// @Router /auth/biometric-login [post]
func (h *Handler) biometricLogin(c *gin.Context) {
	log := h.logger.WithField("method", "biometricLogin")

	var input BiometricLoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, pair, err := h.userService.BiometricLogin(c.Request.Context(), input.Username, input.BiometricToken)
	if err != nil {
		h.respondServiceError(c, log, err)
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Status: "success",
		User:   ModelToUserResponse(user),
		Tokens: TokenResponse{Access: pair.AccessToken, Refresh: pair.RefreshToken},
	})
}

// @Summary Register a biometric token
// @Description Hash and store a biometric token for the caller.
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param token body RegisterBiometricRequest true "Biometric registration request"
// @Success 200 {object} map[string]string "Status success"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /auth/register-biometric [post]
func (h *Handler) registerBiometric(c *gin.Context) {
	caller := currentUser(c)
	log := h.logger.WithField("method", "registerBiometric")

	var input RegisterBiometricRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.userService.RegisterBiometric(c.Request.Context(), caller, input.BiometricToken); err != nil {
		h.respondServiceError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// @Summary Get current user
// @Description Profile of the authenticated caller.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /users/me [get]
func (h *Handler) getCurrentUser(c *gin.Context) {
	c.JSON(http.StatusOK, ModelToUserResponse(currentUser(c)))
}

// @Summary List users
// @Description Paginated user list, newest first. Admin only.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Number of items per page" default(10)
// @Success 200 {array} UserResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Router /users [get]
func (h *Handler) listUsers(c *gin.Context) {
	caller := currentUser(c)
	log := h.logger.WithField("method", "listUsers")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "10"))

	users, err := h.userService.ListUsers(c.Request.Context(), caller, page, pageSize)
	if err != nil {
		h.respondServiceError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelsToUserResponses(users))
}

// @Summary Get user by ID
// @Description Profile details. Available to the user themselves or an administrator.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} UserResponse
// @Failure 400 {object} map[string]string "Invalid user ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "User not found"
// @Router /users/{id} [get]
func (h *Handler) getUser(c *gin.Context) {
	caller := currentUser(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}
	log := h.logger.WithField("method", "getUser").WithField("id", id)

	user, err := h.userService.GetUser(c.Request.Context(), caller, id)
	if err != nil {
		h.respondServiceError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToUserResponse(user))
}

// @Summary Update user
// @Description Update profile fields. Role changes are admin only. A replaced profile picture is scheduled for cleanup.
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param user body UpdateUserRequest true "User update request"
// @Success 200 {object} UserResponse
// @Failure 400 {object} map[string]string "Invalid user ID or request body"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "User not found"
// @Router /users/{id} [put]
func (h *Handler) updateUser(c *gin.Context) {
	caller := currentUser(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}
	log := h.logger.WithField("method", "updateUser").WithField("id", id)

	var input UpdateUserRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		log.WithError(err).Warn("Failed to bind JSON")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.validate.Struct(input); err != nil {
		log.WithError(err).Warn("Validation failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), caller, id, service.UpdateUserInput{
		Email:          input.Email,
		PhoneNumber:    input.PhoneNumber,
		ProfilePicture: input.ProfilePicture,
		Role:           input.Role,
	})
	if err != nil {
		h.respondServiceError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToUserResponse(user))
}

// @Summary Delete user
// @Description Delete a user and, by cascade, their incidents. Admin only.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid user ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "User not found"
// @Router /users/{id} [delete]
func (h *Handler) deleteUser(c *gin.Context) {
	caller := currentUser(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}
	log := h.logger.WithField("method", "deleteUser").WithField("id", id)

	if err := h.userService.DeleteUser(c.Request.Context(), caller, id); err != nil {
		h.respondServiceError(c, log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Toggle user active status
// @Description Flip the is_active flag. Admin only, administrators cannot toggle themselves.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} UserResponse
// @Failure 400 {object} map[string]string "Invalid user ID"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 404 {object} map[string]string "User not found"
// @Router /users/{id}/toggle-status [patch]
func (h *Handler) toggleUserStatus(c *gin.Context) {
	caller := currentUser(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}
	log := h.logger.WithField("method", "toggleUserStatus").WithField("id", id)

	user, err := h.userService.ToggleStatus(c.Request.Context(), caller, id)
	if err != nil {
		h.respondServiceError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, ModelToUserResponse(user))
}

// @Summary Get user statistics
// @Description Aggregate user statistics for the admin dashboard. Admin only.
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.UserStats
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Router /users/stats [get]
func (h *Handler) getUserStats(c *gin.Context) {
	caller := currentUser(c)
	log := h.logger.WithField("method", "getUserStats")

	stats, err := h.userService.GetStats(c.Request.Context(), caller)
	if err != nil {
		h.respondServiceError(c, log, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
