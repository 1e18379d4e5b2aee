package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/citywatch/incident_reporting_system/internal/auth"
	"github.com/citywatch/incident_reporting_system/internal/media"
	"github.com/citywatch/incident_reporting_system/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// UserRepository определяет контракт для работы с бд пользователей
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, page, pageSize int) ([]*models.User, error)
	SetBiometricToken(ctx context.Context, id uuid.UUID, hash string) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
	GetStats(ctx context.Context, windowDays int) (*models.UserStats, error)
}

// RegisterInput - данные публичной регистрации. Роль всегда citizen.
type RegisterInput struct {
	Username       string
	Email          string
	Password       string
	PhoneNumber    string
	ProfilePicture string
	FaceEmbedding  []byte
}

// UpdateUserInput - данные обновления профиля. Nil-поля не меняются.
type UpdateUserInput struct {
	Email          *string
	PhoneNumber    *string
	ProfilePicture *string
	Role           *string
}

// UserService определяет контракт управления пользователями и аутентификации.
// Личность вызывающего передается явным параметром, глобального
// "текущего пользователя" в сервисном слое нет.
type UserService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, *auth.TokenPair, error)
	Login(ctx context.Context, username, password string) (*models.User, *auth.TokenPair, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*auth.TokenPair, error)
	BiometricLogin(ctx context.Context, username, rawToken string) (*models.User, *auth.TokenPair, error)
	RegisterBiometric(ctx context.Context, caller *models.User, rawToken string) error
	CurrentUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUser(ctx context.Context, caller *models.User, id uuid.UUID) (*models.User, error)
	ListUsers(ctx context.Context, caller *models.User, page, pageSize int) ([]*models.User, error)
	UpdateUser(ctx context.Context, caller *models.User, id uuid.UUID, input UpdateUserInput) (*models.User, error)
	DeleteUser(ctx context.Context, caller *models.User, id uuid.UUID) error
	ToggleStatus(ctx context.Context, caller *models.User, id uuid.UUID) (*models.User, error)
	GetStats(ctx context.Context, caller *models.User) (*models.UserStats, error)
}

type userService struct {
	repo    UserRepository
	logger  *logrus.Logger
	hasher  auth.Hasher
	tokens  auth.TokenManager
	cleaner media.Cleaner
}

func NewUserService(repo UserRepository, logger *logrus.Logger, hasher auth.Hasher, tokens auth.TokenManager, cleaner media.Cleaner) UserService {
	return &userService{
		repo:    repo,
		logger:  logger,
		hasher:  hasher,
		tokens:  tokens,
		cleaner: cleaner,
	}
}

// Register создает нового гражданина и выдает пару токенов
func (s *userService) Register(ctx context.Context, input RegisterInput) (*models.User, *auth.TokenPair, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "user",
		"method":   "Register",
		"username": input.Username,
	})
	log.Info("Attempting to register a new user")

	if _, err := s.repo.GetByUsername(ctx, input.Username); err == nil {
		return nil, nil, NewValidationError("username", "username is already taken")
	} else if !errors.Is(err, ErrNotFound) {
		return nil, nil, fmt.Errorf("service: could not check username: %w", err)
	}

	if _, err := s.repo.GetByEmail(ctx, input.Email); err == nil {
		return nil, nil, NewValidationError("email", "a user with this email already exists")
	} else if !errors.Is(err, ErrNotFound) {
		return nil, nil, fmt.Errorf("service: could not check email: %w", err)
	}

	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		log.WithError(err).Error("Failed to hash password")
		return nil, nil, fmt.Errorf("service: could not hash password: %w", err)
	}

	user := &models.User{
		Username:       input.Username,
		Email:          input.Email,
		PasswordHash:   passwordHash,
		Role:           models.RoleCitizen,
		PhoneNumber:    input.PhoneNumber,
		ProfilePicture: input.ProfilePicture,
		FaceEmbedding:  input.FaceEmbedding,
		IsActive:       true,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		log.WithError(err).Error("Failed to create user in repository")
		return nil, nil, fmt.Errorf("service: could not create user: %w", err)
	}

	pair, err := s.tokens.GenerateTokenPair(user.ID, user.Username, user.Role)
	if err != nil {
		log.WithError(err).Error("Failed to generate token pair")
		return nil, nil, fmt.Errorf("service: could not generate tokens: %w", err)
	}

	log.WithField("user_id", user.ID).Info("User registered successfully")
	return user, pair, nil
}

// Login проверяет учетные данные и выдает пару токенов
func (s *userService) Login(ctx context.Context, username, password string) (*models.User, *auth.TokenPair, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "user",
		"method":   "Login",
		"username": username,
	})

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("service: could not get user: %w", err)
	}

	if !s.hasher.Compare(user.PasswordHash, password) {
		log.Warn("Invalid password")
		return nil, nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		log.Warn("Login attempt for disabled account")
		return nil, nil, ErrAccountDisabled
	}

	if err := s.repo.UpdateLastLogin(ctx, user.ID); err != nil {
		log.WithError(err).Warn("Failed to update last login")
	}

	pair, err := s.tokens.GenerateTokenPair(user.ID, user.Username, user.Role)
	if err != nil {
		log.WithError(err).Error("Failed to generate token pair")
		return nil, nil, fmt.Errorf("service: could not generate tokens: %w", err)
	}

	log.WithField("user_id", user.ID).Info("User logged in")
	return user, pair, nil
}

// RefreshTokens выдает новую пару токенов по refresh токену
func (s *userService) RefreshTokens(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	// Убеждаемся, что аккаунт все еще существует и активен
	user, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("service: could not get user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	pair, err := s.tokens.GenerateTokenPair(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("service: could not generate tokens: %w", err)
	}
	return pair, nil
}

// BiometricLogin аутентифицирует по биометрическому токену
func (s *userService) BiometricLogin(ctx context.Context, username, rawToken string) (*models.User, *auth.TokenPair, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "user",
		"method":   "BiometricLogin",
		"username": username,
	})

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("service: could not get user: %w", err)
	}

	if user.BiometricTokenHash == "" || rawToken == "" || !s.hasher.Compare(user.BiometricTokenHash, rawToken) {
		log.Warn("Invalid biometric token")
		return nil, nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, nil, ErrAccountDisabled
	}

	if err := s.repo.UpdateLastLogin(ctx, user.ID); err != nil {
		log.WithError(err).Warn("Failed to update last login")
	}

	pair, err := s.tokens.GenerateTokenPair(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, nil, fmt.Errorf("service: could not generate tokens: %w", err)
	}

	log.WithField("user_id", user.ID).Info("User logged in via biometrics")
	return user, pair, nil
}

// RegisterBiometric хеширует и сохраняет биометрический токен вызывающего
func (s *userService) RegisterBiometric(ctx context.Context, caller *models.User, rawToken string) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "user",
		"method":  "RegisterBiometric",
		"user_id": caller.ID,
	})

	hash, err := s.hasher.Hash(rawToken)
	if err != nil {
		log.WithError(err).Error("Failed to hash biometric token")
		return fmt.Errorf("service: could not hash biometric token: %w", err)
	}

	if err := s.repo.SetBiometricToken(ctx, caller.ID, hash); err != nil {
		log.WithError(err).Error("Failed to store biometric token")
		return fmt.Errorf("service: could not store biometric token: %w", err)
	}

	log.Info("Biometric token registered")
	return nil
}

// CurrentUser загружает пользователя по ID из токена, используется middleware
func (s *userService) CurrentUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: could not get current user: %w", err)
	}
	return user, nil
}

// GetUser возвращает профиль, доступный самому пользователю или администратору
func (s *userService) GetUser(ctx context.Context, caller *models.User, id uuid.UUID) (*models.User, error) {
	if caller.ID != id && !caller.IsAdmin() {
		return nil, ErrForbidden
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: could not get user: %w", err)
	}
	return user, nil
}

// ListUsers возвращает список пользователей, доступно только администратору
func (s *userService) ListUsers(ctx context.Context, caller *models.User, page, pageSize int) ([]*models.User, error) {
	if !caller.IsAdmin() {
		return nil, ErrForbidden
	}
	page, pageSize = normalizePage(page, pageSize)

	users, err := s.repo.List(ctx, page, pageSize)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list users from repository")
		return nil, fmt.Errorf("service: could not list users: %w", err)
	}
	return users, nil
}

// UpdateUser обновляет профиль. Смена роли доступна только администратору.
// Замененная фотография профиля ставится в очередь на удаление.
func (s *userService) UpdateUser(ctx context.Context, caller *models.User, id uuid.UUID, input UpdateUserInput) (*models.User, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "user",
		"method":  "UpdateUser",
		"user_id": id,
	})

	if caller.ID != id && !caller.IsAdmin() {
		return nil, ErrForbidden
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: user %s not found for update: %w", id, err)
	}

	var oldPicture string
	if input.Email != nil && *input.Email != user.Email {
		if existing, err := s.repo.GetByEmail(ctx, *input.Email); err == nil && existing.ID != user.ID {
			return nil, NewValidationError("email", "a user with this email already exists")
		} else if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("service: could not check email: %w", err)
		}
		user.Email = *input.Email
	}
	if input.PhoneNumber != nil {
		user.PhoneNumber = *input.PhoneNumber
	}
	if input.ProfilePicture != nil && *input.ProfilePicture != user.ProfilePicture {
		oldPicture = user.ProfilePicture
		user.ProfilePicture = *input.ProfilePicture
	}
	if input.Role != nil && *input.Role != user.Role {
		if !caller.IsAdmin() {
			return nil, ErrForbidden
		}
		user.Role = *input.Role
	}

	// Роль admin подразумевает активный аккаунт
	if user.Role == models.RoleAdmin {
		user.IsActive = true
	}

	if err := s.repo.Update(ctx, user); err != nil {
		log.WithError(err).Error("Failed to update user in repository")
		return nil, fmt.Errorf("service: could not update user: %w", err)
	}

	if oldPicture != "" {
		if err := s.cleaner.Schedule(ctx, oldPicture); err != nil {
			log.WithError(err).Warn("Failed to schedule old profile picture cleanup")
		}
	}

	log.Info("User updated successfully")
	return user, nil
}

// DeleteUser удаляет пользователя, доступно только администратору
func (s *userService) DeleteUser(ctx context.Context, caller *models.User, id uuid.UUID) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "user",
		"method":  "DeleteUser",
		"user_id": id,
	})

	if !caller.IsAdmin() {
		return ErrForbidden
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("service: user %s not found for delete: %w", id, err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		log.WithError(err).Error("Failed to delete user in repository")
		return fmt.Errorf("service: could not delete user: %w", err)
	}

	if user.ProfilePicture != "" {
		if err := s.cleaner.Schedule(ctx, user.ProfilePicture); err != nil {
			log.WithError(err).Warn("Failed to schedule profile picture cleanup")
		}
	}

	log.Info("User deleted")
	return nil
}

// ToggleStatus переключает флаг активности, администратор не может отключить себя
func (s *userService) ToggleStatus(ctx context.Context, caller *models.User, id uuid.UUID) (*models.User, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "user",
		"method":  "ToggleStatus",
		"user_id": id,
	})

	if !caller.IsAdmin() {
		return nil, ErrForbidden
	}
	if caller.ID == id {
		return nil, NewValidationError("user_id", "administrators cannot toggle their own status")
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: user %s not found for toggle: %w", id, err)
	}

	if err := s.repo.SetActive(ctx, id, !user.IsActive); err != nil {
		log.WithError(err).Error("Failed to toggle user status")
		return nil, fmt.Errorf("service: could not toggle user status: %w", err)
	}

	user.IsActive = !user.IsActive
	log.WithField("is_active", user.IsActive).Info("User status toggled")
	return user, nil
}

// GetStats возвращает статистику по пользователям, доступно только администратору
func (s *userService) GetStats(ctx context.Context, caller *models.User) (*models.UserStats, error) {
	if !caller.IsAdmin() {
		return nil, ErrForbidden
	}

	stats, err := s.repo.GetStats(ctx, 7)
	if err != nil {
		s.logger.WithError(err).Error("Failed to get user stats from repository")
		return nil, fmt.Errorf("service: could not get user stats: %w", err)
	}
	return stats, nil
}
