package v1

import (
	"time"

	"github.com/google/uuid"
)

// RegisterRequest DTO для регистрации пользователя
// @Description DTO для регистрации пользователя
type RegisterRequest struct {
	Username       string `json:"username" validate:"required,min=4,max=150"`
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=8"`
	Password2      string `json:"password2" validate:"required,eqfield=Password"`
	PhoneNumber    string `json:"phone_number,omitempty" validate:"omitempty,max=15"`
	ProfilePicture string `json:"profile_picture,omitempty" validate:"omitempty,max=255"`
	FaceEmbedding  string `json:"face_embedding,omitempty" validate:"omitempty,base64"`
}

// LoginRequest DTO для входа по паролю
// @Description DTO для входа по паролю
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest DTO для обновления пары токенов
// @Description DTO для обновления пары токенов
type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// BiometricLoginRequest DTO для входа по биометрическому токену
// @Description DTO для входа по биометрическому токену
type BiometricLoginRequest struct {
	Username       string `json:"username" validate:"required"`
	BiometricToken string `json:"biometric_token" validate:"required,max=255"`
}

// RegisterBiometricRequest DTO для привязки биометрического токена
// @Description DTO для привязки биометрического токена
type RegisterBiometricRequest struct {
	BiometricToken string `json:"biometric_token" validate:"required,max=255"`
}

// UpdateUserRequest DTO для обновления профиля, nil-поля не меняются
// @Description DTO для обновления профиля
type UpdateUserRequest struct {
	Email          *string `json:"email,omitempty" validate:"omitempty,email"`
	PhoneNumber    *string `json:"phone_number,omitempty" validate:"omitempty,max=15"`
	ProfilePicture *string `json:"profile_picture,omitempty" validate:"omitempty,max=255"`
	Role           *string `json:"role,omitempty" validate:"omitempty,oneof=citizen admin"`
}

// CreateIncidentRequest DTO для создания/обновления инцидента.
// Локация передается либо строкой "lat,lon", либо парой координат.
// @Description DTO для создания инцидента
type CreateIncidentRequest struct {
	IncidentType string   `json:"incident_type" validate:"required,oneof=fire accident theft other"`
	Description  string   `json:"description" validate:"required"`
	Photo        string   `json:"photo,omitempty" validate:"omitempty,max=255"`
	Audio        string   `json:"audio,omitempty" validate:"omitempty,max=255"`
	Location     string   `json:"location,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude    *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
}

// OfflineIncidentRequest DTO для загрузки офлайн-записи
// @Description DTO для загрузки офлайн-записи
type OfflineIncidentRequest struct {
	IncidentType string  `json:"incident_type" validate:"required,max=50"`
	Description  string  `json:"description" validate:"required"`
	PhotoPath    string  `json:"photo_path,omitempty" validate:"omitempty,max=255"`
	AudioPath    string  `json:"audio_path,omitempty" validate:"omitempty,max=255"`
	Latitude     float64 `json:"latitude" validate:"latitude"`
	Longitude    float64 `json:"longitude" validate:"longitude"`
}

// UserResponse DTO для ответа с информацией о пользователе
// @Description DTO для ответа с информацией о пользователе
type UserResponse struct {
	ID             uuid.UUID  `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	Role           string     `json:"role"`
	PhoneNumber    string     `json:"phone_number,omitempty"`
	ProfilePicture string     `json:"profile_picture,omitempty"`
	IsActive       bool       `json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	LastLogin      *time.Time `json:"last_login,omitempty"`
}

// TokenResponse DTO с парой токенов
// @Description DTO с парой токенов
type TokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// AuthResponse DTO для ответа аутентификации
// @Description DTO для ответа аутентификации
type AuthResponse struct {
	Status string        `json:"status"`
	User   *UserResponse `json:"user"`
	Tokens TokenResponse `json:"tokens"`
}

// IncidentResponse DTO для ответа с информацией об инциденте
// @Description DTO для ответа с информацией об инциденте
type IncidentResponse struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	IncidentType string    `json:"incident_type"`
	Description  string    `json:"description"`
	Photo        string    `json:"photo,omitempty"`
	Audio        string    `json:"audio,omitempty"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	CreatedAt    time.Time `json:"created_at"`
}

// OfflineIncidentResponse DTO для ответа с офлайн-записью
// @Description DTO для ответа с офлайн-записью
type OfflineIncidentResponse struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"user_id"`
	IncidentType string    `json:"incident_type"`
	Description  string    `json:"description"`
	PhotoPath    string    `json:"photo_path,omitempty"`
	AudioPath    string    `json:"audio_path,omitempty"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	IsSynced     bool      `json:"is_synced"`
	CreatedAt    time.Time `json:"created_at"`
}

// SkippedIncidentResponse DTO для пропущенной при синхронизации записи
// @Description DTO для пропущенной при синхронизации записи
type SkippedIncidentResponse struct {
	ID     uuid.UUID `json:"id"`
	Reason string    `json:"reason"`
}

// SyncResponse DTO для результата синхронизации
// @Description DTO для результата синхронизации
type SyncResponse struct {
	Status           string                    `json:"status"`
	SyncedIncidents  int                       `json:"synced_incidents"`
	SkippedIncidents []SkippedIncidentResponse `json:"skipped_incidents,omitempty"`
}
