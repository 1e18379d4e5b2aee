package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrWrongTokenType   = errors.New("wrong token type")
	ErrWrongTokenIssuer = errors.New("wrong token issuer")
)

// Claims - полезная нагрузка JWT токена
type Claims struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
	jwt.RegisteredClaims
}

// TokenPair - пара access/refresh токенов
type TokenPair struct {
	AccessToken  string `json:"access"`
	RefreshToken string `json:"refresh"`
}

// TokenManager определяет контракт для выпуска и проверки JWT
type TokenManager interface {
	GenerateTokenPair(userID uuid.UUID, username, role string) (*TokenPair, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
	RefreshTokens(refreshToken string) (*TokenPair, error)
}

// Config - конфигурация менеджера токенов
type Config struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

type tokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	issuer        string
}

// NewTokenManager создает новый менеджер токенов
func NewTokenManager(cfg Config) TokenManager {
	return &tokenManager{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessExpiry:  cfg.AccessExpiry,
		refreshExpiry: cfg.RefreshExpiry,
		issuer:        cfg.Issuer,
	}
}

// GenerateTokenPair генерирует пару токенов (access и refresh)
func (m *tokenManager) GenerateTokenPair(userID uuid.UUID, username, role string) (*TokenPair, error) {
	now := time.Now()

	accessToken, err := m.signToken(userID, username, role, now, m.accessExpiry, m.accessSecret, "access")
	if err != nil {
		return nil, err
	}

	refreshToken, err := m.signToken(userID, username, role, now, m.refreshExpiry, m.refreshSecret, "refresh")
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (m *tokenManager) signToken(userID uuid.UUID, username, role string, now time.Time, expiry time.Duration, secret []byte, subject string) (string, error) {
	claims := &Claims{
		UserID:   userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    m.issuer,
			Subject:   subject,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateAccessToken валидирует access token
func (m *tokenManager) ValidateAccessToken(tokenString string) (*Claims, error) {
	return m.validateToken(tokenString, m.accessSecret, "access")
}

// ValidateRefreshToken валидирует refresh token
func (m *tokenManager) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return m.validateToken(tokenString, m.refreshSecret, "refresh")
}

// validateToken общий метод для валидации токенов
func (m *tokenManager) validateToken(tokenString string, secret []byte, expectedSubject string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Проверяем метод подписи
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Subject != expectedSubject {
		return nil, ErrWrongTokenType
	}

	if claims.Issuer != m.issuer {
		return nil, ErrWrongTokenIssuer
	}

	return claims, nil
}

// RefreshTokens обновляет пару токенов по refresh токену
func (m *tokenManager) RefreshTokens(refreshToken string) (*TokenPair, error) {
	claims, err := m.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	return m.GenerateTokenPair(claims.UserID, claims.Username, claims.Role)
}
