package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/citywatch/incident_reporting_system/internal/auth"
	"github.com/citywatch/incident_reporting_system/internal/config"
	"github.com/citywatch/incident_reporting_system/internal/models"
	"github.com/citywatch/incident_reporting_system/internal/service"
	"github.com/citywatch/incident_reporting_system/internal/service/mocks"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// stubAuth подменяет JWT middleware в тестах: кладет заданного
// пользователя в контекст запроса без проверки токена.
type stubAuth struct {
	user *models.User
}

func (s *stubAuth) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization token is required"})
			return
		}
		c.Set(contextUserKey, s.user)
		c.Next()
	}
}

// newTestHandler создает новый экземпляр Handler с мокированными сервисами
func newTestHandler(t *testing.T) (*mocks.MockIncidentService, *mocks.MockUserService, *gin.Engine, *stubAuth) {
	ctrl := gomock.NewController(t)
	incidentMock := mocks.NewMockIncidentService(ctrl)
	userMock := mocks.NewMockUserService(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{}

	handler := NewHandler(incidentMock, userMock, logger, cfg)
	authStub := &stubAuth{user: &models.User{
		ID:       uuid.New(),
		Username: "citizen",
		Role:     models.RoleCitizen,
		IsActive: true,
	}}

	// Настройка Gin роутера для тестов
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api, authStub.middleware())

	return incidentMock, userMock, router, authStub
}

// makeRequest - вспомогательная функция для выполнения HTTP-запросов
func makeRequest(router *gin.Engine, method, url string, body io.Reader, headers ...map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, h := range headers {
		for key, value := range h {
			req.Header.Set(key, value)
		}
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateIncident_Success(t *testing.T) {
	incidentMock, _, router, authStub := newTestHandler(t)
	incidentID := uuid.New()
	reqBody := CreateIncidentRequest{
		IncidentType: models.IncidentTypeFire,
		Description:  "Fire in the building",
		Location:     "48.8566,2.3522",
	}
	expectedIncident := &models.Incident{
		ID:           incidentID,
		UserID:       authStub.user.ID,
		IncidentType: reqBody.IncidentType,
		Description:  reqBody.Description,
		Latitude:     48.8566,
		Longitude:    2.3522,
	}

	incidentMock.EXPECT().
		Create(gomock.Any(), authStub.user, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *models.User, input service.CreateIncidentInput) (*models.Incident, error) {
			assert.Equal(t, "48.8566,2.3522", input.Location)
			return expectedIncident, nil
		}).Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/incidents", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp IncidentResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, incidentID, resp.ID)
	assert.Equal(t, 48.8566, resp.Latitude)
	assert.Equal(t, 2.3522, resp.Longitude)
}

func TestCreateIncident_InvalidJSON(t *testing.T) {
	incidentMock, _, router, _ := newTestHandler(t)

	incidentMock.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Times(0) // Сервис не должен вызываться

	w := makeRequest(router, "POST", "/api/v1/incidents", bytes.NewBufferString(`{"incident_type": "fire"`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")
}

func TestCreateIncident_ValidationError(t *testing.T) {
	incidentMock, _, router, _ := newTestHandler(t)
	reqBody := CreateIncidentRequest{ // Отсутствует Description
		IncidentType: models.IncidentTypeFire,
		Location:     "48.8566,2.3522",
	}

	incidentMock.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Times(0) // Сервис не должен вызываться

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/incidents", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Error:Field validation for 'Description' failed on the 'required' tag")
}

func TestCreateIncident_MalformedLocation(t *testing.T) {
	incidentMock, _, router, _ := newTestHandler(t)
	reqBody := CreateIncidentRequest{
		IncidentType: models.IncidentTypeFire,
		Description:  "Description",
		Location:     "not,a,point",
	}

	incidentMock.EXPECT().
		Create(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, service.NewValidationError("location", "location must be in \"lat,lon\" format")).
		Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/incidents", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "location")
}

func TestCreateIncident_Unauthorized(t *testing.T) {
	incidentMock, _, router, authStub := newTestHandler(t)
	authStub.user = nil // Запрос без аутентификации

	incidentMock.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	reqBody := CreateIncidentRequest{
		IncidentType: models.IncidentTypeFire,
		Description:  "Description",
		Location:     "1.0,1.0",
	}
	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/incidents", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetIncident_Success(t *testing.T) {
	incidentMock, _, router, authStub := newTestHandler(t)
	incidentID := uuid.New()
	expectedIncident := &models.Incident{
		ID:           incidentID,
		UserID:       authStub.user.ID,
		IncidentType: models.IncidentTypeTheft,
		Description:  "Stolen bike",
	}

	incidentMock.EXPECT().Get(gomock.Any(), authStub.user, incidentID).Return(expectedIncident, nil).Times(1)

	w := makeRequest(router, "GET", fmt.Sprintf("/api/v1/incidents/%s", incidentID.String()), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp IncidentResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, incidentID, resp.ID)
	assert.Equal(t, expectedIncident.Description, resp.Description)
}

func TestGetIncident_InvalidID(t *testing.T) {
	incidentMock, _, router, _ := newTestHandler(t)

	incidentMock.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Times(0) // Сервис не должен вызываться

	w := makeRequest(router, "GET", "/api/v1/incidents/invalid-uuid", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid incident ID")
}

func TestGetIncident_NotFound(t *testing.T) {
	incidentMock, _, router, authStub := newTestHandler(t)
	incidentID := uuid.New()
	serviceError := fmt.Errorf("service: could not get incident: %w", service.ErrNotFound)

	incidentMock.EXPECT().Get(gomock.Any(), authStub.user, incidentID).Return(nil, serviceError).Times(1)

	w := makeRequest(router, "GET", fmt.Sprintf("/api/v1/incidents/%s", incidentID.String()), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not found")
}

func TestGetIncident_ServiceError(t *testing.T) {
	incidentMock, _, router, authStub := newTestHandler(t)
	incidentID := uuid.New()
	serviceError := errors.New("database error")

	incidentMock.EXPECT().Get(gomock.Any(), authStub.user, incidentID).Return(nil, serviceError).Times(1)

	w := makeRequest(router, "GET", fmt.Sprintf("/api/v1/incidents/%s", incidentID.String()), nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
}

func TestListOwnIncidents_Success(t *testing.T) {
	incidentMock, _, router, authStub := newTestHandler(t)
	expectedIncidents := []*models.Incident{
		{ID: uuid.New(), UserID: authStub.user.ID, Description: "First"},
		{ID: uuid.New(), UserID: authStub.user.ID, Description: "Second"},
	}

	incidentMock.EXPECT().ListOwn(gomock.Any(), authStub.user, 1, 10).Return(expectedIncidents, nil).Times(1)

	w := makeRequest(router, "GET", "/api/v1/incidents?page=1&pageSize=10", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp []IncidentResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Len(t, resp, 2)
	assert.Equal(t, expectedIncidents[0].Description, resp[0].Description)
}

func TestListAllIncidents_ForbiddenForCitizen(t *testing.T) {
	incidentMock, _, router, authStub := newTestHandler(t)

	incidentMock.EXPECT().ListAll(gomock.Any(), authStub.user, 1, 10).Return(nil, service.ErrForbidden).Times(1)

	w := makeRequest(router, "GET", "/api/v1/incidents/all?page=1&pageSize=10", nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "forbidden")
}

func TestUpdateIncident_Success(t *testing.T) {
	incidentMock, _, router, authStub := newTestHandler(t)
	incidentID := uuid.New()
	reqBody := CreateIncidentRequest{
		IncidentType: models.IncidentTypeAccident,
		Description:  "Updated description",
		Location:     "50.45,30.52",
	}
	updatedIncident := &models.Incident{
		ID:           incidentID,
		UserID:       authStub.user.ID,
		IncidentType: reqBody.IncidentType,
		Description:  reqBody.Description,
		Latitude:     50.45,
		Longitude:    30.52,
	}

	incidentMock.EXPECT().
		Update(gomock.Any(), authStub.user, incidentID, gomock.Any()).
		Return(updatedIncident, nil).Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "PUT", fmt.Sprintf("/api/v1/incidents/%s", incidentID.String()), bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp IncidentResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "Updated description", resp.Description)
}

func TestDeleteIncident_Success(t *testing.T) {
	incidentMock, _, router, authStub := newTestHandler(t)
	incidentID := uuid.New()

	incidentMock.EXPECT().Delete(gomock.Any(), authStub.user, incidentID).Return(nil).Times(1)

	w := makeRequest(router, "DELETE", fmt.Sprintf("/api/v1/incidents/%s", incidentID.String()), nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestDeleteIncident_Forbidden(t *testing.T) {
	incidentMock, _, router, authStub := newTestHandler(t)
	incidentID := uuid.New()

	incidentMock.EXPECT().Delete(gomock.Any(), authStub.user, incidentID).Return(service.ErrForbidden).Times(1)

	w := makeRequest(router, "DELETE", fmt.Sprintf("/api/v1/incidents/%s", incidentID.String()), nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestQueueOfflineIncident_Success(t *testing.T) {
	incidentMock, _, router, authStub := newTestHandler(t)
	offlineID := uuid.New()
	reqBody := OfflineIncidentRequest{
		IncidentType: models.IncidentTypeFire,
		Description:  "Captured offline",
		Latitude:     48.85,
		Longitude:    2.35,
	}
	expectedOffline := &models.OfflineIncident{
		ID:           offlineID,
		UserID:       authStub.user.ID,
		IncidentType: reqBody.IncidentType,
		Description:  reqBody.Description,
		Latitude:     reqBody.Latitude,
		Longitude:    reqBody.Longitude,
	}

	incidentMock.EXPECT().
		QueueOffline(gomock.Any(), authStub.user, gomock.Any()).
		Return(expectedOffline, nil).Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/incidents/offline", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp OfflineIncidentResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, offlineID, resp.ID)
	assert.False(t, resp.IsSynced)
}

func TestSyncIncidents_Success(t *testing.T) {
	incidentMock, _, router, authStub := newTestHandler(t)
	skippedID := uuid.New()
	result := &models.SyncResult{
		Synced: 3,
		Skipped: []models.SkippedOffline{
			{ID: skippedID, Reason: "longitude must be between -180 and 180"},
		},
	}

	incidentMock.EXPECT().Sync(gomock.Any(), authStub.user).Return(result, nil).Times(1)

	w := makeRequest(router, "POST", "/api/v1/incidents/sync", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp SyncResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, 3, resp.SyncedIncidents)
	require.Len(t, resp.SkippedIncidents, 1)
	assert.Equal(t, skippedID, resp.SkippedIncidents[0].ID)
}

func TestSyncIncidents_NothingPending(t *testing.T) {
	incidentMock, _, router, authStub := newTestHandler(t)

	incidentMock.EXPECT().Sync(gomock.Any(), authStub.user).Return(&models.SyncResult{Synced: 0}, nil).Times(1)

	w := makeRequest(router, "POST", "/api/v1/incidents/sync", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp SyncResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.SyncedIncidents)
	assert.Empty(t, resp.SkippedIncidents)
}

func TestGetIncidentStats_ForbiddenForCitizen(t *testing.T) {
	incidentMock, _, router, authStub := newTestHandler(t)

	incidentMock.EXPECT().GetStats(gomock.Any(), authStub.user).Return(nil, service.ErrForbidden).Times(1)

	w := makeRequest(router, "GET", "/api/v1/incidents/stats", nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "forbidden")
}

func TestGetIncidentStats_AdminSuccess(t *testing.T) {
	incidentMock, _, router, authStub := newTestHandler(t)
	authStub.user.Role = models.RoleAdmin
	expectedStats := &models.IncidentStats{
		ByType: []models.TypeCount{{IncidentType: models.IncidentTypeFire, Count: 2}},
	}

	incidentMock.EXPECT().GetStats(gomock.Any(), authStub.user).Return(expectedStats, nil).Times(1)

	w := makeRequest(router, "GET", "/api/v1/incidents/stats", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp models.IncidentStats
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	require.Len(t, resp.ByType, 1)
	assert.Equal(t, models.IncidentTypeFire, resp.ByType[0].IncidentType)
}

func TestRegister_Success(t *testing.T) {
	_, userMock, router, _ := newTestHandler(t)
	userID := uuid.New()
	reqBody := RegisterRequest{
		Username:  "newcomer",
		Email:     "newcomer@example.com",
		Password:  "strongpassword",
		Password2: "strongpassword",
	}
	expectedUser := &models.User{
		ID:       userID,
		Username: reqBody.Username,
		Email:    reqBody.Email,
		Role:     models.RoleCitizen,
		IsActive: true,
	}
	expectedPair := &auth.TokenPair{AccessToken: "access", RefreshToken: "refresh"}

	userMock.EXPECT().
		Register(gomock.Any(), gomock.Any()).
		Return(expectedUser, expectedPair, nil).Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/auth/register", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp AuthResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, userID, resp.User.ID)
	assert.Equal(t, "access", resp.Tokens.Access)
	assert.Equal(t, "refresh", resp.Tokens.Refresh)
}

func TestRegister_PasswordMismatch(t *testing.T) {
	_, userMock, router, _ := newTestHandler(t)
	reqBody := RegisterRequest{
		Username:  "newcomer",
		Email:     "newcomer@example.com",
		Password:  "strongpassword",
		Password2: "different",
	}

	userMock.EXPECT().Register(gomock.Any(), gomock.Any()).Times(0) // Сервис не должен вызываться

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/auth/register", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Error:Field validation for 'Password2' failed on the 'eqfield' tag")
}

func TestRegister_DuplicateUsername(t *testing.T) {
	_, userMock, router, _ := newTestHandler(t)
	reqBody := RegisterRequest{
		Username:  "taken",
		Email:     "fresh@example.com",
		Password:  "strongpassword",
		Password2: "strongpassword",
	}

	userMock.EXPECT().
		Register(gomock.Any(), gomock.Any()).
		Return(nil, nil, service.NewValidationError("username", "username is already taken")).
		Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/auth/register", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "username is already taken")
}

func TestRegister_InvalidFaceEmbedding(t *testing.T) {
	_, userMock, router, _ := newTestHandler(t)

	userMock.EXPECT().Register(gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "POST", "/api/v1/auth/register", bytes.NewBufferString(
		`{"username":"newcomer","email":"n@example.com","password":"strongpassword","password2":"strongpassword","face_embedding":"$$$not-base64$$$"}`,
	))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin_Success(t *testing.T) {
	_, userMock, router, _ := newTestHandler(t)
	reqBody := LoginRequest{Username: "citizen", Password: "password"}
	expectedUser := &models.User{ID: uuid.New(), Username: "citizen", Role: models.RoleCitizen, IsActive: true}
	expectedPair := &auth.TokenPair{AccessToken: "access", RefreshToken: "refresh"}

	userMock.EXPECT().Login(gomock.Any(), "citizen", "password").Return(expectedUser, expectedPair, nil).Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/auth/login", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp AuthResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "access", resp.Tokens.Access)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	_, userMock, router, _ := newTestHandler(t)
	reqBody := LoginRequest{Username: "citizen", Password: "wrong"}

	userMock.EXPECT().Login(gomock.Any(), "citizen", "wrong").Return(nil, nil, service.ErrInvalidCredentials).Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/auth/login", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid credentials")
}

func TestLogin_DisabledAccount(t *testing.T) {
	_, userMock, router, _ := newTestHandler(t)
	reqBody := LoginRequest{Username: "blocked", Password: "password"}

	userMock.EXPECT().Login(gomock.Any(), "blocked", "password").Return(nil, nil, service.ErrAccountDisabled).Times(1)

	bodyBytes, _ := json.Marshal(reqBody)
	w := makeRequest(router, "POST", "/api/v1/auth/login", bytes.NewBuffer(bodyBytes))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "account is disabled")
}

func TestRefreshTokens_Success(t *testing.T) {
	_, userMock, router, _ := newTestHandler(t)
	expectedPair := &auth.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"}

	userMock.EXPECT().RefreshTokens(gomock.Any(), "old-refresh").Return(expectedPair, nil).Times(1)

	w := makeRequest(router, "POST", "/api/v1/auth/token/refresh", bytes.NewBufferString(`{"refresh":"old-refresh"}`))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp TokenResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "new-access", resp.Access)
}

func TestRefreshTokens_Invalid(t *testing.T) {
	_, userMock, router, _ := newTestHandler(t)

	userMock.EXPECT().RefreshTokens(gomock.Any(), "garbage").Return(nil, service.ErrInvalidCredentials).Times(1)

	w := makeRequest(router, "POST", "/api/v1/auth/token/refresh", bytes.NewBufferString(`{"refresh":"garbage"}`))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBiometricLogin_Success(t *testing.T) {
	_, userMock, router, _ := newTestHandler(t)
	expectedUser := &models.User{ID: uuid.New(), Username: "citizen", IsActive: true}
	expectedPair := &auth.TokenPair{AccessToken: "access", RefreshToken: "refresh"}

	userMock.EXPECT().BiometricLogin(gomock.Any(), "citizen", "raw-token").Return(expectedUser, expectedPair, nil).Times(1)

	w := makeRequest(router, "POST", "/api/v1/auth/biometric-login", bytes.NewBufferString(
		`{"username":"citizen","biometric_token":"raw-token"}`,
	))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterBiometric_Success(t *testing.T) {
	_, userMock, router, authStub := newTestHandler(t)

	userMock.EXPECT().RegisterBiometric(gomock.Any(), authStub.user, "raw-token").Return(nil).Times(1)

	w := makeRequest(router, "POST", "/api/v1/auth/register-biometric", bytes.NewBufferString(
		`{"biometric_token":"raw-token"}`,
	))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"success"`)
}

func TestGetCurrentUser_Success(t *testing.T) {
	_, _, router, authStub := newTestHandler(t)

	w := makeRequest(router, "GET", "/api/v1/users/me", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp UserResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, authStub.user.ID, resp.ID)
	// Хеши не должны попадать в ответ
	assert.NotContains(t, w.Body.String(), "password")
}

func TestListUsers_Forbidden(t *testing.T) {
	_, userMock, router, authStub := newTestHandler(t)

	userMock.EXPECT().ListUsers(gomock.Any(), authStub.user, 1, 10).Return(nil, service.ErrForbidden).Times(1)

	w := makeRequest(router, "GET", "/api/v1/users?page=1&pageSize=10", nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateUser_Success(t *testing.T) {
	_, userMock, router, authStub := newTestHandler(t)
	newPhone := "+74951234567"
	updatedUser := &models.User{
		ID:          authStub.user.ID,
		Username:    authStub.user.Username,
		PhoneNumber: newPhone,
		IsActive:    true,
	}

	userMock.EXPECT().
		UpdateUser(gomock.Any(), authStub.user, authStub.user.ID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *models.User, _ uuid.UUID, input service.UpdateUserInput) (*models.User, error) {
			require.NotNil(t, input.PhoneNumber)
			assert.Equal(t, newPhone, *input.PhoneNumber)
			return updatedUser, nil
		}).Times(1)

	w := makeRequest(router, "PUT", fmt.Sprintf("/api/v1/users/%s", authStub.user.ID.String()), bytes.NewBufferString(
		fmt.Sprintf(`{"phone_number":%q}`, newPhone),
	))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp UserResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, newPhone, resp.PhoneNumber)
}

func TestUpdateUser_InvalidRole(t *testing.T) {
	_, userMock, router, authStub := newTestHandler(t)

	userMock.EXPECT().UpdateUser(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	w := makeRequest(router, "PUT", fmt.Sprintf("/api/v1/users/%s", authStub.user.ID.String()), bytes.NewBufferString(
		`{"role":"superuser"}`,
	))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Error:Field validation for 'Role' failed on the 'oneof' tag")
}

func TestDeleteUser_Forbidden(t *testing.T) {
	_, userMock, router, authStub := newTestHandler(t)
	targetID := uuid.New()

	userMock.EXPECT().DeleteUser(gomock.Any(), authStub.user, targetID).Return(service.ErrForbidden).Times(1)

	w := makeRequest(router, "DELETE", fmt.Sprintf("/api/v1/users/%s", targetID.String()), nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestToggleUserStatus_Success(t *testing.T) {
	_, userMock, router, authStub := newTestHandler(t)
	authStub.user.Role = models.RoleAdmin
	target := &models.User{ID: uuid.New(), Username: "target", IsActive: false}

	userMock.EXPECT().ToggleStatus(gomock.Any(), authStub.user, target.ID).Return(target, nil).Times(1)

	w := makeRequest(router, "PATCH", fmt.Sprintf("/api/v1/users/%s/toggle-status", target.ID.String()), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp UserResponse
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.False(t, resp.IsActive)
}

func TestToggleUserStatus_SelfRejected(t *testing.T) {
	_, userMock, router, authStub := newTestHandler(t)
	authStub.user.Role = models.RoleAdmin

	userMock.EXPECT().
		ToggleStatus(gomock.Any(), authStub.user, authStub.user.ID).
		Return(nil, service.NewValidationError("user_id", "administrators cannot toggle their own status")).
		Times(1)

	w := makeRequest(router, "PATCH", fmt.Sprintf("/api/v1/users/%s/toggle-status", authStub.user.ID.String()), nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "administrators cannot toggle their own status")
}

func TestGetUserStats_AdminSuccess(t *testing.T) {
	_, userMock, router, authStub := newTestHandler(t)
	authStub.user.Role = models.RoleAdmin
	expectedStats := &models.UserStats{TotalUsers: 5, ActiveUsers: 4}

	userMock.EXPECT().GetStats(gomock.Any(), authStub.user).Return(expectedStats, nil).Times(1)

	w := makeRequest(router, "GET", "/api/v1/users/stats", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp models.UserStats
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, 5, resp.TotalUsers)
}

func TestHealthCheck_Success(t *testing.T) {
	_, _, router, _ := newTestHandler(t)

	w := makeRequest(router, "GET", "/api/v1/system/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}
