package service_test

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/citywatch/incident_reporting_system/internal/config"
	"github.com/citywatch/incident_reporting_system/internal/models"
	"github.com/citywatch/incident_reporting_system/internal/notify"
	notify_mocks "github.com/citywatch/incident_reporting_system/internal/notify/mocks"
	svc "github.com/citywatch/incident_reporting_system/internal/service"
	"github.com/citywatch/incident_reporting_system/internal/service/mocks"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// newTestIncidentService — вспомогательная функция для создания инстанса сервиса с моками.
func newTestIncidentService(t *testing.T) (svc.IncidentService, *mocks.MockIncidentRepository, *notify_mocks.MockPublisher) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockIncidentRepository(ctrl)
	publisherMock := notify_mocks.NewMockPublisher(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{}) // Отключаем вывод логов в тестах

	cfg := &config.Config{
		StatsWindowDays: 7,
		StatsTopUsers:   5,
		StatsRecent:     5,
	}

	service := svc.NewIncidentService(repoMock, logger, cfg, publisherMock)
	return service, repoMock, publisherMock
}

func newTestCitizen() *models.User {
	return &models.User{
		ID:       uuid.New(),
		Username: "citizen",
		Role:     models.RoleCitizen,
		IsActive: true,
	}
}

func newTestAdmin() *models.User {
	return &models.User{
		ID:       uuid.New(),
		Username: "admin",
		Role:     models.RoleAdmin,
		IsActive: true,
	}
}

func TestCreateIncident_LocationString(t *testing.T) {
	// Подготовка
	service, repoMock, publisherMock := newTestIncidentService(t)
	ctx := context.Background()
	caller := newTestCitizen()
	input := svc.CreateIncidentInput{
		IncidentType: models.IncidentTypeFire,
		Description:  "Пожар в жилом доме",
		Location:     "48.8566,2.3522",
	}

	// Ожидания
	repoMock.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(ctx context.Context, inc *models.Incident) error {
			// Проверяем, что строка "lat,lon" разобрана в правильные координаты
			assert.Equal(t, 48.8566, inc.Latitude)
			assert.Equal(t, 2.3522, inc.Longitude)
			assert.Equal(t, caller.ID, inc.UserID)
			// Симулируем, что БД присвоила ID
			inc.ID = uuid.New()
			return nil
		}).Times(1)

	publisherMock.EXPECT().
		Publish(ctx, gomock.Any()).
		Do(func(ctx context.Context, event notify.IncidentEvent) {
			assert.Equal(t, "direct", event.Source)
			assert.Equal(t, caller.ID, event.UserID)
		}).Return(nil).Times(1)

	// Действие
	incident, err := service.Create(ctx, caller, input)

	// Проверки
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, incident.ID)
	assert.Equal(t, 48.8566, incident.Latitude)
	assert.Equal(t, 2.3522, incident.Longitude)
}

func TestCreateIncident_CoordinatePair(t *testing.T) {
	// Подготовка
	service, repoMock, publisherMock := newTestIncidentService(t)
	ctx := context.Background()
	caller := newTestCitizen()
	lat, lon := 55.7558, 37.6173
	input := svc.CreateIncidentInput{
		IncidentType: models.IncidentTypeAccident,
		Description:  "ДТП на перекрестке",
		Latitude:     &lat,
		Longitude:    &lon,
	}

	// Ожидания
	repoMock.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(ctx context.Context, inc *models.Incident) error {
			assert.Equal(t, lat, inc.Latitude)
			assert.Equal(t, lon, inc.Longitude)
			inc.ID = uuid.New()
			return nil
		}).Times(1)

	publisherMock.EXPECT().Publish(ctx, gomock.Any()).Return(nil).Times(1)

	// Действие
	incident, err := service.Create(ctx, caller, input)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, lat, incident.Latitude)
}

func TestCreateIncident_MalformedLocation(t *testing.T) {
	// Подготовка
	service, repoMock, publisherMock := newTestIncidentService(t)
	ctx := context.Background()
	caller := newTestCitizen()
	input := svc.CreateIncidentInput{
		IncidentType: models.IncidentTypeFire,
		Description:  "Описание",
		Location:     "not,a,point",
	}

	// Ожидания: репозиторий и издатель не вызываются
	repoMock.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
	publisherMock.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	incident, err := service.Create(ctx, caller, input)

	// Проверки
	require.Error(t, err)
	assert.Nil(t, incident)
	var vErr *svc.ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, "location", vErr.Field)
}

func TestCreateIncident_MissingLocation(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	caller := newTestCitizen()
	input := svc.CreateIncidentInput{
		IncidentType: models.IncidentTypeOther,
		Description:  "Без координат",
	}

	// Ожидания
	repoMock.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	_, err := service.Create(ctx, caller, input)

	// Проверки
	require.Error(t, err)
	var vErr *svc.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestCreateIncident_PublishFailureIsNotFatal(t *testing.T) {
	// Подготовка
	service, repoMock, publisherMock := newTestIncidentService(t)
	ctx := context.Background()
	caller := newTestCitizen()
	input := svc.CreateIncidentInput{
		IncidentType: models.IncidentTypeTheft,
		Description:  "Кража",
		Location:     "10.0,20.0",
	}

	// Ожидания
	repoMock.EXPECT().
		Create(ctx, gomock.Any()).
		DoAndReturn(func(ctx context.Context, inc *models.Incident) error {
			inc.ID = uuid.New()
			return nil
		}).Times(1)

	// Ошибка публикации события только логируется
	publisherMock.EXPECT().Publish(ctx, gomock.Any()).Return(fmt.Errorf("redis down")).Times(1)

	// Действие
	incident, err := service.Create(ctx, caller, input)

	// Проверки
	require.NoError(t, err)
	assert.NotNil(t, incident)
}

func TestGetIncident_Success_FromCache(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	caller := newTestCitizen()
	incidentID := uuid.New()
	expectedIncident := &models.Incident{
		ID:     incidentID,
		UserID: caller.ID,
	}

	// Ожидания
	repoMock.EXPECT().
		GetIncidentFromCache(ctx, incidentID).
		Return(expectedIncident, nil).
		Times(1)

	// Действие
	incident, err := service.Get(ctx, caller, incidentID)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, expectedIncident, incident)
}

func TestGetIncident_Success_FromDB(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	caller := newTestCitizen()
	incidentID := uuid.New()
	expectedIncident := &models.Incident{
		ID:     incidentID,
		UserID: caller.ID,
	}

	// Ожидания
	// 1. Промах кеша
	repoMock.EXPECT().
		GetIncidentFromCache(ctx, incidentID).
		Return(nil, nil).
		Times(1)

	// 2. Попадание в БД
	repoMock.EXPECT().
		GetByID(ctx, incidentID).
		Return(expectedIncident, nil).
		Times(1)

	// 3. Запись в кеш
	repoMock.EXPECT().
		SetIncidentCache(ctx, expectedIncident).
		Return(nil).
		Times(1)

	// Действие
	incident, err := service.Get(ctx, caller, incidentID)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, expectedIncident, incident)
}

func TestGetIncident_ForbiddenForStranger(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	caller := newTestCitizen()
	incidentID := uuid.New()
	foreignIncident := &models.Incident{
		ID:     incidentID,
		UserID: uuid.New(), // Чужой инцидент
	}

	// Ожидания
	repoMock.EXPECT().GetIncidentFromCache(ctx, incidentID).Return(nil, nil).Times(1)
	repoMock.EXPECT().GetByID(ctx, incidentID).Return(foreignIncident, nil).Times(1)

	// Действие
	incident, err := service.Get(ctx, caller, incidentID)

	// Проверки
	require.Error(t, err)
	assert.Nil(t, incident)
	assert.ErrorIs(t, err, svc.ErrForbidden)
}

func TestGetIncident_AdminCanReadForeign(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	admin := newTestAdmin()
	incidentID := uuid.New()
	foreignIncident := &models.Incident{
		ID:     incidentID,
		UserID: uuid.New(),
	}

	// Ожидания
	repoMock.EXPECT().GetIncidentFromCache(ctx, incidentID).Return(nil, nil).Times(1)
	repoMock.EXPECT().GetByID(ctx, incidentID).Return(foreignIncident, nil).Times(1)
	repoMock.EXPECT().SetIncidentCache(ctx, foreignIncident).Return(nil).Times(1)

	// Действие
	incident, err := service.Get(ctx, admin, incidentID)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, foreignIncident, incident)
}

func TestUpdateIncident_Success(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	caller := newTestCitizen()
	incidentID := uuid.New()
	existingIncident := &models.Incident{
		ID:           incidentID,
		UserID:       caller.ID,
		IncidentType: models.IncidentTypeFire,
		Description:  "Старое описание",
	}
	input := svc.CreateIncidentInput{
		IncidentType: models.IncidentTypeAccident,
		Description:  "Новое описание",
		Location:     "50.45,30.52",
	}

	// Ожидания
	repoMock.EXPECT().GetByID(ctx, incidentID).Return(existingIncident, nil).Times(1)
	repoMock.EXPECT().
		Update(ctx, gomock.Any()).
		Do(func(ctx context.Context, inc *models.Incident) {
			// Владелец записи не меняется
			assert.Equal(t, caller.ID, inc.UserID)
			assert.Equal(t, models.IncidentTypeAccident, inc.IncidentType)
			assert.Equal(t, 50.45, inc.Latitude)
		}).Return(nil).Times(1)
	repoMock.EXPECT().InvalidateIncidentCache(ctx, incidentID).Return(nil).Times(1)

	// Действие
	incident, err := service.Update(ctx, caller, incidentID, input)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, "Новое описание", incident.Description)
}

func TestUpdateIncident_Forbidden(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	caller := newTestCitizen()
	incidentID := uuid.New()
	foreignIncident := &models.Incident{
		ID:     incidentID,
		UserID: uuid.New(),
	}

	// Ожидания
	repoMock.EXPECT().GetByID(ctx, incidentID).Return(foreignIncident, nil).Times(1)
	repoMock.EXPECT().Update(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	_, err := service.Update(ctx, caller, incidentID, svc.CreateIncidentInput{Location: "1.0,1.0"})

	// Проверки
	require.Error(t, err)
	assert.ErrorIs(t, err, svc.ErrForbidden)
}

func TestUpdateIncident_NotFound(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	caller := newTestCitizen()
	incidentID := uuid.New()
	repoError := fmt.Errorf("repository: incident not found: %w", svc.ErrNotFound)

	// Ожидания
	repoMock.EXPECT().GetByID(ctx, incidentID).Return(nil, repoError).Times(1)

	// Действие
	_, err := service.Update(ctx, caller, incidentID, svc.CreateIncidentInput{Location: "1.0,1.0"})

	// Проверки
	require.Error(t, err)
	assert.ErrorIs(t, err, svc.ErrNotFound)
	assert.ErrorContains(t, err, "not found for update")
}

func TestDeleteIncident_Success(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	caller := newTestCitizen()
	incidentID := uuid.New()
	existingIncident := &models.Incident{ID: incidentID, UserID: caller.ID}

	// Ожидания
	repoMock.EXPECT().GetByID(ctx, incidentID).Return(existingIncident, nil).Times(1)
	repoMock.EXPECT().Delete(ctx, incidentID).Return(nil).Times(1)
	repoMock.EXPECT().InvalidateIncidentCache(ctx, incidentID).Return(nil).Times(1)

	// Действие
	err := service.Delete(ctx, caller, incidentID)

	// Проверки
	require.NoError(t, err)
}

func TestDeleteIncident_Forbidden(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	caller := newTestCitizen()
	incidentID := uuid.New()
	foreignIncident := &models.Incident{ID: incidentID, UserID: uuid.New()}

	// Ожидания
	repoMock.EXPECT().GetByID(ctx, incidentID).Return(foreignIncident, nil).Times(1)
	repoMock.EXPECT().Delete(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	err := service.Delete(ctx, caller, incidentID)

	// Проверки
	require.Error(t, err)
	assert.ErrorIs(t, err, svc.ErrForbidden)
}

func TestListOwnIncidents_Success(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	caller := newTestCitizen()
	expectedIncidents := []*models.Incident{
		{ID: uuid.New(), UserID: caller.ID},
		{ID: uuid.New(), UserID: caller.ID},
	}

	// Ожидания
	repoMock.EXPECT().ListByUser(ctx, caller.ID, 1, 10).Return(expectedIncidents, nil).Times(1)

	// Действие
	incidents, err := service.ListOwn(ctx, caller, 1, 10)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, expectedIncidents, incidents)
}

func TestListAllIncidents_ForbiddenForCitizen(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	caller := newTestCitizen()

	// Ожидания
	repoMock.EXPECT().ListAll(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	// Действие
	incidents, err := service.ListAll(ctx, caller, 1, 10)

	// Проверки
	require.Error(t, err)
	assert.Nil(t, incidents)
	assert.ErrorIs(t, err, svc.ErrForbidden)
}

func TestListAllIncidents_AdminSuccess(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	admin := newTestAdmin()
	expectedIncidents := []*models.Incident{
		{ID: uuid.New()},
	}

	// Ожидания
	repoMock.EXPECT().ListAll(ctx, 1, 10).Return(expectedIncidents, nil).Times(1)

	// Действие
	incidents, err := service.ListAll(ctx, admin, 1, 10)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, expectedIncidents, incidents)
}

func TestListAllIncidents_DisabledAdminForbidden(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	admin := newTestAdmin()
	admin.IsActive = false // Отключенный администратор теряет права

	// Ожидания
	repoMock.EXPECT().ListAll(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	// Действие
	_, err := service.ListAll(ctx, admin, 1, 10)

	// Проверки
	require.Error(t, err)
	assert.ErrorIs(t, err, svc.ErrForbidden)
}

func TestQueueOffline_Success(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	caller := newTestCitizen()
	input := svc.OfflineIncidentInput{
		IncidentType: models.IncidentTypeFire,
		Description:  "Снято без сети",
		PhotoPath:    "offline/photo.jpg",
		Latitude:     48.85,
		Longitude:    2.35,
	}

	// Ожидания
	repoMock.EXPECT().
		CreateOffline(ctx, gomock.Any()).
		DoAndReturn(func(ctx context.Context, offline *models.OfflineIncident) error {
			assert.Equal(t, caller.ID, offline.UserID)
			assert.False(t, offline.IsSynced)
			offline.ID = uuid.New()
			return nil
		}).Times(1)

	// Действие
	offline, err := service.QueueOffline(ctx, caller, input)

	// Проверки
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, offline.ID)
}

func TestSync_Success(t *testing.T) {
	// Подготовка
	service, repoMock, publisherMock := newTestIncidentService(t)
	ctx := context.Background()
	caller := newTestCitizen()
	created := []*models.Incident{
		{ID: uuid.New(), UserID: caller.ID, IncidentType: models.IncidentTypeFire},
		{ID: uuid.New(), UserID: caller.ID, IncidentType: models.IncidentTypeTheft},
	}
	expectedResult := &models.SyncResult{Synced: 2}

	// Ожидания
	repoMock.EXPECT().SyncOffline(ctx, caller.ID).Return(expectedResult, created, nil).Times(1)

	// На каждый созданный инцидент уходит событие с источником "sync"
	publisherMock.EXPECT().
		Publish(ctx, gomock.Any()).
		Do(func(ctx context.Context, event notify.IncidentEvent) {
			assert.Equal(t, "sync", event.Source)
		}).Return(nil).Times(2)

	// Действие
	result, err := service.Sync(ctx, caller)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, 2, result.Synced)
	assert.Empty(t, result.Skipped)
}

func TestSync_SecondRunIsNoop(t *testing.T) {
	// Подготовка
	service, repoMock, publisherMock := newTestIncidentService(t)
	ctx := context.Background()
	caller := newTestCitizen()

	// Ожидания: нечего синхронизировать, событий нет
	repoMock.EXPECT().SyncOffline(ctx, caller.ID).Return(&models.SyncResult{Synced: 0}, nil, nil).Times(1)
	publisherMock.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	result, err := service.Sync(ctx, caller)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, 0, result.Synced)
}

func TestSync_SkippedRowsReported(t *testing.T) {
	// Подготовка
	service, repoMock, publisherMock := newTestIncidentService(t)
	ctx := context.Background()
	caller := newTestCitizen()
	skippedID := uuid.New()
	created := []*models.Incident{
		{ID: uuid.New(), UserID: caller.ID},
	}
	expectedResult := &models.SyncResult{
		Synced: 1,
		Skipped: []models.SkippedOffline{
			{ID: skippedID, Reason: "latitude must be between -90 and 90"},
		},
	}

	// Ожидания
	repoMock.EXPECT().SyncOffline(ctx, caller.ID).Return(expectedResult, created, nil).Times(1)
	publisherMock.EXPECT().Publish(ctx, gomock.Any()).Return(nil).Times(1)

	// Действие
	result, err := service.Sync(ctx, caller)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, 1, result.Synced)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, skippedID, result.Skipped[0].ID)
}

func TestSync_RepositoryError(t *testing.T) {
	// Подготовка
	service, repoMock, publisherMock := newTestIncidentService(t)
	ctx := context.Background()
	caller := newTestCitizen()
	repoError := fmt.Errorf("tx failed")

	// Ожидания
	repoMock.EXPECT().SyncOffline(ctx, caller.ID).Return(nil, nil, repoError).Times(1)
	publisherMock.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(0)

	// Действие
	result, err := service.Sync(ctx, caller)

	// Проверки
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorContains(t, err, "could not sync offline incidents")
}

func TestGetIncidentStats_AdminSuccess(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	admin := newTestAdmin()
	expectedStats := &models.IncidentStats{
		ByType: []models.TypeCount{{IncidentType: models.IncidentTypeFire, Count: 3}},
	}

	// Ожидания
	repoMock.EXPECT().GetStats(ctx, 7, 5, 5).Return(expectedStats, nil).Times(1)

	// Действие
	stats, err := service.GetStats(ctx, admin)

	// Проверки
	require.NoError(t, err)
	assert.Equal(t, expectedStats, stats)
}

func TestGetIncidentStats_ForbiddenForCitizen(t *testing.T) {
	// Подготовка
	service, repoMock, _ := newTestIncidentService(t)
	ctx := context.Background()
	caller := newTestCitizen()

	// Ожидания
	repoMock.EXPECT().GetStats(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	// Действие
	stats, err := service.GetStats(ctx, caller)

	// Проверки
	require.Error(t, err)
	assert.Nil(t, stats)
	assert.ErrorIs(t, err, svc.ErrForbidden)
}
