package service

import (
	"context"
	"fmt"
	"time"

	"github.com/citywatch/incident_reporting_system/internal/config"
	"github.com/citywatch/incident_reporting_system/internal/models"
	"github.com/citywatch/incident_reporting_system/internal/notify"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// IncidentRepository определяет контракт для работы с бд инцидентов
type IncidentRepository interface {
	Create(ctx context.Context, incident *models.Incident) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	Update(ctx context.Context, incident *models.Incident) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]*models.Incident, error)
	ListAll(ctx context.Context, page, pageSize int) ([]*models.Incident, error)
	CreateOffline(ctx context.Context, incident *models.OfflineIncident) error
	SyncOffline(ctx context.Context, userID uuid.UUID) (*models.SyncResult, []*models.Incident, error)
	GetStats(ctx context.Context, windowDays, topUsers, recent int) (*models.IncidentStats, error)
	GetIncidentFromCache(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	SetIncidentCache(ctx context.Context, incident *models.Incident) error
	InvalidateIncidentCache(ctx context.Context, id uuid.UUID) error
}

// CreateIncidentInput - данные для создания инцидента. Локация приходит
// либо строкой "lat,lon", либо структурированной парой координат.
type CreateIncidentInput struct {
	IncidentType string
	Description  string
	Photo        string
	Audio        string
	Location     string
	Latitude     *float64
	Longitude    *float64
}

// OfflineIncidentInput - данные офлайн-записи, загружаемой клиентом
type OfflineIncidentInput struct {
	IncidentType string
	Description  string
	PhotoPath    string
	AudioPath    string
	Latitude     float64
	Longitude    float64
}

// IncidentService определяет контракт бизнес-логики инцидентов.
// Личность вызывающего передается явным параметром в каждый метод.
type IncidentService interface {
	Create(ctx context.Context, caller *models.User, input CreateIncidentInput) (*models.Incident, error)
	Get(ctx context.Context, caller *models.User, id uuid.UUID) (*models.Incident, error)
	Update(ctx context.Context, caller *models.User, id uuid.UUID, input CreateIncidentInput) (*models.Incident, error)
	Delete(ctx context.Context, caller *models.User, id uuid.UUID) error
	ListOwn(ctx context.Context, caller *models.User, page, pageSize int) ([]*models.Incident, error)
	ListAll(ctx context.Context, caller *models.User, page, pageSize int) ([]*models.Incident, error)
	QueueOffline(ctx context.Context, caller *models.User, input OfflineIncidentInput) (*models.OfflineIncident, error)
	Sync(ctx context.Context, caller *models.User) (*models.SyncResult, error)
	GetStats(ctx context.Context, caller *models.User) (*models.IncidentStats, error)
}

type incidentService struct {
	repo      IncidentRepository
	logger    *logrus.Logger
	cfg       *config.Config
	publisher notify.Publisher
}

func NewIncidentService(repo IncidentRepository, logger *logrus.Logger, cfg *config.Config, publisher notify.Publisher) IncidentService {
	return &incidentService{
		repo:      repo,
		logger:    logger,
		cfg:       cfg,
		publisher: publisher,
	}
}

// resolveLocation нормализует входную локацию в пару (lat, lon)
func resolveLocation(input CreateIncidentInput) (float64, float64, error) {
	if input.Location != "" {
		lat, lon, err := models.ParseLocation(input.Location)
		if err != nil {
			return 0, 0, NewValidationError("location", err.Error())
		}
		return lat, lon, nil
	}

	if input.Latitude == nil || input.Longitude == nil {
		return 0, 0, NewValidationError("location", "location or latitude/longitude pair is required")
	}

	if err := models.ValidateCoordinates(*input.Latitude, *input.Longitude); err != nil {
		return 0, 0, NewValidationError("location", err.Error())
	}
	return *input.Latitude, *input.Longitude, nil
}

// Create создает инцидент от имени вызывающего
func (s *incidentService) Create(ctx context.Context, caller *models.User, input CreateIncidentInput) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "Create",
		"user_id": caller.ID,
	})
	log.Info("Attempting to create a new incident")

	lat, lon, err := resolveLocation(input)
	if err != nil {
		log.WithError(err).Warn("Invalid location in incident submission")
		return nil, err
	}

	incident := &models.Incident{
		UserID:       caller.ID,
		IncidentType: input.IncidentType,
		Description:  input.Description,
		Photo:        input.Photo,
		Audio:        input.Audio,
		Latitude:     lat,
		Longitude:    lon,
	}

	if err := s.repo.Create(ctx, incident); err != nil {
		log.WithError(err).Error("Failed to create incident in repository")
		return nil, fmt.Errorf("service: could not create incident: %w", err)
	}

	s.publishEvent(ctx, incident, "direct")

	log.WithField("incident_id", incident.ID).Info("Incident created successfully")
	return incident, nil
}

// Get возвращает инцидент, доступный владельцу или администратору
func (s *incidentService) Get(ctx context.Context, caller *models.User, id uuid.UUID) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "Get",
		"incident_id": id,
	})

	if cached, err := s.repo.GetIncidentFromCache(ctx, id); err == nil && cached != nil {
		if err := s.authorize(caller, cached); err != nil {
			return nil, err
		}
		return cached, nil
	} else if err != nil {
		log.WithError(err).Warn("Incident cache lookup failed")
	}

	incident, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to get incident from repository")
		return nil, fmt.Errorf("service: could not get incident: %w", err)
	}

	if err := s.authorize(caller, incident); err != nil {
		return nil, err
	}

	if err := s.repo.SetIncidentCache(ctx, incident); err != nil {
		log.WithError(err).Warn("Failed to cache incident")
	}
	return incident, nil
}

// authorize проверяет, что вызывающий владеет инцидентом или является администратором
func (s *incidentService) authorize(caller *models.User, incident *models.Incident) error {
	if incident.UserID != caller.ID && !caller.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// Update обновляет инцидент. Владелец записи никогда не меняется.
func (s *incidentService) Update(ctx context.Context, caller *models.User, id uuid.UUID, input CreateIncidentInput) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "Update",
		"incident_id": id,
	})
	log.Info("Attempting to update incident")

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Attempted to update a non-existent incident")
		return nil, fmt.Errorf("service: incident %s not found for update: %w", id, err)
	}

	if err := s.authorize(caller, existing); err != nil {
		return nil, err
	}

	lat, lon, err := resolveLocation(input)
	if err != nil {
		log.WithError(err).Warn("Invalid location in incident update")
		return nil, err
	}

	existing.IncidentType = input.IncidentType
	existing.Description = input.Description
	existing.Photo = input.Photo
	existing.Audio = input.Audio
	existing.Latitude = lat
	existing.Longitude = lon

	if err := s.repo.Update(ctx, existing); err != nil {
		log.WithError(err).Error("Failed to update incident in repository")
		return nil, fmt.Errorf("service: could not update incident: %w", err)
	}

	if err := s.repo.InvalidateIncidentCache(ctx, id); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}

	log.Info("Incident updated successfully")
	return existing, nil
}

// Delete удаляет инцидент владельца или по решению администратора
func (s *incidentService) Delete(ctx context.Context, caller *models.User, id uuid.UUID) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "Delete",
		"incident_id": id,
	})
	log.Info("Attempting to delete incident")

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Attempted to delete a non-existent incident")
		return fmt.Errorf("service: incident %s not found for delete: %w", id, err)
	}

	if err := s.authorize(caller, existing); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		log.WithError(err).Error("Failed to delete incident in repository")
		return fmt.Errorf("service: could not delete incident: %w", err)
	}

	if err := s.repo.InvalidateIncidentCache(ctx, id); err != nil {
		log.WithError(err).Warn("Failed to invalidate incident cache")
	}

	log.Info("Incident deleted successfully")
	return nil
}

// ListOwn возвращает инциденты вызывающего, новые первыми
func (s *incidentService) ListOwn(ctx context.Context, caller *models.User, page, pageSize int) ([]*models.Incident, error) {
	page, pageSize = normalizePage(page, pageSize)

	incidents, err := s.repo.ListByUser(ctx, caller.ID, page, pageSize)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list own incidents from repository")
		return nil, fmt.Errorf("service: could not list incidents: %w", err)
	}
	return incidents, nil
}

// ListAll возвращает все инциденты, доступно только администратору
func (s *incidentService) ListAll(ctx context.Context, caller *models.User, page, pageSize int) ([]*models.Incident, error) {
	if !caller.IsAdmin() {
		return nil, ErrForbidden
	}
	page, pageSize = normalizePage(page, pageSize)

	incidents, err := s.repo.ListAll(ctx, page, pageSize)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list all incidents from repository")
		return nil, fmt.Errorf("service: could not list incidents: %w", err)
	}
	return incidents, nil
}

// QueueOffline сохраняет офлайн-запись, ожидающую синхронизации
func (s *incidentService) QueueOffline(ctx context.Context, caller *models.User, input OfflineIncidentInput) (*models.OfflineIncident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "QueueOffline",
		"user_id": caller.ID,
	})
	log.Info("Queueing offline incident")

	offline := &models.OfflineIncident{
		UserID:       caller.ID,
		IncidentType: input.IncidentType,
		Description:  input.Description,
		PhotoPath:    input.PhotoPath,
		AudioPath:    input.AudioPath,
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
	}

	if err := s.repo.CreateOffline(ctx, offline); err != nil {
		log.WithError(err).Error("Failed to queue offline incident in repository")
		return nil, fmt.Errorf("service: could not queue offline incident: %w", err)
	}

	log.WithField("offline_id", offline.ID).Info("Offline incident queued")
	return offline, nil
}

// Sync переносит несинхронизированные офлайн-записи вызывающего в каноническую
// таблицу. Некорректные строки пропускаются и возвращаются в ответе, остальная
// часть пакета применяется атомарно.
func (s *incidentService) Sync(ctx context.Context, caller *models.User) (*models.SyncResult, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "Sync",
		"user_id": caller.ID,
	})
	log.Info("Starting offline incident sync")

	result, created, err := s.repo.SyncOffline(ctx, caller.ID)
	if err != nil {
		log.WithError(err).Error("Failed to sync offline incidents")
		return nil, fmt.Errorf("service: could not sync offline incidents: %w", err)
	}

	for _, incident := range created {
		s.publishEvent(ctx, incident, "sync")
	}

	log.WithFields(logrus.Fields{
		"synced":  result.Synced,
		"skipped": len(result.Skipped),
	}).Info("Offline incident sync completed")
	return result, nil
}

// GetStats возвращает агрегированную статистику, доступно только администратору
func (s *incidentService) GetStats(ctx context.Context, caller *models.User) (*models.IncidentStats, error) {
	if !caller.IsAdmin() {
		return nil, ErrForbidden
	}

	stats, err := s.repo.GetStats(ctx, s.cfg.StatsWindowDays, s.cfg.StatsTopUsers, s.cfg.StatsRecent)
	if err != nil {
		s.logger.WithError(err).Error("Failed to get incident stats from repository")
		return nil, fmt.Errorf("service: could not get incident stats: %w", err)
	}
	return stats, nil
}

// publishEvent отправляет событие диспетчерской службе, ошибки не фатальны
func (s *incidentService) publishEvent(ctx context.Context, incident *models.Incident, source string) {
	event := notify.IncidentEvent{
		IncidentID:   incident.ID,
		UserID:       incident.UserID,
		IncidentType: incident.IncidentType,
		Latitude:     incident.Latitude,
		Longitude:    incident.Longitude,
		Source:       source,
		Timestamp:    time.Now(),
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WithError(err).WithField("incident_id", incident.ID).Warn("Failed to publish incident event")
	}
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
