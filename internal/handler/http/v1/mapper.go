package v1

import (
	"github.com/citywatch/incident_reporting_system/internal/models"
	"github.com/citywatch/incident_reporting_system/internal/service"
)

// DTOToIncidentInput преобразует DTO создания/обновления в сервисный ввод
func DTOToIncidentInput(dto CreateIncidentRequest) service.CreateIncidentInput {
	return service.CreateIncidentInput{
		IncidentType: dto.IncidentType,
		Description:  dto.Description,
		Photo:        dto.Photo,
		Audio:        dto.Audio,
		Location:     dto.Location,
		Latitude:     dto.Latitude,
		Longitude:    dto.Longitude,
	}
}

// ModelToIncidentResponse преобразует доменную модель в DTO для ответа
func ModelToIncidentResponse(model *models.Incident) *IncidentResponse {
	return &IncidentResponse{
		ID:           model.ID,
		UserID:       model.UserID,
		IncidentType: model.IncidentType,
		Description:  model.Description,
		Photo:        model.Photo,
		Audio:        model.Audio,
		Latitude:     model.Latitude,
		Longitude:    model.Longitude,
		CreatedAt:    model.CreatedAt,
	}
}

// ModelsToIncidentResponses преобразует слайс моделей в слайс DTO
func ModelsToIncidentResponses(models []*models.Incident) []*IncidentResponse {
	responses := make([]*IncidentResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToIncidentResponse(model)
	}
	return responses
}

// ModelToUserResponse преобразует доменную модель пользователя в DTO.
// Хеши пароля и биометрии наружу не отдаются.
func ModelToUserResponse(model *models.User) *UserResponse {
	return &UserResponse{
		ID:             model.ID,
		Username:       model.Username,
		Email:          model.Email,
		Role:           model.Role,
		PhoneNumber:    model.PhoneNumber,
		ProfilePicture: model.ProfilePicture,
		IsActive:       model.IsActive,
		CreatedAt:      model.CreatedAt,
		LastLogin:      model.LastLogin,
	}
}

// ModelsToUserResponses преобразует слайс моделей в слайс DTO
func ModelsToUserResponses(models []*models.User) []*UserResponse {
	responses := make([]*UserResponse, len(models))
	for i, model := range models {
		responses[i] = ModelToUserResponse(model)
	}
	return responses
}

// ModelToOfflineIncidentResponse преобразует офлайн-запись в DTO
func ModelToOfflineIncidentResponse(model *models.OfflineIncident) *OfflineIncidentResponse {
	return &OfflineIncidentResponse{
		ID:           model.ID,
		UserID:       model.UserID,
		IncidentType: model.IncidentType,
		Description:  model.Description,
		PhotoPath:    model.PhotoPath,
		AudioPath:    model.AudioPath,
		Latitude:     model.Latitude,
		Longitude:    model.Longitude,
		IsSynced:     model.IsSynced,
		CreatedAt:    model.CreatedAt,
	}
}

// SyncResultToResponse преобразует итог синхронизации в DTO
func SyncResultToResponse(result *models.SyncResult) *SyncResponse {
	resp := &SyncResponse{
		Status:          "success",
		SyncedIncidents: result.Synced,
	}
	for _, skipped := range result.Skipped {
		resp.SkippedIncidents = append(resp.SkippedIncidents, SkippedIncidentResponse{
			ID:     skipped.ID,
			Reason: skipped.Reason,
		})
	}
	return resp
}
