package models

import (
	"time"

	"github.com/google/uuid"
)

// OfflineIncident - запись, созданная клиентом без сети и ожидающая
// переноса в каноническую таблицу. Флаг IsSynced меняется только
// false -> true и никогда обратно.
type OfflineIncident struct {
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
