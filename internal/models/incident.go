package models

import (
	"time"

	"github.com/google/uuid"
)

// Типы инцидентов
const (
	IncidentTypeFire     = "fire"
	IncidentTypeAccident = "accident"
	IncidentTypeTheft    = "theft"
	IncidentTypeOther    = "other"
)

// Incident - каноническая запись об инциденте.
// Точка хранится в SRID 4326: x - долгота, y - широта.
type Incident struct {
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
