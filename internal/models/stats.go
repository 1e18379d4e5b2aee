package models

import "time"

// TypeCount - количество инцидентов одного типа
type TypeCount struct {
	IncidentType string `json:"incident_type"`
	Count        int    `json:"count"`
}

// ReporterCount - пользователь и количество его инцидентов
type ReporterCount struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Count    int    `json:"count"`
}

// DayCount - количество инцидентов за календарный день
type DayCount struct {
	Day   time.Time `json:"day"`
	Count int       `json:"count"`
}

// IncidentStats - агрегированная статистика для админской панели
type IncidentStats struct {
	ByType       []TypeCount     `json:"by_type"`
	TopReporters []ReporterCount `json:"top_reporters"`
	ByDay        []DayCount      `json:"by_day"`
	Recent       []*Incident     `json:"recent"`
}

// UserStats - агрегированная статистика по пользователям
type UserStats struct {
	TotalUsers       int `json:"total_users"`
	ActiveUsers      int `json:"active_users"`
	Admins           int `json:"admins"`
	Citizens         int `json:"citizens"`
	RegisteredLast7d int `json:"registered_last_7d"`
}
