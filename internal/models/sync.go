package models

import "github.com/google/uuid"

// SkippedOffline - офлайн-запись, пропущенная при синхронизации, и причина
type SkippedOffline struct {
	ID     uuid.UUID `json:"id"`
	Reason string    `json:"reason"`
}

// SyncResult - итог одного вызова синхронизации
type SyncResult struct {
	Synced  int              `json:"synced_incidents"`
	Skipped []SkippedOffline `json:"skipped_incidents,omitempty"`
}
