package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/citywatch/incident_reporting_system/internal/models"
	"github.com/citywatch/incident_reporting_system/internal/service"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

type IncidentRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
}

func NewIncidentRepository(db *pgxpool.Pool, redisClient *redis.Client) service.IncidentRepository {
	return &IncidentRepository{
		db:          db,
		redisClient: redisClient,
	}
}

// Create создает новую запись об инциденте в бд.
// Точка строится как (долгота, широта) в SRID 4326.
func (r *IncidentRepository) Create(ctx context.Context, incident *models.Incident) error {
	query := `
		INSERT INTO incidents (user_id, incident_type, description, photo, audio, location)
		VALUES ($1, $2, $3, $4, $5, ST_SetSRID(ST_MakePoint($6, $7), 4326)) RETURNING id, created_at;
	`
	err := r.db.QueryRow(ctx, query,
		incident.UserID,
		incident.IncidentType,
		incident.Description,
		incident.Photo,
		incident.Audio,
		incident.Longitude,
		incident.Latitude,
	).Scan(&incident.ID, &incident.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create incident: %w", err)
	}
	return nil
}

const incidentColumns = `
	id,
	user_id,
	incident_type,
	description,
	photo,
	audio,
	ST_Y(location::geometry) as latitude,
	ST_X(location::geometry) as longitude,
	created_at`

func scanIncident(row pgx.Row) (*models.Incident, error) {
	incident := &models.Incident{}
	err := row.Scan(
		&incident.ID,
		&incident.UserID,
		&incident.IncidentType,
		&incident.Description,
		&incident.Photo,
		&incident.Audio,
		&incident.Latitude,
		&incident.Longitude,
		&incident.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return incident, nil
}

// GetByID возвращает инцидент по его UUID
func (r *IncidentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	query := `SELECT` + incidentColumns + ` FROM incidents WHERE id = $1;`
	incident, err := scanIncident(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("incident with id %s: %w", id, service.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get incident by id: %w", err)
	}
	return incident, nil
}

// Update обновляет инцидент, user_id намеренно не трогается
func (r *IncidentRepository) Update(ctx context.Context, incident *models.Incident) error {
	query := `
		UPDATE incidents SET
			incident_type = $1,
			description = $2,
			photo = $3,
			audio = $4,
			location = ST_SetSRID(ST_MakePoint($5, $6), 4326)
		WHERE id = $7;
	`
	cmdTag, err := r.db.Exec(ctx, query,
		incident.IncidentType,
		incident.Description,
		incident.Photo,
		incident.Audio,
		incident.Longitude,
		incident.Latitude,
		incident.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update incident: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("incident with id %s not found for update: %w", incident.ID, service.ErrNotFound)
	}
	return nil
}

// Delete удаляет инцидент
func (r *IncidentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM incidents WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("failed to delete incident: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("incident with id %s not found for delete: %w", id, service.ErrNotFound)
	}
	return nil
}

// ListByUser возвращает инциденты пользователя с пагинацией, новые первыми
func (r *IncidentRepository) ListByUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]*models.Incident, error) {
	offset := (page - 1) * pageSize

	query := `SELECT` + incidentColumns + ` FROM incidents WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3;`
	rows, err := r.db.Query(ctx, query, userID, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents by user: %w", err)
	}
	return collectIncidents(rows)
}

// ListAll возвращает все инциденты с пагинацией, новые первыми
func (r *IncidentRepository) ListAll(ctx context.Context, page, pageSize int) ([]*models.Incident, error) {
	offset := (page - 1) * pageSize

	query := `SELECT` + incidentColumns + ` FROM incidents ORDER BY created_at DESC LIMIT $1 OFFSET $2;`
	rows, err := r.db.Query(ctx, query, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	return collectIncidents(rows)
}

func collectIncidents(rows pgx.Rows) ([]*models.Incident, error) {
	defer rows.Close()

	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		incident, err := scanIncident(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident row: %w", err)
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return incidents, nil
}

// CreateOffline сохраняет офлайн-запись с is_synced = false
func (r *IncidentRepository) CreateOffline(ctx context.Context, incident *models.OfflineIncident) error {
	query := `
		INSERT INTO offline_incidents (user_id, incident_type, description, photo_path, audio_path, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, is_synced, created_at;
	`
	err := r.db.QueryRow(ctx, query,
		incident.UserID,
		incident.IncidentType,
		incident.Description,
		incident.PhotoPath,
		incident.AudioPath,
		incident.Latitude,
		incident.Longitude,
	).Scan(&incident.ID, &incident.IsSynced, &incident.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create offline incident: %w", err)
	}
	return nil
}

// validIncidentType проверяет тип перед вставкой в каноническую таблицу,
// офлайн-таблица тип не ограничивает
func validIncidentType(t string) bool {
	switch t {
	case models.IncidentTypeFire, models.IncidentTypeAccident, models.IncidentTypeTheft, models.IncidentTypeOther:
		return true
	}
	return false
}

// SyncOffline переносит несинхронизированные офлайн-записи пользователя в
// каноническую таблицу в одной транзакции. FOR UPDATE SKIP LOCKED исключает
// двойную конвертацию строки при одновременных вызовах: параллельная
// транзакция пропустит уже заблокированные строки. Пара (вставка, флаг)
// применяется атомарно вместе со всем пакетом, при любой ошибке записи
// транзакция откатывается и строки остаются нетронутыми. Строки с
// некорректными координатами или неизвестным типом пропускаются и
// возвращаются в результате.
func (r *IncidentRepository) SyncOffline(ctx context.Context, userID uuid.UUID) (*models.SyncResult, []*models.Incident, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin sync transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `
		SELECT id, incident_type, description, photo_path, audio_path, latitude, longitude
		FROM offline_incidents
		WHERE user_id = $1 AND NOT is_synced
		ORDER BY created_at, id
		FOR UPDATE SKIP LOCKED;
	`, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to select pending offline incidents: %w", err)
	}

	pending := make([]*models.OfflineIncident, 0)
	for rows.Next() {
		row := &models.OfflineIncident{UserID: userID}
		err := rows.Scan(
			&row.ID,
			&row.IncidentType,
			&row.Description,
			&row.PhotoPath,
			&row.AudioPath,
			&row.Latitude,
			&row.Longitude,
		)
		if err != nil {
			rows.Close()
			return nil, nil, fmt.Errorf("failed to scan offline incident row: %w", err)
		}
		pending = append(pending, row)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error pending iteration: %w", err)
	}

	result := &models.SyncResult{Skipped: make([]models.SkippedOffline, 0)}
	created := make([]*models.Incident, 0, len(pending))

	for _, row := range pending {
		if err := models.ValidateCoordinates(row.Latitude, row.Longitude); err != nil {
			result.Skipped = append(result.Skipped, models.SkippedOffline{ID: row.ID, Reason: err.Error()})
			continue
		}
		if !validIncidentType(row.IncidentType) {
			result.Skipped = append(result.Skipped, models.SkippedOffline{
				ID:     row.ID,
				Reason: fmt.Sprintf("unknown incident type %q", row.IncidentType),
			})
			continue
		}

		incident := &models.Incident{
			UserID:       userID,
			IncidentType: row.IncidentType,
			Description:  row.Description,
			Photo:        row.PhotoPath,
			Audio:        row.AudioPath,
			Latitude:     row.Latitude,
			Longitude:    row.Longitude,
		}

		err := tx.QueryRow(ctx, `
			INSERT INTO incidents (user_id, incident_type, description, photo, audio, location)
			VALUES ($1, $2, $3, $4, $5, ST_SetSRID(ST_MakePoint($6, $7), 4326)) RETURNING id, created_at;
		`,
			incident.UserID,
			incident.IncidentType,
			incident.Description,
			incident.Photo,
			incident.Audio,
			incident.Longitude,
			incident.Latitude,
		).Scan(&incident.ID, &incident.CreatedAt)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create incident from offline row %s: %w", row.ID, err)
		}

		if _, err := tx.Exec(ctx, `UPDATE offline_incidents SET is_synced = TRUE WHERE id = $1;`, row.ID); err != nil {
			return nil, nil, fmt.Errorf("failed to mark offline row %s as synced: %w", row.ID, err)
		}

		created = append(created, incident)
		result.Synced++
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to commit sync transaction: %w", err)
	}
	return result, created, nil
}

// GetStats возвращает агрегаты по инцидентам для админской панели
func (r *IncidentRepository) GetStats(ctx context.Context, windowDays, topUsers, recent int) (*models.IncidentStats, error) {
	stats := &models.IncidentStats{
		ByType:       make([]models.TypeCount, 0),
		TopReporters: make([]models.ReporterCount, 0),
		ByDay:        make([]models.DayCount, 0),
	}

	rows, err := r.db.Query(ctx, `
		SELECT incident_type, COUNT(*)
		FROM incidents
		GROUP BY incident_type
		ORDER BY COUNT(*) DESC;
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to count incidents by type: %w", err)
	}
	for rows.Next() {
		var tc models.TypeCount
		if err := rows.Scan(&tc.IncidentType, &tc.Count); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan type count: %w", err)
		}
		stats.ByType = append(stats.ByType, tc)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error type count iteration: %w", err)
	}

	rows, err = r.db.Query(ctx, `
		SELECT u.id, u.username, COUNT(i.id)
		FROM incidents i
		JOIN users u ON u.id = i.user_id
		GROUP BY u.id, u.username
		ORDER BY COUNT(i.id) DESC
		LIMIT $1;
	`, topUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to get top reporters: %w", err)
	}
	for rows.Next() {
		var rc models.ReporterCount
		if err := rows.Scan(&rc.UserID, &rc.Username, &rc.Count); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan reporter count: %w", err)
		}
		stats.TopReporters = append(stats.TopReporters, rc)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error top reporters iteration: %w", err)
	}

	rows, err = r.db.Query(ctx, `
		SELECT date_trunc('day', created_at) AS day, COUNT(*)
		FROM incidents
		WHERE created_at >= NOW() - ($1 * INTERVAL '1 day')
		GROUP BY day
		ORDER BY day;
	`, windowDays)
	if err != nil {
		return nil, fmt.Errorf("failed to count incidents by day: %w", err)
	}
	for rows.Next() {
		var dc models.DayCount
		if err := rows.Scan(&dc.Day, &dc.Count); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan day count: %w", err)
		}
		stats.ByDay = append(stats.ByDay, dc)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error day count iteration: %w", err)
	}

	recentRows, err := r.db.Query(ctx, `SELECT`+incidentColumns+` FROM incidents ORDER BY created_at DESC LIMIT $1;`, recent)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent incidents: %w", err)
	}
	stats.Recent, err = collectIncidents(recentRows)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// GetIncidentFromCache пытается получить инцидент из Redis
func (r *IncidentRepository) GetIncidentFromCache(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	key := fmt.Sprintf("incident:%s", id.String())
	val, err := r.redisClient.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get incident from cache: %w", err)
	}

	incident := &models.Incident{}
	if err := json.Unmarshal(val, incident); err != nil {
		return nil, fmt.Errorf("failed to unmarshal incident from cache: %w", err)
	}
	return incident, nil
}

// SetIncidentCache сохраняет инцидент в Redis
func (r *IncidentRepository) SetIncidentCache(ctx context.Context, incident *models.Incident) error {
	key := fmt.Sprintf("incident:%s", incident.ID.String())
	val, err := json.Marshal(incident)
	if err != nil {
		return fmt.Errorf("failed to marshal incident for cache: %w", err)
	}
	// Срок жизни кэша 5 минут
	if err := r.redisClient.Set(ctx, key, val, 5*time.Minute).Err(); err != nil {
		return fmt.Errorf("failed to set incident in cache: %w", err)
	}
	return nil
}

// InvalidateIncidentCache удаляет инцидент из Redis кэша
func (r *IncidentRepository) InvalidateIncidentCache(ctx context.Context, id uuid.UUID) error {
	key := fmt.Sprintf("incident:%s", id.String())
	if err := r.redisClient.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate incident cache: %w", err)
	}
	return nil
}
