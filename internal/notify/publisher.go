package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const dispatchQueueKey = "incident_events"

// IncidentEvent - событие о новом инциденте для диспетчерской службы.
// Попадает в очередь при прямой отправке и при офлайн-синхронизации.
type IncidentEvent struct {
	IncidentID   uuid.UUID `json:"incident_id"`
	UserID       uuid.UUID `json:"user_id"`
	IncidentType string    `json:"incident_type"`
	Latitude     float64   `json:"latitude"`
	Longitude    float64   `json:"longitude"`
	Source       string    `json:"source"` // "direct" или "sync"
	Timestamp    time.Time `json:"timestamp"`
}

// Publisher - интерфейс для публикации событий об инцидентах
type Publisher interface {
	Publish(ctx context.Context, event IncidentEvent) error
}

// RedisPublisher - реализация Publisher, использующая Redis
type RedisPublisher struct {
	redisClient *redis.Client
}

// NewRedisPublisher создает новый RedisPublisher
func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{
		redisClient: client,
	}
}

// Publish публикует событие в очередь Redis
func (p *RedisPublisher) Publish(ctx context.Context, event IncidentEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal incident event: %w", err)
	}

	// LPUSH в левую часть списка, воркер читает BRPop с правой
	if err := p.redisClient.LPush(ctx, dispatchQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish incident event to Redis: %w", err)
	}
	return nil
}
