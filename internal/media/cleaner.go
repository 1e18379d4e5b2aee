package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const cleanupQueueKey = "media_cleanup"

// Cleaner - интерфейс для отложенного удаления заменённых медиафайлов.
// Удаление старой фотографии профиля - явный шаг сервисного слоя,
// а не побочный эффект сохранения записи.
type Cleaner interface {
	Schedule(ctx context.Context, path string) error
}

// RedisCleaner кладет пути файлов в очередь Redis
type RedisCleaner struct {
	redisClient *redis.Client
}

// NewRedisCleaner создает новый RedisCleaner
func NewRedisCleaner(client *redis.Client) *RedisCleaner {
	return &RedisCleaner{
		redisClient: client,
	}
}

// Schedule ставит путь файла в очередь на удаление
func (c *RedisCleaner) Schedule(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}
	if err := c.redisClient.LPush(ctx, cleanupQueueKey, path).Err(); err != nil {
		return fmt.Errorf("failed to schedule media cleanup: %w", err)
	}
	return nil
}

// CleanupWorker удаляет файлы из очереди с диска
type CleanupWorker struct {
	redisClient *redis.Client
	logger      *logrus.Logger
	mediaRoot   string
}

// NewCleanupWorker создает новый CleanupWorker
func NewCleanupWorker(redisClient *redis.Client, logger *logrus.Logger, mediaRoot string) *CleanupWorker {
	return &CleanupWorker{
		redisClient: redisClient,
		logger:      logger,
		mediaRoot:   mediaRoot,
	}
}

// Start запускает горутину для обработки очереди удаления
func (w *CleanupWorker) Start(ctx context.Context) {
	w.logger.Info("Starting media cleanup worker...")
	go func() {
		for {
			select {
			case <-ctx.Done():
				w.logger.Info("Stopping media cleanup worker.")
				return
			default:
				result, err := w.redisClient.BRPop(ctx, 0, cleanupQueueKey).Result()
				if err != nil {
					if errors.Is(err, context.Canceled) {
						continue
					}
					w.logger.WithError(err).Error("Failed to pop media path from Redis")
					time.Sleep(5 * time.Second)
					continue
				}

				w.remove(result[1])
			}
		}
	}()
}

func (w *CleanupWorker) remove(path string) {
	log := w.logger.WithField("path", path)

	// Удаляем только файлы внутри медиа-каталога
	full := filepath.Join(w.mediaRoot, filepath.Clean("/"+path))
	if !strings.HasPrefix(full, filepath.Clean(w.mediaRoot)+string(os.PathSeparator)) {
		log.Warn("Media path escapes media root, refusing to delete")
		return
	}

	if err := os.Remove(full); err != nil {
		if os.IsNotExist(err) {
			log.Debug("Media file already gone")
			return
		}
		log.WithError(err).Error("Failed to remove media file")
		return
	}
	log.Info("Removed replaced media file")
}
