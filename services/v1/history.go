package v1

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"statuspage-cron/models"

	"github.com/go-redis/redis/v8"
)

const historyLimit = 1000

// RedisHistory keeps the latest check records of each service in a Redis list
// and per-day counters in a hash.
type RedisHistory struct {
	rdb *redis.Client
	now func() time.Time
}

func NewRedisHistory(rdb *redis.Client) *RedisHistory {
	return &RedisHistory{rdb: rdb, now: time.Now}
}

func historyKey(name string) string {
	return fmt.Sprintf("service:%s:history", name)
}

func metricsKey(name string, day time.Time) string {
	return fmt.Sprintf("service:%s:metrics:%s", name, day.UTC().Format("2006-01-02"))
}

// Record appends the result and bumps total_checks plus healthy or unhealthy.
func (h *RedisHistory) Record(ctx context.Context, name string, outcome models.Outcome, duration time.Duration) error {
	now := h.now().UTC()
	record := models.CheckRecord{
		Timestamp:    now,
		Outcome:      outcome,
		ResponseTime: duration.Milliseconds(),
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("serialize check record: %w", err)
	}

	counter := "unhealthy"
	if outcome.Healthy() {
		counter = "healthy"
	}

	key := historyKey(name)
	mKey := metricsKey(name, now)

	pipe := h.rdb.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.LTrim(ctx, key, -historyLimit, -1)
	pipe.HIncrBy(ctx, mKey, "total_checks", 1)
	pipe.HIncrBy(ctx, mKey, counter, 1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store check record: %w", err)
	}
	return nil
}

// History returns up to limit of the newest records, oldest first.
func (h *RedisHistory) History(ctx context.Context, name string, limit int) ([]models.CheckRecord, error) {
	if limit <= 0 || limit > historyLimit {
		limit = historyLimit
	}
	raw, err := h.rdb.LRange(ctx, historyKey(name), int64(-limit), -1).Result()
	if err != nil {
		return nil, err
	}

	records := make([]models.CheckRecord, 0, len(raw))
	for _, item := range raw {
		var rec models.CheckRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			// skip entries we can't read rather than fail the whole list
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// DailyCounts returns the counters for the given day.
func (h *RedisHistory) DailyCounts(ctx context.Context, name string, day time.Time) (map[string]string, error) {
	return h.rdb.HGetAll(ctx, metricsKey(name, day)).Result()
}
