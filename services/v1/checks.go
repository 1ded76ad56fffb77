package v1

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"

	"statuspage-cron/models"

	"github.com/go-redis/redis/v8"
)

// Checkable is a monitored service: its descriptor plus a way to check it.
// Check returns a numeric outcome; an error means the check itself failed.
// Check should return once ctx is done; the health checker stops waiting at
// the deadline either way.
type Checkable interface {
	Describe() models.ServiceDescriptor
	Check(ctx context.Context) (models.Outcome, error)
}

// HTTPService checks an API with a GET request. The outcome is the response
// status code, so anything but 200 counts as down.
type HTTPService struct {
	models.ServiceDescriptor
	URL     string
	Headers map[string]string
	Client  *http.Client
}

func (s *HTTPService) Check(ctx context.Context) (models.Outcome, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return models.OutcomeUnhealthy, err
	}
	for k, v := range s.Headers {
		req.Header.Set(k, v)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return models.OutcomeUnhealthy, fmt.Errorf("GET %s: %w", s.URL, err)
	}
	defer resp.Body.Close()
	// drain so the connection can be reused
	io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	return models.Outcome(resp.StatusCode), nil
}

// PostgresService pings a database through the shared pool.
type PostgresService struct {
	models.ServiceDescriptor
	DB *sql.DB
}

func (s *PostgresService) Check(ctx context.Context) (models.Outcome, error) {
	if err := s.DB.PingContext(ctx); err != nil {
		return models.OutcomeUnhealthy, fmt.Errorf("postgres ping: %w", err)
	}
	return models.OutcomeHealthy, nil
}

// RedisService sends PING and expects PONG.
type RedisService struct {
	models.ServiceDescriptor
	Client *redis.Client
}

func (s *RedisService) Check(ctx context.Context) (models.Outcome, error) {
	pong, err := s.Client.Ping(ctx).Result()
	if err != nil {
		return models.OutcomeUnhealthy, fmt.Errorf("redis ping: %w", err)
	}
	if pong != "PONG" {
		return models.OutcomeUnhealthy, fmt.Errorf("redis ping: unexpected reply %q", pong)
	}
	return models.OutcomeHealthy, nil
}
