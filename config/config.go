package config

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const DefaultStatuspageBaseURL = "https://api.statuspage.io/v1"

type Config struct {
	Port string

	StatuspageAPIKey  string
	PageID            string
	StatuspageBaseURL string

	ServicesFile string
	PostgresURI  string
	RedisURI     string

	SchedulerEnabled bool
	CycleSchedule    string
	DailySchedule    string

	CheckTimeout   time.Duration
	RequestTimeout time.Duration

	// ClearOnResolveFailure drops the tracked incident even when resolving it
	// on the status page failed.
	ClearOnResolveFailure bool

	Services []ServiceConfig
}

// LoadConfig reads the environment (after .env) and the service catalogue.
func LoadConfig() (*Config, error) {
	LoadDotEnv()

	cfg := FromEnv()

	services, err := LoadServices(cfg.ServicesFile)
	if err != nil {
		return nil, err
	}
	cfg.Services = services

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// FromEnv builds a Config from environment variables only.
func FromEnv() *Config {
	return &Config{
		Port:                  GetEnv("PORT", "8081"),
		StatuspageAPIKey:      GetEnv("STATUSPAGE_API_KEY", ""),
		PageID:                GetEnv("PAGE_ID", ""),
		StatuspageBaseURL:     GetEnv("STATUSPAGE_BASE_URL", DefaultStatuspageBaseURL),
		ServicesFile:          GetEnv("SERVICES_FILE", "services.yaml"),
		PostgresURI:           GetEnv("POSTGRES_URI", ""),
		RedisURI:              GetEnv("REDIS_URI", ""),
		SchedulerEnabled:      GetEnvBool("SCHEDULER_ENABLED", true),
		CycleSchedule:         GetEnv("CYCLE_SCHEDULE", "*/12 * * * *"),
		DailySchedule:         GetEnv("DAILY_SCHEDULE", "0 4 * * *"),
		CheckTimeout:          GetEnvDuration("CHECK_TIMEOUT", 10*time.Second),
		RequestTimeout:        GetEnvDuration("REQUEST_TIMEOUT", 10*time.Second),
		ClearOnResolveFailure: GetEnvBool("CLEAR_ON_RESOLVE_FAILURE", true),
	}
}

func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, is.Port),
		validation.Field(&c.StatuspageAPIKey, validation.Required),
		validation.Field(&c.PageID, validation.Required),
		validation.Field(&c.StatuspageBaseURL, validation.Required, is.URL),
		validation.Field(&c.CycleSchedule, validation.When(c.SchedulerEnabled, validation.Required)),
		validation.Field(&c.DailySchedule, validation.When(c.SchedulerEnabled, validation.Required)),
		validation.Field(&c.CheckTimeout, validation.Min(time.Millisecond)),
		validation.Field(&c.RequestTimeout, validation.Min(time.Millisecond)),
		validation.Field(&c.Services, validation.Required),
	)
	if err != nil {
		return err
	}

	seen := make(map[string]bool, len(c.Services))
	for i := range c.Services {
		s := &c.Services[i]
		if err := s.Validate(); err != nil {
			return fmt.Errorf("service %d (%s): %w", i, s.Name, err)
		}
		if seen[s.Name] {
			return fmt.Errorf("service %q is defined more than once", s.Name)
		}
		seen[s.Name] = true

		switch s.Type {
		case ServiceTypePostgres:
			if c.PostgresURI == "" {
				return fmt.Errorf("service %q needs POSTGRES_URI", s.Name)
			}
		case ServiceTypeRedis:
			if c.RedisURI == "" {
				return fmt.Errorf("service %q needs REDIS_URI", s.Name)
			}
		}
	}
	return nil
}
