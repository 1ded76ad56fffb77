package config

import (
	"errors"
	"fmt"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"gopkg.in/yaml.v3"
)

const (
	ServiceTypeHTTP     = "http"
	ServiceTypePostgres = "postgres"
	ServiceTypeRedis    = "redis"
)

// ServiceConfig is one entry of the service catalogue file.
type ServiceConfig struct {
	Name        string            `yaml:"name"`
	Title       string            `yaml:"title"`
	ComponentID string            `yaml:"component_id"`
	Type        string            `yaml:"type"`
	URL         string            `yaml:"url"`
	Headers     map[string]string `yaml:"headers"`
}

var ErrNoServices = errors.New("configuration must define at least one service")

type servicesFile struct {
	Services []ServiceConfig `yaml:"services"`
}

// LoadServices reads the catalogue. Missing titles default to "<name> is down"
// and a missing type defaults to http.
func LoadServices(path string) ([]ServiceConfig, error) {
	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("services file %s: %w", path, ErrNoServices)
	}
	if err != nil {
		return nil, fmt.Errorf("read services file: %w", err)
	}
	return ParseServices(content)
}

func ParseServices(content []byte) ([]ServiceConfig, error) {
	var file servicesFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("parse services file: %w", err)
	}
	if len(file.Services) == 0 {
		return nil, ErrNoServices
	}

	for i := range file.Services {
		s := &file.Services[i]
		if s.Type == "" {
			s.Type = ServiceTypeHTTP
		}
		if s.Title == "" && s.Name != "" {
			s.Title = s.Name + " is down"
		}
		for k, v := range s.Headers {
			s.Headers[k] = os.ExpandEnv(v)
		}
	}
	return file.Services, nil
}

func (s *ServiceConfig) Validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.Name, validation.Required),
		validation.Field(&s.Title, validation.Required),
		validation.Field(&s.ComponentID, validation.Required),
		validation.Field(&s.Type,
			validation.Required,
			validation.In(ServiceTypeHTTP, ServiceTypePostgres, ServiceTypeRedis),
		),
		validation.Field(&s.URL,
			validation.When(s.Type == ServiceTypeHTTP, validation.Required, is.URL),
		),
	)
}
