package v1

import (
	"database/sql"
	"fmt"
	"net/http"

	"statuspage-cron/config"
	"statuspage-cron/models"

	"github.com/go-redis/redis/v8"
)

// Dependencies are the shared clients services can be built on. Postgres and
// Redis are only needed when a service of that type is configured.
type Dependencies struct {
	HTTP     *http.Client
	Postgres *sql.DB
	Redis    *redis.Client
}

// BuildServices turns the catalogue into checkable services, keeping order.
func BuildServices(defs []config.ServiceConfig, deps Dependencies) ([]Checkable, error) {
	services := make([]Checkable, 0, len(defs))
	for _, def := range defs {
		desc := models.ServiceDescriptor{
			Name:        def.Name,
			Title:       def.Title,
			ComponentID: def.ComponentID,
		}

		switch def.Type {
		case config.ServiceTypeHTTP, "":
			services = append(services, &HTTPService{
				ServiceDescriptor: desc,
				URL:               def.URL,
				Headers:           def.Headers,
				Client:            deps.HTTP,
			})
		case config.ServiceTypePostgres:
			if deps.Postgres == nil {
				return nil, fmt.Errorf("service %q: postgres is not configured", def.Name)
			}
			services = append(services, &PostgresService{ServiceDescriptor: desc, DB: deps.Postgres})
		case config.ServiceTypeRedis:
			if deps.Redis == nil {
				return nil, fmt.Errorf("service %q: redis is not configured", def.Name)
			}
			services = append(services, &RedisService{ServiceDescriptor: desc, Client: deps.Redis})
		default:
			return nil, fmt.Errorf("service %q: unknown type %q", def.Name, def.Type)
		}
	}
	return services, nil
}
