package config

import (
	"errors"
	"fmt"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var problems []error
	add := func(field, msg string) {
		problems = append(problems, ValidationError{Field: field, Message: msg})
	}

	if c.Server.Port == "" {
		add("server.port", "is required")
	}

	switch c.Database.Driver {
	case "postgres":
		if c.Database.Host == "" {
			add("db.host", "is required for postgres")
		}
		if c.Database.Name == "" {
			add("db.name", "is required for postgres")
		}
		if c.Env.IsProduction() && c.Database.Password == "" {
			add("db.password", "is required in production")
		}
	case "sqlite":
		if c.Database.Path == "" {
			add("db.path", "is required for sqlite")
		}
	default:
		add("db.driver", fmt.Sprintf("unsupported driver %q", c.Database.Driver))
	}

	if c.JWT.Secret == "" {
		add("jwt.secret", "is required")
	} else if c.Env.IsProduction() && c.JWT.Secret == DefaultJWTSecret {
		add("jwt.secret", "must be changed in production")
	}
	if c.JWT.TTL <= 0 {
		add("jwt.ttl", "must be positive")
	}

	switch c.Storage.Backend {
	case "local":
		if c.Storage.LocalDir == "" {
			add("storage.local_dir", "is required for local storage")
		}
	case "s3":
		if c.Storage.Bucket == "" {
			add("storage.bucket", "is required for s3 storage")
		}
	default:
		add("storage.backend", fmt.Sprintf("unsupported backend %q", c.Storage.Backend))
	}

	if c.RateLimit.RecipesPerHour < 0 {
		add("rate_limit.recipes_per_hour", "must not be negative")
	}

	return errors.Join(problems...)
}
