package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks the configuration for the current environment.
// Development tolerates missing secrets so a bare checkout still starts.
func ValidateConfig(cfg *Config) error {
	var errs []string

	if _, err := strconv.Atoi(cfg.ServerPort); err != nil {
		errs = append(errs, ValidationError{"SERVER_PORT", "must be numeric"}.Error())
	}

	for field, value := range map[string]string{
		"DB_HOST": cfg.DBHost,
		"DB_PORT": cfg.DBPort,
		"DB_USER": cfg.DBUser,
		"DB_NAME": cfg.DBName,
	} {
		if value == "" {
			errs = append(errs, ValidationError{field, "is required"}.Error())
		}
	}

	if !IsDevelopment() {
		if cfg.JWTSecret == "" {
			errs = append(errs, ValidationError{"JWT_SECRET", "is required outside development"}.Error())
		}
		if cfg.DBPassword == "" {
			errs = append(errs, ValidationError{"DB_PASSWORD", "is required outside development"}.Error())
		}
	}

	// Google OAuth credentials travel together.
	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret == "" {
		errs = append(errs, ValidationError{"GOOGLE_CLIENT_SECRET", "is required when GOOGLE_CLIENT_ID is set"}.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}
