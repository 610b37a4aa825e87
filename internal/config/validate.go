package config

import (
	"fmt"
	"time"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}

	if err := c.Session.validate(); err != nil {
		return fmt.Errorf("session: %w", err)
	}

	if c.Audit.Enabled && c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required when audit is enabled")
	}
	if c.Audit.RetentionDays <= 0 {
		return fmt.Errorf("audit.retention_days must be > 0 (got %d)", c.Audit.RetentionDays)
	}
	if c.Audit.Enabled {
		if c.Audit.BufferSize <= 0 {
			return fmt.Errorf("audit.buffer_size must be > 0 (got %d)", c.Audit.BufferSize)
		}
		if c.Audit.WriteTimeout <= 0 {
			return fmt.Errorf("audit.write_timeout must be > 0 (got %s)", c.Audit.WriteTimeout)
		}
	}

	if c.RateLimit.SessionsPerMinute < 0 {
		return fmt.Errorf("rate_limit.sessions_per_minute must be >= 0 (got %d)", c.RateLimit.SessionsPerMinute)
	}
	if c.RateLimit.CleanupInterval <= 0 {
		return fmt.Errorf("rate_limit.cleanup_interval must be > 0 (got %s)", c.RateLimit.CleanupInterval)
	}

	return nil
}

func (s *SessionConfig) validate() error {
	if s.IdleTTL <= 0 {
		return fmt.Errorf("idle_ttl must be > 0 (got %s)", s.IdleTTL)
	}
	if s.SweepInterval <= 0 {
		return fmt.Errorf("sweep_interval must be > 0 (got %s)", s.SweepInterval)
	}
	if s.MaxSessions < 0 {
		return fmt.Errorf("max_sessions must be >= 0 (got %d)", s.MaxSessions)
	}
	if s.Timezone != "" {
		if _, err := time.LoadLocation(s.Timezone); err != nil {
			return fmt.Errorf("timezone %q: %w", s.Timezone, err)
		}
	}
	return nil
}
