package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate validates server configuration
func (s *ServerConfig) Validate() error {
	var errs []string

	if s.Address == "" {
		errs = append(errs, "address cannot be empty")
	}
	if s.PathPrefix != "" && !strings.HasPrefix(s.PathPrefix, "/") {
		errs = append(errs, "path_prefix must start with /")
	}
	if s.ReadTimeout < 0 {
		errs = append(errs, "read_timeout cannot be negative")
	}
	if s.WriteTimeout < 0 {
		errs = append(errs, "write_timeout cannot be negative")
	}
	if s.ShutdownTimeout < 0 {
		errs = append(errs, "shutdown_timeout cannot be negative")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Validate validates storage configuration
func (s *StorageConfig) Validate() error {
	switch s.Adapter {
	case "memory":
		return nil
	case "redis":
		if s.Redis.Addr == "" {
			return errors.New("redis adapter requires redis.addr")
		}
		return nil
	case "sql":
		if s.SQL.Driver == "" {
			return errors.New("sql adapter requires sql.driver")
		}
		return nil
	case "file":
		if s.File.Path == "" {
			return errors.New("file adapter requires file.path")
		}
		return nil
	case "":
		return errors.New("adapter cannot be empty")
	default:
		return fmt.Errorf("unknown adapter %q (want memory, redis, sql or file)", s.Adapter)
	}
}

// Validate validates logging configuration
func (l *LoggingConfig) Validate() error {
	var errs []string

	switch strings.ToLower(l.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("unknown level %q (want debug, info, warn or error)", l.Level))
	}

	switch strings.ToLower(l.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Sprintf("unknown format %q (want json or text)", l.Format))
	}

	switch strings.ToLower(l.Output) {
	case "stdout", "stderr":
	default:
		errs = append(errs, fmt.Sprintf("unknown output %q (want stdout or stderr)", l.Output))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Validate validates webhook configuration
func (w *WebhookConfig) Validate() error {
	for _, endpoint := range w.Endpoints {
		u, err := url.Parse(endpoint)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid webhook endpoint %q", endpoint)
		}
	}
	return nil
}

// Validate validates security configuration
func (s *SecurityConfig) Validate() error {
	if !s.EnableRateLimit {
		return nil
	}

	var errs []string
	if s.RateLimit.RequestsPerMinute <= 0 {
		errs = append(errs, "requests_per_minute must be positive")
	}
	if s.RateLimit.BurstSize <= 0 {
		errs = append(errs, "burst_size must be positive")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
