// Package config loads skillcheck settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/abhisek/skillcheck/internal/api"
	"github.com/abhisek/skillcheck/internal/assessment"
)

// Config holds all application configuration.
type Config struct {
	APIURL         string        `validate:"required,url"`
	ExamDuration   time.Duration `validate:"min=1m,max=6h"`
	RequestTimeout time.Duration `validate:"min=1s"`
	RetryAttempts  int           `validate:"min=1,max=10"`
	TimerOnRetry   string        `validate:"oneof=freeze resume"`
	Skills         []string      `validate:"min=1,dive,required"`

	LogLevel  string `validate:"oneof=trace debug info warn error disabled"`
	LogFormat string `validate:"oneof=json pretty"`
	LogFile   string `validate:"required"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads configuration from environment variables with defaults.
// A .env file in the working directory is loaded if present.
func Load() (*Config, error) {
	_ = godotenv.Load() // .env is optional
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv without touching .env files.
func FromEnv(getenv func(string) string) (*Config, error) {
	env := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	logFile, err := defaultLogFile(getenv)
	if err != nil {
		return nil, err
	}

	var errs []error
	minutes, err := strconv.Atoi(env("SKILLCHECK_EXAM_MINUTES", "30"))
	if err != nil {
		errs = append(errs, fmt.Errorf("SKILLCHECK_EXAM_MINUTES: %w", err))
	}
	timeout, err := time.ParseDuration(env("SKILLCHECK_REQUEST_TIMEOUT", "30s"))
	if err != nil {
		errs = append(errs, fmt.Errorf("SKILLCHECK_REQUEST_TIMEOUT: %w", err))
	}
	attempts, err := strconv.Atoi(env("SKILLCHECK_RETRY_ATTEMPTS", "3"))
	if err != nil {
		errs = append(errs, fmt.Errorf("SKILLCHECK_RETRY_ATTEMPTS: %w", err))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return &Config{
		APIURL:         env("SKILLCHECK_API_URL", api.DefaultBaseURL),
		ExamDuration:   time.Duration(minutes) * time.Minute,
		RequestTimeout: timeout,
		RetryAttempts:  attempts,
		TimerOnRetry:   strings.ToLower(env("SKILLCHECK_TIMER_ON_RETRY", "freeze")),
		Skills:         parseList(env("SKILLCHECK_SKILLS", ""), assessment.DefaultSkills),
		LogLevel:       strings.ToLower(env("SKILLCHECK_LOG_LEVEL", "info")),
		LogFormat:      strings.ToLower(env("SKILLCHECK_LOG_FORMAT", "json")),
		LogFile:        env("SKILLCHECK_LOG_FILE", logFile),
	}, nil
}

// Validate checks the config for consistency.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q (got %v)", fe.Field(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// TimerPolicy returns the countdown behavior after a failed submission.
func (c *Config) TimerPolicy() assessment.TimerPolicy {
	p, _ := assessment.ParseTimerPolicy(c.TimerOnRetry)
	return p
}

// RetryConfig returns the API retry settings.
func (c *Config) RetryConfig() api.RetryConfig {
	rc := api.DefaultRetryConfig()
	rc.MaxAttempts = c.RetryAttempts
	return rc
}

func defaultLogFile(getenv func(string) string) (string, error) {
	if dir := getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "skillcheck", "skillcheck.log"), nil
	}
	home := getenv("HOME")
	if home == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("locate home dir: %w", err)
		}
		home = h
	}
	return filepath.Join(home, ".local", "state", "skillcheck", "skillcheck.log"), nil
}

// parseList splits a comma-separated list into trimmed, non-empty items.
// Returns a copy of fallback if nothing remains.
func parseList(raw string, fallback []string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return append([]string(nil), fallback...)
	}
	return out
}
