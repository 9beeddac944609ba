// Package config loads weekfn settings from the environment and from CUE
// profile files, and builds the process logger.
//
// Precedence, lowest first: defaults, environment, profile, CLI flags.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/roach88/weekfn/internal/function"
	"github.com/roach88/weekfn/internal/types"
)

// Settings are the query settings that affect week functions plus logging.
type Settings struct {
	EnableDate32Results bool   `env:"WEEKFN_ENABLE_DATE32_RESULTS" json:"enable_date32_results"`
	SessionTimezone     string `env:"WEEKFN_SESSION_TIMEZONE" envDefault:"UTC" json:"session_timezone"`
	LogLevel            string `env:"WEEKFN_LOG_LEVEL" envDefault:"info" json:"log_level"`
	LogFormat           string `env:"WEEKFN_LOG_FORMAT" envDefault:"auto" json:"log_format"`
}

// Defaults returns the settings used when nothing else is configured.
func Defaults() Settings {
	return Settings{
		SessionTimezone: types.DefaultTimezone,
		LogLevel:        "info",
		LogFormat:       FormatAuto,
	}
}

// FromEnv loads settings from the process environment.
func FromEnv() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	return s, nil
}

// FromEnvironment loads settings from an explicit environment map.
// Variables not in the map take their defaults.
func FromEnvironment(environ map[string]string) (Settings, error) {
	var s Settings
	if err := env.ParseWithOptions(&s, env.Options{Environment: environ}); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	return s, nil
}

// Load reads the environment and, when profilePath is set, overlays the
// profile. The result is validated.
func Load(profilePath string) (Settings, error) {
	s, err := FromEnv()
	if err != nil {
		return Settings{}, err
	}
	if profilePath != "" {
		if s, err = LoadProfile(profilePath, s); err != nil {
			return Settings{}, err
		}
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks that the timezone exists and the log options are known.
func (s Settings) Validate() error {
	if _, err := types.LoadLocation(s.SessionTimezone); err != nil {
		return fmt.Errorf("session timezone: %w", err)
	}
	if _, err := ParseLevel(s.LogLevel); err != nil {
		return err
	}
	switch s.LogFormat {
	case FormatAuto, FormatText, FormatJSON:
	default:
		return fmt.Errorf("unknown log format %q (expected auto, text or json)", s.LogFormat)
	}
	return nil
}

// Function returns the subset of settings captured by function instances.
func (s Settings) Function() function.Settings {
	return function.Settings{
		EnableDate32Results: s.EnableDate32Results,
		SessionTimezone:     s.SessionTimezone,
	}
}
