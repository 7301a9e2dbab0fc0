// Package config loads runtime settings for the control centre from
// NERFDRONE_* environment variables, with a .env file picked up when
// present.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/aboldguess/Nerfdrone/internal/planner"
)

// Defaults applied when the corresponding variable is unset or empty.
const (
	DefaultEnvironment   = "development"
	DefaultDataDirectory = "data"
	DefaultInterfaceHost = "0.0.0.0"
	DefaultInterfacePort = 8000
	DefaultCruiseSpeed   = 6.5
	DefaultPlanCacheSize = 128
)

// Settings holds runtime configuration for the control centre.
type Settings struct {
	// Environment labels the deployment; it controls debug toggles only.
	Environment string

	// DataDirectory is where ingested footage and reconstruction artefacts
	// are stored. It is expanded and created at load time.
	DataDirectory string

	// InterfaceHost and InterfacePort are the web server bind address.
	InterfaceHost string
	InterfacePort int

	// GoogleMapsAPIKey enables the Google Maps basemap in the dashboard.
	// Empty means the dashboard relies on OpenStreetMap alone.
	GoogleMapsAPIKey string

	// PlannerAltitude and PlannerSpacing configure the grid planner.
	PlannerAltitude float64
	PlannerSpacing  float64

	// CruiseSpeed is the default speed stamped onto planned commands when
	// a request does not specify one.
	CruiseSpeed float64

	// PlanCacheSize bounds the LRU cache of planned routes.
	PlanCacheSize int

	// DisabledTools and DisabledTypes exclude MCP tools from registration.
	DisabledTools []string
	DisabledTypes []string
}

// Load reads settings from the environment. A .env file in the working
// directory is loaded first but never overrides variables already set.
func Load() (*Settings, error) {
	_ = godotenv.Load()

	settings := &Settings{
		Environment:      envString("NERFDRONE_ENVIRONMENT", DefaultEnvironment),
		DataDirectory:    envString("NERFDRONE_DATA_DIRECTORY", DefaultDataDirectory),
		InterfaceHost:    envString("NERFDRONE_INTERFACE_HOST", DefaultInterfaceHost),
		GoogleMapsAPIKey: envString("NERFDRONE_GOOGLE_MAPS_API_KEY", ""),
		DisabledTools:    envList("NERFDRONE_DISABLED_TOOLS"),
		DisabledTypes:    envList("NERFDRONE_DISABLED_TYPES"),
	}

	var err error
	if settings.InterfacePort, err = envInt("NERFDRONE_INTERFACE_PORT", DefaultInterfacePort); err != nil {
		return nil, err
	}
	if settings.InterfacePort < 1 || settings.InterfacePort > 65535 {
		return nil, fmt.Errorf("NERFDRONE_INTERFACE_PORT must be between 1 and 65535, got %d", settings.InterfacePort)
	}
	if settings.PlannerAltitude, err = envFloat("NERFDRONE_PLANNER_ALTITUDE", planner.DefaultAltitude); err != nil {
		return nil, err
	}
	if settings.PlannerSpacing, err = envFloat("NERFDRONE_PLANNER_SPACING", planner.DefaultSpacing); err != nil {
		return nil, err
	}
	if settings.CruiseSpeed, err = envFloat("NERFDRONE_CRUISE_SPEED", DefaultCruiseSpeed); err != nil {
		return nil, err
	}
	if settings.PlanCacheSize, err = envInt("NERFDRONE_PLAN_CACHE_SIZE", DefaultPlanCacheSize); err != nil {
		return nil, err
	}
	if settings.PlanCacheSize < 1 {
		return nil, fmt.Errorf("NERFDRONE_PLAN_CACHE_SIZE must be positive, got %d", settings.PlanCacheSize)
	}

	if settings.DataDirectory, err = expandPath(settings.DataDirectory); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(settings.DataDirectory, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return settings, nil
}

// VideosDirectory is where the ingestor stores uploads.
func (s *Settings) VideosDirectory() string {
	return filepath.Join(s.DataDirectory, "videos")
}

// ReconstructionWorkspace is where the pipeline writes job artefacts.
func (s *Settings) ReconstructionWorkspace() string {
	return filepath.Join(s.DataDirectory, "nerf_outputs")
}

// Address is the host:port the web server binds to.
func (s *Settings) Address() string {
	return fmt.Sprintf("%s:%d", s.InterfaceHost, s.InterfacePort)
}

func envString(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, value)
	}
	return parsed, nil
}

func envFloat(key string, fallback float64) (float64, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got %q", key, value)
	}
	return parsed, nil
}

func envList(key string) []string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	list := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			list = append(list, part)
		}
	}
	if len(list) == 0 {
		return nil
	}
	return list
}

// expandPath resolves a leading ~ against the home directory and makes the
// path absolute.
func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	absolute, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve data directory: %w", err)
	}
	return absolute, nil
}
