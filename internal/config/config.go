package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Config holds application configuration.
type Config struct {
	// MaxCodes caps how many learned codes the store will hold.
	// The real limit is backend-specific (NVS partition size on the
	// original hardware), so it stays configurable.
	MaxCodes int `json:"max_codes"`

	// MaxNameBytes is the byte-wise limit code names are truncated to
	// before being used as storage keys. Backends with short key limits
	// (15-byte NVS keys minus the "code_" prefix) need 10; roomier
	// backends can raise it.
	MaxNameBytes int `json:"max_name_bytes"`

	// QueueDepth bounds the hand-off channel between the capture
	// callback and the worker. A full queue drops events with a warning.
	QueueDepth int `json:"queue_depth,omitempty"`

	// CaptureBufferPulses bounds a single captured pulse sequence.
	// Longer bursts are truncated, not rejected.
	CaptureBufferPulses int `json:"capture_buffer_pulses,omitempty"`

	// IdleThresholdMs is the idle gap that terminates a signal burst.
	IdleThresholdMs int `json:"idle_threshold_ms,omitempty"`

	// CarrierHz is the modulation frequency used for raw replay and as
	// the default transmit carrier.
	CarrierHz int `json:"carrier_hz,omitempty"`

	// LearnTimeoutSec is the default synchronous learn timeout.
	LearnTimeoutSec int `json:"learn_timeout_sec,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from
	// registration. Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxCodes:            50,
		MaxNameBytes:        10,
		QueueDepth:          5,
		CaptureBufferPulses: 1024,
		IdleThresholdMs:     10,
		CarrierHz:           38000,
		LearnTimeoutSec:     10,
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.irdeck.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// LoadWithRepo loads configuration from both global (~/.irdeck) and repo
// (.irdeck) directories. Repo config is found by walking upward from
// startDir. Repo config takes precedence for scalar values; arrays are
// merged (deduplicated). Either or both configs may be missing.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	repoConfigPath := FindRepoConfig(startDir)
	repo, err := loadFileRaw(repoConfigPath)
	if err != nil {
		return nil, err
	}

	// Apply defaults, then global, then repo
	return Merge(Merge(DefaultConfig(), global), repo), nil
}

// FindRepoConfig walks upward from startDir to find the nearest
// .irdeck/config.json. Returns the path if found, or empty string if not.
func FindRepoConfig(startDir string) string {
	dir := startDir
	for {
		configPath := filepath.Join(dir, ".irdeck", "config.json")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.MaxCodes = overlayInt(base.MaxCodes, overlay.MaxCodes)
	result.MaxNameBytes = overlayInt(base.MaxNameBytes, overlay.MaxNameBytes)
	result.QueueDepth = overlayInt(base.QueueDepth, overlay.QueueDepth)
	result.CaptureBufferPulses = overlayInt(base.CaptureBufferPulses, overlay.CaptureBufferPulses)
	result.IdleThresholdMs = overlayInt(base.IdleThresholdMs, overlay.IdleThresholdMs)
	result.CarrierHz = overlayInt(base.CarrierHz, overlay.CarrierHz)
	result.LearnTimeoutSec = overlayInt(base.LearnTimeoutSec, overlay.LearnTimeoutSec)

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// overlayInt returns the overlay value if non-zero, else the base value.
func overlayInt(base, overlay int) int {
	if overlay != 0 {
		return overlay
	}
	return base
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range a {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range b {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
