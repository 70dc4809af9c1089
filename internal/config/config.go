// Package config loads the backend configuration from a YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/edumarques81/stellar-radio/internal/domain/player"
)

// MaxSessionTTL bounds how long a session snapshot may stay restorable.
const MaxSessionTTL = 30 * time.Minute

// Config represents the application configuration
type Config struct {
	Host    HostConfig    `yaml:"host"`
	MPD     MPDConfig     `yaml:"mpd"`
	Storage StorageConfig `yaml:"storage"`
	Policy  PolicyConfig  `yaml:"policy"`
	Server  ServerConfig  `yaml:"server"`

	// Directories scanned for local audio files
	LocalDirs []string `yaml:"local_dirs,omitempty"`
}

// HostConfig points at the Home Assistant instance.
type HostConfig struct {
	URL    string `yaml:"url"`
	Token  string `yaml:"token"`
	Entity string `yaml:"entity,omitempty"` // Preferred media player entity
}

// MPDConfig configures the local player.
type MPDConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password,omitempty"`
}

// StorageConfig selects the preference database. URL wins over Driver/DSN.
type StorageConfig struct {
	URL        string        `yaml:"url,omitempty"`
	Driver     string        `yaml:"driver"`
	DSN        string        `yaml:"dsn"`
	SessionTTL time.Duration `yaml:"session_ttl"`
}

// PolicyConfig mirrors player.Options.
type PolicyConfig struct {
	SafeVolume          int           `yaml:"safe_volume"`
	SafeVolumeThreshold float64       `yaml:"safe_volume_threshold"`
	DefaultVolume       int           `yaml:"default_volume"`
	BridgeMarker        string        `yaml:"bridge_marker"`
	VerifyDelay         time.Duration `yaml:"verify_delay"`
	BridgeVerifyDelay   time.Duration `yaml:"bridge_verify_delay"`
	LivenessInterval    time.Duration `yaml:"liveness_interval"`
	MaxRecoveryAttempts int           `yaml:"max_recovery_attempts"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Port      string `yaml:"port"`
	JWTSecret string `yaml:"jwt_secret,omitempty"` // Protects the REST API when set
	StaticDir string `yaml:"static_dir,omitempty"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	opts := player.DefaultOptions()
	return &Config{
		Host: HostConfig{
			URL: "http://homeassistant.local:8123",
		},
		MPD: MPDConfig{
			Enabled: true,
			Host:    "localhost",
			Port:    6600,
		},
		Storage: StorageConfig{
			Driver:     "sqlite3",
			DSN:        "/var/lib/stellar-radio/radio.db",
			SessionTTL: 5 * time.Minute,
		},
		Policy: PolicyConfig{
			SafeVolume:          opts.SafeVolume,
			SafeVolumeThreshold: opts.SafeVolumeThreshold,
			DefaultVolume:       opts.DefaultVolume,
			BridgeMarker:        opts.BridgeMarker,
			VerifyDelay:         opts.VerifyDelay,
			BridgeVerifyDelay:   opts.BridgeVerifyDelay,
			LivenessInterval:    opts.LivenessInterval,
			MaxRecoveryAttempts: opts.MaxRecoveryAttempts,
		},
		Server: ServerConfig{
			Port: "3001",
		},
	}
}

// LoadConfig loads configuration from file. Keys missing from the file keep
// their default values.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		// If file doesn't exist, return default config
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig saves configuration to file
func SaveConfig(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate rejects values the session cannot run with.
func (c *Config) Validate() error {
	if c.Policy.SafeVolume < 0 || c.Policy.SafeVolume > 100 {
		return fmt.Errorf("policy.safe_volume out of range: %d", c.Policy.SafeVolume)
	}
	if c.Policy.SafeVolumeThreshold < 0 || c.Policy.SafeVolumeThreshold > 1 {
		return fmt.Errorf("policy.safe_volume_threshold out of range: %v", c.Policy.SafeVolumeThreshold)
	}
	if c.Storage.SessionTTL < 0 || c.Storage.SessionTTL > MaxSessionTTL {
		return fmt.Errorf("storage.session_ttl must be between 0 and %v: %v", MaxSessionTTL, c.Storage.SessionTTL)
	}
	if c.MPD.Enabled && (c.MPD.Port <= 0 || c.MPD.Port > 65535) {
		return fmt.Errorf("mpd.port out of range: %d", c.MPD.Port)
	}
	return nil
}

// PlayerOptions converts the policy section for the session controller.
func (c *Config) PlayerOptions() player.Options {
	opts := player.DefaultOptions()
	opts.DeviceID = c.Host.Entity
	opts.SafeVolume = c.Policy.SafeVolume
	opts.SafeVolumeThreshold = c.Policy.SafeVolumeThreshold
	opts.DefaultVolume = c.Policy.DefaultVolume
	if c.Policy.BridgeMarker != "" {
		opts.BridgeMarker = c.Policy.BridgeMarker
	}
	opts.VerifyDelay = c.Policy.VerifyDelay
	opts.BridgeVerifyDelay = c.Policy.BridgeVerifyDelay
	opts.LivenessInterval = c.Policy.LivenessInterval
	opts.MaxRecoveryAttempts = c.Policy.MaxRecoveryAttempts
	return opts
}
