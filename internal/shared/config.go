package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// DefaultSpotifyBaseURL is the Spotify Web API host; request paths carry the /v1 prefix.
const DefaultSpotifyBaseURL = "https://api.spotify.com"

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Spotify  SpotifyConfig  `toml:"spotify"`
	Split    SplitConfig    `toml:"split"`
	Database DatabaseConfig `toml:"database"`
	History  HistoryConfig  `toml:"history"`
}

// SpotifyConfig contains the pre-provisioned bearer token and API settings.
type SpotifyConfig struct {
	Token             string  `toml:"token"`
	BaseURL           string  `toml:"base_url"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// SplitConfig describes which playlist to split and how the genre playlists are created.
type SplitConfig struct {
	SourcePlaylist    string `toml:"source_playlist"`
	Public            bool   `toml:"public"`
	DescriptionPrefix string `toml:"description_prefix"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// HistoryConfig toggles recording of finished runs.
type HistoryConfig struct {
	Enabled bool `toml:"enabled"`
}

// Prefix returns the description prefix, falling back to the default template for the source playlist.
func (s SplitConfig) Prefix() string {
	if strings.TrimSpace(s.DescriptionPrefix) != "" {
		return s.DescriptionPrefix
	}
	return fmt.Sprintf("Split from playlist \"%s\" by genre — auto-generated", s.SourcePlaylist)
}

// Validate checks the settings a split needs before any request is made.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Spotify.Token) == "" {
		return fmt.Errorf("%w: spotify token is empty", ErrMissingCredentials)
	}
	if strings.TrimSpace(c.Split.SourcePlaylist) == "" {
		return fmt.Errorf("%w: split.source_playlist is empty", ErrInvalidConfig)
	}
	if c.Spotify.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: spotify.requests_per_second must not be negative", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if config.Spotify.BaseURL == "" {
		config.Spotify.BaseURL = DefaultSpotifyBaseURL
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
