package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/newtype-works/cardwarden/internal/imageref"
)

// Config represents the application configuration
type Config struct {
	CatalogPath string   `toml:"catalog_path"`
	ArtDir      string   `toml:"art_dir"`
	RemoteHosts []string `toml:"remote_hosts"`
}

// GetXDGConfigHome returns XDG_CONFIG_HOME or default path
func GetXDGConfigHome() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return xdgConfig
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config")
}

// GetConfigFilePath returns the path to the config file
func GetConfigFilePath() string {
	return filepath.Join(GetXDGConfigHome(), "cardwarden", "config.toml")
}

// LoadConfig loads the config file, creating a default one if none exists
func LoadConfig() (*Config, error) {
	configPath := GetConfigFilePath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig()
	}

	var config Config
	if _, err := toml.DecodeFile(configPath, &config); err != nil {
		return nil, fmt.Errorf("error decoding config file: %v", err)
	}
	applyDefaults(&config)

	return &config, nil
}

// createDefaultConfig creates a default config file
func createDefaultConfig() (*Config, error) {
	configPath := GetConfigFilePath()
	configDir := filepath.Dir(configPath)

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating config directory: %v", err)
	}

	config := &Config{}
	applyDefaults(config)

	file, err := os.Create(configPath)
	if err != nil {
		return nil, fmt.Errorf("error creating config file: %v", err)
	}
	defer file.Close()

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(config); err != nil {
		return nil, fmt.Errorf("error encoding config: %v", err)
	}

	return config, nil
}

// applyDefaults fills any unset config values
func applyDefaults(c *Config) {
	if c.CatalogPath == "" {
		c.CatalogPath = "cards.json"
	}
	if len(c.RemoteHosts) == 0 {
		c.RemoteHosts = imageref.DefaultRemoteHosts
	}
	// ArtDir stays empty: it defaults to a card_art directory next to the
	// catalog file, which depends on the catalog path in use.
}

// ResolveArtDir returns the art directory for a catalog: the configured
// directory if set, otherwise the card_art sibling of the catalog file.
func (c *Config) ResolveArtDir(catalogPath string) string {
	if c.ArtDir != "" {
		return c.ArtDir
	}
	return filepath.Join(filepath.Dir(catalogPath), "card_art")
}
