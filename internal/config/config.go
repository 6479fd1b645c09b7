// Package config provides YAML-based configuration loading for the
// Tile World platform.
package config

// Config contains all configuration for the Tile World platform.
type Config struct {
	Packs    PacksConfig    `yaml:"packs"`
	Database DatabaseConfig `yaml:"database"`
	SSH      SSHConfig      `yaml:"ssh"`
	Display  DisplayConfig  `yaml:"display"`
}

// PacksConfig defines where level packs are discovered.
type PacksConfig struct {
	// Dir is scanned for *.pak files, sorted by filename.
	Dir string `yaml:"dir"`
}

// DatabaseConfig defines the best-times database location.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// SSHConfig defines parameters for the SSH game server.
type SSHConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	HostKeyPath string `yaml:"host_key_path"`
}

// DisplayConfig defines rendering preferences.
type DisplayConfig struct {
	// ShowHints displays hint text when standing on a hint tile.
	ShowHints bool `yaml:"show_hints"`
	// Color disables ANSI colors when false.
	Color bool `yaml:"color"`
}
