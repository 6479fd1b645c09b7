package config

import (
	_ "embed"
)

//go:embed defaults/tworld.yaml
var defaultYAML []byte

// DefaultConfig returns the default platform configuration.
func DefaultConfig() Config {
	return Config{
		Packs: PacksConfig{
			Dir: "packs",
		},
		Database: DatabaseConfig{
			Path: "~/.tworld/times.db",
		},
		SSH: SSHConfig{
			Host:        "0.0.0.0",
			Port:        2223,
			HostKeyPath: "~/.tworld/ssh_host_key",
		},
		Display: DisplayConfig{
			ShowHints: true,
			Color:     true,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultYAML
}
