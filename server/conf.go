package server

import (
	"fmt"
	"log/slog"
	"os"

	toml "github.com/pelletier/go-toml"
)

// Config holds the settings recognised by this server, loaded from a TOML
// file on disk (spec §6 "Config surface"). Zero-valued fields are filled in by
// withDefaults, which both LoadConfig and New apply.
type Config struct {
	// Log is the Logger used throughout the server. If nil, it is set to
	// slog.Default().
	Log *slog.Logger `toml:"-"`

	// BindAddress is the TCP address the server listens on.
	BindAddress string `toml:"bind_address"`
	// Motd is the status description shown in the server list.
	Motd string `toml:"motd"`
	// MaxPlayers is the advertised player capacity.
	MaxPlayers int `toml:"max_players"`
	// ViewDistance is the chunk radius sent to clients and used by the
	// view-distance delta algorithm.
	ViewDistance int `toml:"view_distance"`
	// ChatFormat is templated by {username} and {message}.
	ChatFormat string `toml:"chat_format"`
	// Whitelist enables the whitelist check at login.
	Whitelist bool `toml:"whitelist"`
	// Velocity configures proxy-style login forwarding.
	Velocity VelocityConfig `toml:"velocity"`
	// LuckPerms is passed through opaquely to the permissions plugin; this
	// server does not interpret it.
	LuckPerms map[string]any `toml:"luckperms"`
	// AutoRedpiler, if true, permits workers to auto-start the backend when
	// falling behind. The policy this knob gates is not defined by the
	// specification this server follows, so it currently has no effect.
	AutoRedpiler bool `toml:"auto_redpiler"`

	// WorldSendRate is the Hz at which a plot worker targets flushing block
	// changes to clients. Not part of the recognised config surface; kept at
	// its default unless set programmatically.
	WorldSendRate uint32 `toml:"-"`
}

// VelocityConfig is the proxy-forwarding section of Config.
type VelocityConfig struct {
	Enabled bool   `toml:"enabled"`
	Secret  string `toml:"secret"`
}

// withDefaults fills in zero-valued fields with sensible defaults, mirroring
// the pattern the rest of this codebase uses for its subsystem configs.
func (c Config) withDefaults() Config {
	if c.Log == nil {
		c.Log = slog.Default()
	}
	if c.BindAddress == "" {
		c.BindAddress = "0.0.0.0:25565"
	}
	if c.Motd == "" {
		c.Motd = "A Plot Server"
	}
	if c.MaxPlayers == 0 {
		c.MaxPlayers = 20
	}
	if c.ViewDistance == 0 {
		c.ViewDistance = 8
	}
	if c.ChatFormat == "" {
		c.ChatFormat = "<{username}> {message}"
	}
	if c.WorldSendRate == 0 {
		c.WorldSendRate = 20
	}
	return c
}

// LoadConfig reads a TOML config file at path, applying defaults for any
// field it leaves unset. A missing file is not an error: LoadConfig writes
// one populated with defaults and returns it, the same pattern the teacher
// uses for its whitelist file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		conf := Config{}.withDefaults()
		if werr := SaveConfig(path, conf); werr != nil {
			return conf, fmt.Errorf("write default config: %w", werr)
		}
		return conf, nil
	} else if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var conf Config
	if err := toml.Unmarshal(data, &conf); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return conf.withDefaults(), nil
}

// SaveConfig writes conf to path as TOML.
func SaveConfig(path string, conf Config) error {
	data, err := toml.Marshal(conf)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}
