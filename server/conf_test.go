package server

import (
	"path/filepath"
	"testing"
)

func TestLoadConfigWritesDefaultsWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	conf, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if conf.BindAddress != "0.0.0.0:25565" {
		t.Fatalf("BindAddress = %q, want default", conf.BindAddress)
	}
	if conf.MaxPlayers != 20 || conf.ViewDistance != 8 {
		t.Fatalf("expected default MaxPlayers/ViewDistance, got %+v", conf)
	}

	reloaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig (reload from the freshly written file): %v", err)
	}
	if reloaded.BindAddress != conf.BindAddress || reloaded.MaxPlayers != conf.MaxPlayers {
		t.Fatalf("reloaded config %+v does not match the written defaults %+v", reloaded, conf)
	}
}

func TestLoadConfigRoundTripsExplicitValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	conf := Config{
		BindAddress:  "127.0.0.1:25566",
		Motd:         "test plot server",
		MaxPlayers:   5,
		ViewDistance: 4,
		ChatFormat:   "{username}: {message}",
		Whitelist:    true,
		Velocity:     VelocityConfig{Enabled: true, Secret: "s3cr3t"},
	}
	if err := SaveConfig(path, conf); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got.BindAddress != conf.BindAddress || got.MaxPlayers != conf.MaxPlayers {
		t.Fatalf("LoadConfig = %+v, want %+v", got, conf)
	}
	if got.Velocity != conf.Velocity {
		t.Fatalf("Velocity = %+v, want %+v", got.Velocity, conf.Velocity)
	}
	if !got.Whitelist {
		t.Fatalf("expected Whitelist=true to round trip")
	}
}
