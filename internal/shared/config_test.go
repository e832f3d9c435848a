package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Archive.Dir != "spotify-archive" {
			t.Errorf("expected archive dir spotify-archive, got %s", config.Archive.Dir)
		}
		if config.Archive.PlaylistsDir != "playlists" {
			t.Errorf("expected playlists dir playlists, got %s", config.Archive.PlaylistsDir)
		}
		if config.Archive.IndexFilename != "playlists_metadata.csv" {
			t.Errorf("expected index filename playlists_metadata.csv, got %s", config.Archive.IndexFilename)
		}
		if !config.Archive.Exclude.OwnedByService {
			t.Error("service-owned playlists should be excluded by default")
		}
		if config.Fetch.Workers != 5 {
			t.Errorf("expected 5 workers, got %d", config.Fetch.Workers)
		}
		if config.Database.Path != "spogitify.db" {
			t.Errorf("expected database path spogitify.db, got %s", config.Database.Path)
		}
		if config.Server.Port != 8888 {
			t.Errorf("expected server port 8888, got %d", config.Server.Port)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Archive.Dir != defaultConfig.Archive.Dir {
			t.Error("created config archive dir doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[credentials.spotify]
client_id = "test_client_id"
client_secret = "test_secret"
redirect_uri = "http://localhost:8888/callback"

[archive]
dir = "/data/archive"
remote = "git@example.com:me/archive.git"

[archive.exclude]
owned_by_service = false
ids = ["p1"]
names = ["Starred"]

[fetch]
workers = 3
rate_limit = 2.5
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Archive.Dir != "/data/archive" {
			t.Errorf("expected /data/archive, got %s", config.Archive.Dir)
		}
		if config.Archive.Remote != "git@example.com:me/archive.git" {
			t.Errorf("unexpected remote: %s", config.Archive.Remote)
		}
		if config.Archive.Exclude.OwnedByService {
			t.Error("expected owned_by_service false")
		}
		if len(config.Archive.Exclude.IDs) != 1 || config.Archive.Exclude.IDs[0] != "p1" {
			t.Errorf("unexpected exclude ids: %v", config.Archive.Exclude.IDs)
		}
		if config.Fetch.RateLimit != 2.5 {
			t.Errorf("expected rate limit 2.5, got %f", config.Fetch.RateLimit)
		}
	})

	t.Run("LoadConfigMissingFile", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
			t.Error("loading a missing file should fail")
		}
	})

	t.Run("SaveConfigRoundTrip", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "config.toml")

		config := DefaultConfig()
		config.Credentials.Spotify.ClientID = "id"
		config.Credentials.Spotify.AccessToken = "token"

		if err := SaveConfig(configPath, config); err != nil {
			t.Fatalf("failed to save config: %v", err)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to reload config: %v", err)
		}
		if loaded.Credentials.Spotify.AccessToken != "token" {
			t.Error("access token lost on round trip")
		}
	})
}

func TestSpotifyConfigToken(t *testing.T) {
	t.Run("NoStoredToken", func(t *testing.T) {
		cfg := SpotifyConfig{}
		if cfg.Token() != nil {
			t.Error("expected nil token when nothing stored")
		}
	})

	t.Run("RoundTrip", func(t *testing.T) {
		expiry := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
		cfg := SpotifyConfig{}
		if err := cfg.Update(&oauth2.Token{
			AccessToken:  "access",
			RefreshToken: "refresh",
			Expiry:       expiry,
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		token := cfg.Token()
		if token == nil {
			t.Fatal("expected a reconstructed token")
		}
		if token.AccessToken != "access" || token.RefreshToken != "refresh" {
			t.Errorf("token fields mismatch: %+v", token)
		}
		if !token.Expiry.Equal(expiry) {
			t.Errorf("expected expiry %v, got %v", expiry, token.Expiry)
		}
	})

	t.Run("UpdateKeepsRefreshToken", func(t *testing.T) {
		cfg := SpotifyConfig{RefreshToken: "original"}
		if err := cfg.Update(&oauth2.Token{AccessToken: "new-access"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.RefreshToken != "original" {
			t.Error("refresh token should survive an access-only refresh")
		}
	})

	t.Run("UpdateRejectsEmpty", func(t *testing.T) {
		cfg := SpotifyConfig{}
		if err := cfg.Update(nil); err == nil {
			t.Error("expected error for nil token")
		}
		if err := cfg.Update(&oauth2.Token{}); err == nil {
			t.Error("expected error for empty token")
		}
	})
}
