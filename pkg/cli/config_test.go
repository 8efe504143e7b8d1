package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActiveProfile(t *testing.T) {
	cfg := &UserConfig{
		CurrentProfile: "staging",
		Profiles: map[string]Profile{
			"staging": {Host: "https://staging.flowdeck.dev", APIKey: "stg-key"},
			"prod":    {Host: "https://flowdeck.dev", Token: "prod-jwt"},
		},
	}

	t.Run("uses current profile when no override", func(t *testing.T) {
		p := cfg.ActiveProfile("")
		assert.Equal(t, "https://staging.flowdeck.dev", p.Host)
		assert.Equal(t, "stg-key", p.APIKey)
	})

	t.Run("override wins over current profile", func(t *testing.T) {
		p := cfg.ActiveProfile("prod")
		assert.Equal(t, "https://flowdeck.dev", p.Host)
		assert.Equal(t, "prod-jwt", p.Token)
	})

	t.Run("unknown profile yields zero value", func(t *testing.T) {
		p := cfg.ActiveProfile("nonexistent")
		assert.Equal(t, Profile{}, p)
	})

	t.Run("empty config yields zero value", func(t *testing.T) {
		empty := &UserConfig{Profiles: map[string]Profile{}}
		assert.Equal(t, Profile{}, empty.ActiveProfile(""))
	})
}

func TestSaveAndLoadUserConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	in := &UserConfig{
		CurrentProfile: "default",
		Profiles: map[string]Profile{
			"default": {
				Host:   "https://flowdeck.example.com",
				APIKey: "fk-1234567890",
				Output: "json",
			},
		},
	}
	require.NoError(t, SaveUserConfig(in))

	out, err := LoadUserConfig()
	require.NoError(t, err)
	assert.Equal(t, in.CurrentProfile, out.CurrentProfile)
	assert.Equal(t, in.Profiles, out.Profiles)
}

func TestSaveUserConfig_FilePermissions(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	require.NoError(t, SaveUserConfig(&UserConfig{
		CurrentProfile: "default",
		Profiles:       map[string]Profile{"default": {APIKey: "secret"}},
	}))

	info, err := os.Stat(ConfigPath())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	dirInfo, err := os.Stat(ConfigDir())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), dirInfo.Mode().Perm())
}

func TestLoadUserConfig_NotFound(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := LoadUserConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoadUserConfig_MalformedYAML(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".flowdeck")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("{not yaml"), 0o600))

	_, err := LoadUserConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestLoadUserConfig_NilProfilesInitialized(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".flowdeck")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("current-profile: default\n"), 0o600))

	cfg, err := LoadUserConfig()
	require.NoError(t, err)
	assert.NotNil(t, cfg.Profiles)
	assert.Equal(t, "default", cfg.CurrentProfile)
}

func TestConfigPath(t *testing.T) {
	t.Setenv("HOME", "/home/example")
	assert.Equal(t, "/home/example/.flowdeck/config.yaml", ConfigPath())
}
