package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskSecret(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty stays empty", input: "", want: ""},
		{name: "short value fully masked", input: "abc", want: "****"},
		{name: "ten chars fully masked", input: "0123456789", want: "****"},
		{name: "long value keeps edges", input: "fk-1234567890abcdef", want: "fk-1****cdef"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, maskSecret(tc.input))
		})
	}
}

func TestMaskConfig(t *testing.T) {
	cfg := &UserConfig{
		CurrentProfile: "prod",
		Profiles: map[string]Profile{
			"prod": {
				Host:   "https://flowdeck.dev",
				APIKey: "fk-1234567890abcdef",
				Token:  "shorttok",
				Output: "json",
			},
		},
	}

	masked := maskConfig(cfg)

	p := masked.Profiles["prod"]
	assert.Equal(t, "https://flowdeck.dev", p.Host, "host is not sensitive")
	assert.Equal(t, "json", p.Output, "output is not sensitive")
	assert.Equal(t, "fk-1****cdef", p.APIKey)
	assert.Equal(t, "****", p.Token)
	assert.Equal(t, "prod", masked.CurrentProfile)

	assert.Equal(t, "fk-1234567890abcdef", cfg.Profiles["prod"].APIKey, "original must not be mutated")
}

func TestConfigShow_TableOutput(t *testing.T) {
	rootCmd := newTestRootCmd(t)
	require.NoError(t, SaveUserConfig(&UserConfig{
		CurrentProfile: "default",
		Profiles: map[string]Profile{
			"default": {Host: "https://flowdeck.dev", APIKey: "fk-1234567890abcdef"},
			"staging": {Host: "https://staging.flowdeck.dev"},
		},
	}))

	rootCmd.SetArgs([]string{"config", "show"})
	restore := captureStdout(t)

	err := rootCmd.Execute()
	output := restore()
	require.NoError(t, err)

	assert.Contains(t, output, "PROFILE")
	assert.Contains(t, output, "ACTIVE")
	assert.Contains(t, output, "HOST")
	assert.Contains(t, output, "default")
	assert.Contains(t, output, "staging")
	assert.Contains(t, output, "*")
	assert.Contains(t, output, "https://flowdeck.dev")
	assert.Contains(t, output, "fk-1****cdef")
	assert.NotContains(t, output, "fk-1234567890abcdef")
}

func TestConfigShow_Reveal(t *testing.T) {
	rootCmd := newTestRootCmd(t)
	require.NoError(t, SaveUserConfig(&UserConfig{
		CurrentProfile: "default",
		Profiles: map[string]Profile{
			"default": {Host: "https://flowdeck.dev", APIKey: "fk-1234567890abcdef"},
		},
	}))

	rootCmd.SetArgs([]string{"config", "show", "--reveal"})
	restore := captureStdout(t)

	err := rootCmd.Execute()
	output := restore()
	require.NoError(t, err)

	assert.Contains(t, output, "fk-1234567890abcdef")
}

func TestConfigShow_NoConfig(t *testing.T) {
	rootCmd := newTestRootCmd(t)
	rootCmd.SetArgs([]string{"config", "show"})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestConfigSetProfile_CreatesProfile(t *testing.T) {
	rootCmd := newTestRootCmd(t)
	rootCmd.SetArgs([]string{
		"config", "set-profile",
		"--name", "staging",
		"--host", "https://staging.flowdeck.dev",
		"--api-key", "stg-key",
	})
	restore := captureStdout(t)

	err := rootCmd.Execute()
	output := restore()
	require.NoError(t, err)
	assert.Contains(t, output, `Profile "staging" saved`)

	cfg, err := LoadUserConfig()
	require.NoError(t, err)
	p := cfg.Profiles["staging"]
	assert.Equal(t, "https://staging.flowdeck.dev", p.Host)
	assert.Equal(t, "stg-key", p.APIKey)
}

func TestConfigSetProfile_OnlyChangedFlagsApplied(t *testing.T) {
	rootCmd := newTestRootCmd(t)
	require.NoError(t, SaveUserConfig(&UserConfig{
		CurrentProfile: "default",
		Profiles: map[string]Profile{
			"default": {Host: "https://flowdeck.dev", APIKey: "keep-me", Output: "json"},
		},
	}))

	rootCmd.SetArgs([]string{"config", "set-profile", "--name", "default", "--host", "https://new.flowdeck.dev"})
	restore := captureStdout(t)

	err := rootCmd.Execute()
	_ = restore()
	require.NoError(t, err)

	cfg, err := LoadUserConfig()
	require.NoError(t, err)
	p := cfg.Profiles["default"]
	assert.Equal(t, "https://new.flowdeck.dev", p.Host)
	assert.Equal(t, "keep-me", p.APIKey, "unset flags must not clobber existing values")
	assert.Equal(t, "json", p.Output)
}

func TestConfigSetProfile_InvalidHost(t *testing.T) {
	rootCmd := newTestRootCmd(t)
	rootCmd.SetArgs([]string{"config", "set-profile", "--name", "bad", "--host", "not a url"})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid host")

	_, loadErr := LoadUserConfig()
	assert.Error(t, loadErr, "invalid profile must not be written")
}

func TestConfigSetProfile_InvalidOutput(t *testing.T) {
	rootCmd := newTestRootCmd(t)
	rootCmd.SetArgs([]string{"config", "set-profile", "--name", "bad", "--output", "xml"})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestConfigSetProfile_MissingName(t *testing.T) {
	rootCmd := newTestRootCmd(t)
	rootCmd.SetArgs([]string{"config", "set-profile", "--host", "https://flowdeck.dev"})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required")
}

func TestConfigUseProfile(t *testing.T) {
	rootCmd := newTestRootCmd(t)
	require.NoError(t, SaveUserConfig(&UserConfig{
		CurrentProfile: "default",
		Profiles: map[string]Profile{
			"default": {Host: "https://flowdeck.dev"},
			"staging": {Host: "https://staging.flowdeck.dev"},
		},
	}))

	rootCmd.SetArgs([]string{"config", "use-profile", "staging"})
	restore := captureStdout(t)

	err := rootCmd.Execute()
	output := restore()
	require.NoError(t, err)
	assert.Contains(t, output, `Active profile set to "staging"`)

	cfg, err := LoadUserConfig()
	require.NoError(t, err)
	assert.Equal(t, "staging", cfg.CurrentProfile)
}

func TestConfigUseProfile_UnknownProfile(t *testing.T) {
	rootCmd := newTestRootCmd(t)
	require.NoError(t, SaveUserConfig(&UserConfig{
		CurrentProfile: "default",
		Profiles:       map[string]Profile{"default": {}},
	}))

	rootCmd.SetArgs([]string{"config", "use-profile", "ghost"})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `profile "ghost" not found`)
}
