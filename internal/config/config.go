// Package config handles application configuration and environment loading.
package config

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// AuthConfig holds authentication and identity provider configuration.
type AuthConfig struct {
	// OIDC / JWKS configuration
	IssuerURL      string   // OIDC issuer URL (e.g., https://login.microsoftonline.com/{tenant}/v2.0)
	JWKSURL        string   // Override JWKS URL (if no .well-known discovery)
	JWTSecret      string   // HS256 shared secret for local/dev JWT auth
	Audience       string   // Required JWT audience claim
	AllowedIssuers []string // Accepted issuers (defaults to [IssuerURL])

	// API key settings
	APIKeyEnabled bool   // Enable API key auth (default: true)
	APIKeyHeader  string // Header name for API keys (default: X-API-Key)
}

// OIDCEnabled returns true when an external identity provider is configured.
func (a *AuthConfig) OIDCEnabled() bool {
	return a.IssuerURL != "" || a.JWKSURL != ""
}

// Validate checks that the auth configuration is internally consistent.
func (a *AuthConfig) Validate() error {
	if a.IssuerURL == "" && a.JWKSURL == "" && a.JWTSecret == "" {
		return fmt.Errorf("one of AUTH_ISSUER_URL, AUTH_JWKS_URL or JWT_SECRET must be set")
	}
	if a.IssuerURL != "" && a.Audience == "" {
		return fmt.Errorf("AUTH_AUDIENCE is required when AUTH_ISSUER_URL is set")
	}
	return nil
}

// Config holds the configuration for the console server and its orchestrator
// connection.
type Config struct {
	OrchestratorURL     string        // base URL of the orchestrator GraphQL API (required)
	OrchestratorToken   string        // bearer token for orchestrator requests (optional)
	OrchestratorTimeout time.Duration // per-request timeout, zero means the client default

	RepositoryName string // repository to watch (required)
	LocationName   string // code location hosting the repository (required)

	PollInterval time.Duration // background refresh cadence (default 50s)
	PollEnabled  bool          // run the background poller (default true)

	DocsBaseURL  string   // documentation site origin (default https://docs.flowdeck.dev)
	DocsVersions []string // published docs versions, newest first (default ["latest"])
	DocsCurrent  string   // version the site currently serves (default: first of DocsVersions)
	DocsDefault  string   // version served without a path prefix (default: DocsCurrent)

	MetaDBPath        string // path to SQLite state file (default "flowdeck.sqlite")
	ListenAddr        string // HTTP listen address (default ":8080")
	TLSCertFile       string // TLS certificate file path (optional)
	TLSKeyFile        string // TLS private key file path (optional)
	AllowInsecureHTTP bool   // allow non-TLS listener in production (for trusted TLS termination)
	LogLevel          string // log level: debug, info, warn, error (default "info")
	Env               string // environment: "development" (default) or "production"

	// Rate limiting
	RateLimitRPS   float64 // sustained requests per second (default 100)
	RateLimitBurst int     // burst capacity (default 200)

	// CORS
	CORSAllowedOrigins []string // allowed origins for CORS (default: ["*"])

	// Auth holds identity provider and authentication configuration.
	Auth AuthConfig

	// Warnings collects non-fatal warnings generated during config loading.
	// These are logged by the caller after the logger is initialised.
	Warnings []string
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsProduction returns true when the server is running in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// LoadFromEnv loads configuration from environment variables. The
// orchestrator URL and repository selector are required; everything else has
// a development default.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		OrchestratorURL:   os.Getenv("ORCHESTRATOR_URL"),
		OrchestratorToken: os.Getenv("ORCHESTRATOR_TOKEN"),
		RepositoryName:    os.Getenv("REPOSITORY_NAME"),
		LocationName:      os.Getenv("REPOSITORY_LOCATION"),
		PollEnabled:       parseBoolEnvDefault("POLL_ENABLED", true),
		DocsBaseURL:       os.Getenv("DOCS_BASE_URL"),
		DocsCurrent:       os.Getenv("DOCS_CURRENT_VERSION"),
		DocsDefault:       os.Getenv("DOCS_DEFAULT_VERSION"),
		MetaDBPath:        os.Getenv("META_DB_PATH"),
		ListenAddr:        os.Getenv("LISTEN_ADDR"),
		TLSCertFile:       os.Getenv("TLS_CERT_FILE"),
		TLSKeyFile:        os.Getenv("TLS_KEY_FILE"),
		LogLevel:          os.Getenv("LOG_LEVEL"),
		Env:               os.Getenv("ENV"),
	}

	if cfg.OrchestratorURL == "" {
		return nil, fmt.Errorf("ORCHESTRATOR_URL must be set")
	}
	if cfg.RepositoryName == "" {
		return nil, fmt.Errorf("REPOSITORY_NAME must be set")
	}
	if cfg.LocationName == "" {
		return nil, fmt.Errorf("REPOSITORY_LOCATION must be set")
	}

	// Durations: unparseable values fall back to the default.
	if v := os.Getenv("ORCHESTRATOR_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.OrchestratorTimeout = d
		}
	}
	if v := os.Getenv("POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.PollInterval = d
		}
	}

	// Docs versions
	if v := os.Getenv("DOCS_VERSIONS"); v != "" {
		versions := strings.Split(v, ",")
		for i := range versions {
			versions[i] = strings.TrimSpace(versions[i])
		}
		cfg.DocsVersions = compactNonEmpty(versions)
	}

	// Rate limiting
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RateLimitRPS = f
		}
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateLimitBurst = n
		}
	}

	// CORS
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		cfg.CORSAllowedOrigins = origins
	}
	if strings.EqualFold(os.Getenv("ALLOW_INSECURE_HTTP"), "true") {
		cfg.AllowInsecureHTTP = true
	}

	// Auth config
	cfg.Auth = AuthConfig{
		IssuerURL:     os.Getenv("AUTH_ISSUER_URL"),
		JWKSURL:       os.Getenv("AUTH_JWKS_URL"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		Audience:      os.Getenv("AUTH_AUDIENCE"),
		APIKeyEnabled: true,
		APIKeyHeader:  os.Getenv("AUTH_API_KEY_HEADER"),
	}

	if v := os.Getenv("AUTH_ALLOWED_ISSUERS"); v != "" {
		cfg.Auth.AllowedIssuers = strings.Split(v, ",")
	}
	if os.Getenv("AUTH_API_KEY_ENABLED") == "false" {
		cfg.Auth.APIKeyEnabled = false
	}

	// Auth config defaults
	if cfg.Auth.APIKeyHeader == "" {
		cfg.Auth.APIKeyHeader = "X-API-Key"
	}

	// Defaults
	if cfg.PollInterval == 0 {
		cfg.PollInterval = 50 * time.Second
	}
	if cfg.DocsBaseURL == "" {
		cfg.DocsBaseURL = "https://docs.flowdeck.dev"
	}
	if len(cfg.DocsVersions) == 0 {
		cfg.DocsVersions = []string{"latest"}
	}
	if cfg.DocsCurrent == "" {
		cfg.DocsCurrent = cfg.DocsVersions[0]
	}
	if cfg.DocsDefault == "" {
		cfg.DocsDefault = cfg.DocsCurrent
	}
	if cfg.MetaDBPath == "" {
		cfg.MetaDBPath = "flowdeck.sqlite"
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if (cfg.TLSCertFile == "") != (cfg.TLSKeyFile == "") {
		return nil, fmt.Errorf("both TLS_CERT_FILE and TLS_KEY_FILE must be set together")
	}
	if err := cfg.Auth.Validate(); err != nil {
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("auth is not configured (%v); every request will be rejected", err))
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.RateLimitRPS == 0 {
		cfg.RateLimitRPS = 100
	}
	if cfg.RateLimitBurst == 0 {
		cfg.RateLimitBurst = 200
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"*"}
	}

	// Production mode: insecure defaults are fatal errors.
	if cfg.IsProduction() {
		if !cfg.Auth.OIDCEnabled() {
			return nil, fmt.Errorf("OIDC must be configured in production (set AUTH_ISSUER_URL or AUTH_JWKS_URL)")
		}
		if len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*" {
			return nil, fmt.Errorf("CORS wildcard (*) is not allowed in production (ENV=production)")
		}
		if cfg.TLSCertFile == "" && !cfg.AllowInsecureHTTP {
			return nil, fmt.Errorf("TLS_CERT_FILE/TLS_KEY_FILE must be set in production unless ALLOW_INSECURE_HTTP=true")
		}
	}

	return cfg, nil
}

// parseBoolEnvDefault reads a boolean env var. Unset or unrecognized values
// return the default.
func parseBoolEnvDefault(key string, defaultVal bool) bool {
	switch strings.TrimSpace(strings.ToLower(os.Getenv(key))) {
	case "0", "false", "no", "off":
		return false
	case "1", "true", "yes", "on":
		return true
	default:
		return defaultVal
	}
}

func compactNonEmpty(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// LoadDotEnv reads KEY=VALUE lines from a .env file into the process
// environment. Real environment variables win over file values, comment and
// blank lines are skipped, and a missing file is not an error.
func LoadDotEnv(path string) error {
	f, err := os.Open(path) //nolint:gosec // path is caller-controlled
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if os.Getenv(key) != "" {
			continue
		}
		if err := os.Setenv(key, stripQuotes(strings.TrimSpace(value))); err != nil {
			return fmt.Errorf("setenv %s: %w", key, err)
		}
	}
	return scanner.Err()
}

// stripQuotes removes one pair of surrounding quotes when the first and last
// characters are the same quote kind.
func stripQuotes(s string) string {
	if len(s) < 2 {
		return s
	}
	if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}
