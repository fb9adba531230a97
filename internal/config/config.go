package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Backend names.
const (
	BackendNotion = "notion"
	BackendLocal  = "local"
)

// Config holds application configuration.
type Config struct {
	// NotionToken is the integration secret sent as a bearer token.
	NotionToken string `json:"notion_token,omitempty"`

	// NotionDatabaseID identifies the content database.
	NotionDatabaseID string `json:"notion_database_id,omitempty"`

	// NotionAPIURL is the API base URL. Tests point it at an httptest server.
	NotionAPIURL string `json:"notion_api_url,omitempty"`

	// NotionVersion is sent as the Notion-Version header.
	NotionVersion string `json:"notion_version,omitempty"`

	// Backend selects the content store: "notion" or "local".
	// The local backend keeps items in ~/.contentvault/vault.db.
	Backend string `json:"backend,omitempty"`

	// SiteName is shown in the page header and title.
	SiteName string `json:"site_name,omitempty"`

	// Bind and Port set the web server listen address.
	Bind string `json:"bind,omitempty"`
	Port int    `json:"port,omitempty"`

	// HTTPTimeoutSeconds bounds every upstream request (Notion and markdown sources).
	HTTPTimeoutSeconds int `json:"http_timeout_seconds,omitempty"`

	// PreviewCacheSeconds caches page and block reads. 0 disables the cache.
	PreviewCacheSeconds int `json:"preview_cache_seconds,omitempty"`

	// LogLevel is a logrus level name. LogFormat is "text" or "json".
	LogLevel  string `json:"log_level,omitempty"`
	LogFormat string `json:"log_format,omitempty"`

	// DBMaxOpenConns limits open connections for the local backend.
	// 0 means use sql.DB default (unlimited).
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		NotionAPIURL:       "https://api.notion.com/v1",
		NotionVersion:      "2022-06-28",
		Backend:            BackendNotion,
		SiteName:           "ContentVault",
		Bind:               "127.0.0.1",
		Port:               8080,
		HTTPTimeoutSeconds: 30,
		LogLevel:           "info",
		LogFormat:          "text",
	}
}

// HTTPTimeout returns the upstream request timeout.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSeconds) * time.Second
}

// PreviewCacheTTL returns the page read cache TTL. Zero disables caching.
func (c *Config) PreviewCacheTTL() time.Duration {
	return time.Duration(c.PreviewCacheSeconds) * time.Second
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendNotion, BackendLocal:
	default:
		return fmt.Errorf("unknown backend %q (want %q or %q)", c.Backend, BackendNotion, BackendLocal)
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.HTTPTimeoutSeconds < 0 || c.PreviewCacheSeconds < 0 {
		return errors.New("timeouts must not be negative")
	}
	return nil
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.contentvault.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// LoadWithRepo loads configuration from both global (~/.contentvault) and project (.contentvault) directories.
// Project config is found by walking upward from startDir to find the nearest .contentvault/config.json.
// Project config takes precedence for scalar values; arrays are merged (deduplicated).
// Either or both configs may be missing.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	repo, err := loadFileRaw(FindRepoConfig(startDir))
	if err != nil {
		return nil, err
	}

	return Merge(Merge(DefaultConfig(), global), repo), nil
}

// FindRepoConfig walks upward from startDir to find the nearest .contentvault/config.json.
// Returns the path if found, or empty string if not found.
func FindRepoConfig(startDir string) string {
	dir := startDir
	for {
		configPath := filepath.Join(dir, ".contentvault", "config.json")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment.
// Variables that are already set are not overwritten. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(path)
}

// ApplyEnv overlays environment variables onto cfg. lookup is os.LookupEnv
// outside of tests.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) *Config {
	first := func(keys ...string) string {
		for _, k := range keys {
			if v, ok := lookup(k); ok && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		}
		return ""
	}

	overlay := &Config{
		NotionToken:      first("NOTION_TOKEN"),
		NotionDatabaseID: first("NOTION_DATABASE_ID", "NEXT_PUBLIC_NOTION_DATABASE_ID"),
		NotionAPIURL:     first("NOTION_API_URL"),
		Backend:          strings.ToLower(first("VAULT_BACKEND")),
		SiteName:         first("SITE_NAME", "NEXT_PUBLIC_SITE_NAME"),
		LogLevel:         first("VAULT_LOG_LEVEL"),
		LogFormat:        first("VAULT_LOG_FORMAT"),
	}
	if p, err := strconv.Atoi(first("VAULT_PORT")); err == nil {
		overlay.Port = p
	}
	return Merge(cfg, overlay)
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	if configPath == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	return &Config{
		NotionToken:         pickString(overlay.NotionToken, base.NotionToken),
		NotionDatabaseID:    pickString(overlay.NotionDatabaseID, base.NotionDatabaseID),
		NotionAPIURL:        pickString(overlay.NotionAPIURL, base.NotionAPIURL),
		NotionVersion:       pickString(overlay.NotionVersion, base.NotionVersion),
		Backend:             pickString(overlay.Backend, base.Backend),
		SiteName:            pickString(overlay.SiteName, base.SiteName),
		Bind:                pickString(overlay.Bind, base.Bind),
		Port:                pickInt(overlay.Port, base.Port),
		HTTPTimeoutSeconds:  pickInt(overlay.HTTPTimeoutSeconds, base.HTTPTimeoutSeconds),
		PreviewCacheSeconds: pickInt(overlay.PreviewCacheSeconds, base.PreviewCacheSeconds),
		LogLevel:            pickString(overlay.LogLevel, base.LogLevel),
		LogFormat:           pickString(overlay.LogFormat, base.LogFormat),
		DBMaxOpenConns:      pickInt(overlay.DBMaxOpenConns, base.DBMaxOpenConns),
		DisabledTools:       mergeStringSlice(base.DisabledTools, overlay.DisabledTools),
	}
}

func pickString(overlay, base string) string {
	if overlay != "" {
		return overlay
	}
	return base
}

func pickInt(overlay, base int) int {
	if overlay != 0 {
		return overlay
	}
	return base
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, list := range [][]string{a, b} {
		for _, s := range list {
			s = strings.TrimSpace(s)
			if s != "" && !seen[s] {
				seen[s] = true
				result = append(result, s)
			}
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
