package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultAPIURL     = "http://127.0.0.1:7433"
	DefaultDBFileName = ".bugdesk.db"
	DefaultLogLevel   = "info"

	DefaultUploadMaxBytes       int64 = 100 * 1024 * 1024
	DefaultUploadMultipartMem   int64 = 8 * 1024 * 1024
	DefaultSignedURLTTLHours          = 168 // 7 days
	configFileName                    = ".bugdesk.toml"
	configDirEnvKey                   = "BUGDESK_CONFIG_DIR"
)

// UploadConfig defines runtime configuration for attachment uploads.
type UploadConfig struct {
	MaxUploadBytes     int64  `toml:"max_upload_bytes"`
	MultipartMaxMemory int64  `toml:"multipart_max_memory"`
	URLTTLHours        int    `toml:"url_ttl_hours"`
	SignSecret         string `toml:"sign_secret"`
}

// GitHubConfig defines the optional issue-tracker destination. Both fields
// must be set for the notifier to be enabled.
type GitHubConfig struct {
	Repo  string `toml:"repo"`
	Token string `toml:"token"`
}

// Config defines runtime configuration for bugdesk.
type Config struct {
	APIURL   string       `toml:"api_url"`
	DBPath   string       `toml:"db_path"`
	BlobDir  string       `toml:"blob_dir"`
	LogLevel string       `toml:"log_level"`
	Uploads  UploadConfig `toml:"uploads"`
	GitHub   GitHubConfig `toml:"github"`
}

// Default returns default configuration values.
func Default() Config {
	return Config{
		APIURL:   DefaultAPIURL,
		DBPath:   "",
		BlobDir:  "",
		LogLevel: DefaultLogLevel,
		Uploads: UploadConfig{
			MaxUploadBytes:     DefaultUploadMaxBytes,
			MultipartMaxMemory: DefaultUploadMultipartMem,
			URLTTLHours:        DefaultSignedURLTTLHours,
		},
	}
}

// Load reads config from the global file and applies env overrides.
func Load() (*Config, error) {
	cfg := Default()

	path, err := GlobalPath()
	if err == nil {
		if err := loadFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	if cfg.DBPath == "" {
		if cwd, err := os.Getwd(); err == nil {
			cfg.DBPath = filepath.Join(cwd, DefaultDBFileName)
		}
	}
	if cfg.BlobDir == "" {
		// Default bucket location sits next to the database.
		cfg.BlobDir = filepath.Join(filepath.Dir(cfg.DBPath), ".bugdesk", "blobs")
	}

	if apiURL := os.Getenv("BUGDESK_API_URL"); apiURL != "" {
		cfg.APIURL = apiURL
	}
	if dbPath := os.Getenv("BUGDESK_DB"); dbPath != "" {
		cfg.DBPath = dbPath
	}
	if blobDir := os.Getenv("BUGDESK_BLOB_DIR"); blobDir != "" {
		cfg.BlobDir = blobDir
	}
	if secret := os.Getenv("BUGDESK_SIGN_SECRET"); secret != "" {
		cfg.Uploads.SignSecret = secret
	}
	if repo := os.Getenv("BUGDESK_GITHUB_REPO"); repo != "" {
		cfg.GitHub.Repo = repo
	}
	if token := os.Getenv("BUGDESK_GITHUB_TOKEN"); token != "" {
		cfg.GitHub.Token = token
	}

	cfg.normalizeUploadDefaults()

	return &cfg, nil
}

func loadFile(path string, cfg *Config) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

// GlobalPath returns the path to the config file.
func GlobalPath() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(configDirEnvKey)); dir != "" {
		return filepath.Join(dir, configFileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configFileName), nil
}

var allowedKeys = []string{
	"api_url",
	"db_path",
	"blob_dir",
	"log_level",
	"uploads.max_upload_bytes",
	"uploads.multipart_max_memory",
	"uploads.url_ttl_hours",
	"uploads.sign_secret",
	"github.repo",
	"github.token",
}

// AllowedKeys returns the set of valid config keys.
func AllowedKeys() []string {
	return allowedKeys
}

// IsAllowedKey checks if a key is a valid config key.
func IsAllowedKey(key string) bool {
	for _, k := range allowedKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Get returns the value of a config key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "api_url":
		return c.APIURL, nil
	case "db_path":
		return c.DBPath, nil
	case "blob_dir":
		return c.BlobDir, nil
	case "log_level":
		return c.LogLevel, nil
	case "uploads.max_upload_bytes":
		return strconv.FormatInt(c.Uploads.MaxUploadBytes, 10), nil
	case "uploads.multipart_max_memory":
		return strconv.FormatInt(c.Uploads.MultipartMaxMemory, 10), nil
	case "uploads.url_ttl_hours":
		return strconv.Itoa(c.Uploads.URLTTLHours), nil
	case "uploads.sign_secret":
		return c.Uploads.SignSecret, nil
	case "github.repo":
		return c.GitHub.Repo, nil
	case "github.token":
		return c.GitHub.Token, nil
	default:
		return "", fmt.Errorf("unknown key: %s", key)
	}
}

// SetKey reads the TOML file at path, sets key=value, and writes it back.
func SetKey(path, key, value string) error {
	if !IsAllowedKey(key) {
		return fmt.Errorf("unknown key: %s", key)
	}

	data := make(map[string]any)
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &data); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}

	parsedValue, err := parseSetValue(key, value)
	if err != nil {
		return err
	}
	if err := setNestedKey(data, strings.Split(key, "."), parsedValue); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(data)
}

func parseSetValue(key, value string) (any, error) {
	value = strings.TrimSpace(value)
	switch key {
	case "uploads.max_upload_bytes", "uploads.multipart_max_memory":
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("%s must be a positive integer", key)
		}
		return parsed, nil
	case "uploads.url_ttl_hours":
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("%s must be a positive integer", key)
		}
		return parsed, nil
	default:
		return value, nil
	}
}

func setNestedKey(data map[string]any, parts []string, value any) error {
	if len(parts) == 0 {
		return fmt.Errorf("invalid config key")
	}
	if len(parts) == 1 {
		data[parts[0]] = value
		return nil
	}
	childRaw, ok := data[parts[0]]
	if !ok {
		child := map[string]any{}
		data[parts[0]] = child
		return setNestedKey(child, parts[1:], value)
	}
	child, ok := childRaw.(map[string]any)
	if !ok {
		return fmt.Errorf("cannot set nested key %q", strings.Join(parts, "."))
	}
	return setNestedKey(child, parts[1:], value)
}

func (c *Config) normalizeUploadDefaults() {
	if c.Uploads.MaxUploadBytes <= 0 {
		c.Uploads.MaxUploadBytes = DefaultUploadMaxBytes
	}
	if c.Uploads.MultipartMaxMemory <= 0 {
		c.Uploads.MultipartMaxMemory = DefaultUploadMultipartMem
	}
	if c.Uploads.URLTTLHours <= 0 {
		c.Uploads.URLTTLHours = DefaultSignedURLTTLHours
	}
}
