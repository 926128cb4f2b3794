package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar names the environment variable holding an explicit config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultAdminPassword is the bootstrap password used when ADMIN_PASSWORD is unset.
const DefaultAdminPassword = "password"

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/mongoadmin/config.yaml",
}

type Config struct {
	Mongo    MongoConfig    `koanf:"mongo"`
	HTTP     HTTPConfig     `koanf:"http"`
	Log      LogConfig      `koanf:"log"`
	Admin    AdminConfig    `koanf:"admin"`
	Session  SessionConfig  `koanf:"session"`
	Security SecurityConfig `koanf:"security"`
	DevMode  bool           `koanf:"dev_mode"`
}

type MongoConfig struct {
	URI               string        `koanf:"uri"`
	AuthDatabase      string        `koanf:"auth_database"`
	ConnectTimeout    time.Duration `koanf:"connect_timeout"`
	ReservedDatabases []string      `koanf:"reserved_databases"`
}

type HTTPConfig struct {
	ListenAddr        string `koanf:"listen_addr"`
	MetricsListenAddr string `koanf:"metrics_listen_addr"`
	MaxUploadBytes    int64  `koanf:"max_upload_bytes"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// AdminConfig holds the legacy username/password used to bootstrap the first admin.
type AdminConfig struct {
	Username string `koanf:"username"`
	Password string `koanf:"password"`
}

type SessionConfig struct {
	Backend      string        `koanf:"backend"`
	RedisURL     string        `koanf:"redis_url"`
	TTL          time.Duration `koanf:"ttl"`
	CookieSecure bool          `koanf:"cookie_secure"`
}

type SecurityConfig struct {
	CORSOrigins    []string `koanf:"cors_origins"`
	LoginRateLimit int      `koanf:"login_rate_limit"`
}

func defaultConfig() *Config {
	return &Config{
		Mongo: MongoConfig{
			URI:               "mongodb://localhost:27017/",
			AuthDatabase:      "_auth",
			ConnectTimeout:    10 * time.Second,
			ReservedDatabases: []string{"local"},
		},
		HTTP: HTTPConfig{
			ListenAddr:     ":8000",
			MaxUploadBytes: 16 << 20,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Admin: AdminConfig{
			Username: "admin",
			Password: DefaultAdminPassword,
		},
		Session: SessionConfig{
			Backend: "memory",
			TTL:     24 * time.Hour,
		},
		Security: SecurityConfig{
			LoginRateLimit: 10,
		},
	}
}

// Load reads configuration from defaults, an optional YAML file and the
// environment, in increasing order of precedence.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("process slice fields: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	var problems []string
	if c.Mongo.URI == "" {
		problems = append(problems, "MONGO_URI is required")
	}
	if c.Mongo.AuthDatabase == "" {
		problems = append(problems, "AUTH_DATABASE is required")
	}
	if c.HTTP.ListenAddr == "" {
		problems = append(problems, "HTTP_LISTEN_ADDR is required")
	}
	if c.Admin.Username == "" {
		problems = append(problems, "ADMIN_USERNAME is required")
	}
	if len(c.Admin.Password) < 6 {
		problems = append(problems, "ADMIN_PASSWORD must be at least 6 characters")
	}
	switch c.Session.Backend {
	case "memory":
	case "redis":
		if c.Session.RedisURL == "" {
			problems = append(problems, "REDIS_URL is required when SESSION_BACKEND=redis")
		}
	default:
		problems = append(problems, fmt.Sprintf("SESSION_BACKEND must be memory or redis, got %q", c.Session.Backend))
	}
	if c.Session.TTL <= 0 {
		problems = append(problems, "SESSION_TTL must be positive")
	}
	if c.HTTP.MaxUploadBytes <= 0 {
		problems = append(problems, "MAX_UPLOAD_BYTES must be positive")
	}
	if c.Security.LoginRateLimit <= 0 {
		problems = append(problems, "LOGIN_RATE_LIMIT must be positive")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// UsesDefaultAdminPassword reports whether the bootstrap admin would be
// created with the built-in password.
func (c *Config) UsesDefaultAdminPassword() bool {
	return c.Admin.Password == DefaultAdminPassword
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

var envMappings = map[string]string{
	"mongo_uri":             "mongo.uri",
	"mongo_connect_timeout": "mongo.connect_timeout",
	"auth_database":         "mongo.auth_database",
	"reserved_databases":    "mongo.reserved_databases",
	"http_listen_addr":      "http.listen_addr",
	"metrics_listen_addr":   "http.metrics_listen_addr",
	"max_upload_bytes":      "http.max_upload_bytes",
	"log_level":             "log.level",
	"log_format":            "log.format",
	"admin_username":        "admin.username",
	"admin_password":        "admin.password",
	"session_backend":       "session.backend",
	"redis_url":             "session.redis_url",
	"session_ttl":           "session.ttl",
	"cookie_secure":         "session.cookie_secure",
	"cors_origins":          "security.cors_origins",
	"login_rate_limit":      "security.login_rate_limit",
	"dev_mode":              "dev_mode",
}

// envTransformFunc maps known environment variables to koanf paths.
// Unknown variables map to "" and are ignored.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

var sliceConfigPaths = []string{
	"mongo.reserved_databases",
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		var trimmed []string
		for _, p := range strings.Split(strVal, ",") {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if trimmed == nil {
			trimmed = []string{}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("set %s: %w", path, err)
		}
	}
	return nil
}
