package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultCodec      = "json"
	DefaultLogLevel   = "info"
	DefaultSessionTTL = 24 * time.Hour
)

// Config is the runtime configuration shared by the binaries. Flags
// override the values read from the environment.
type Config struct {
	DBPath       string
	SnapshotPath string
	ContentDir   string
	Owner        string
	RedisURL     string
	Session      string
	SessionTTL   time.Duration
	Codec        string
	LogLevel     string
	LogFile      string
	MetricsAddr  string
}

// LoadDotEnv reads .env from the working directory when present
func LoadDotEnv() {
	_ = godotenv.Load()
}

// Load reads the configuration from the environment
func Load() Config {
	return Config{
		DBPath:       GetEnvAsString("NOTEBOARD_DB", filepath.Join(DataDir(), "noteboard.db")),
		SnapshotPath: GetEnvAsString("NOTEBOARD_SNAPSHOT", filepath.Join(StateDir(), "snapshot")),
		ContentDir:   GetEnvAsString("NOTEBOARD_CONTENT_DIR", filepath.Join(DataDir(), "content")),
		Owner:        GetEnvAsString("NOTEBOARD_OWNER", ""),
		RedisURL:     GetEnvAsString("NOTEBOARD_REDIS_URL", ""),
		Session:      GetEnvAsString("NOTEBOARD_SESSION", "default"),
		SessionTTL:   GetEnvAsDuration("NOTEBOARD_SESSION_TTL", DefaultSessionTTL),
		Codec:        GetEnvAsString("NOTEBOARD_CODEC", DefaultCodec),
		LogLevel:     GetEnvAsString("NOTEBOARD_LOG_LEVEL", DefaultLogLevel),
		LogFile:      GetEnvAsString("NOTEBOARD_LOG_FILE", ""),
		MetricsAddr:  GetEnvAsString("NOTEBOARD_METRICS_ADDR", ""),
	}
}

// DataDir returns $XDG_DATA_HOME/noteboard, falling back to ~/.local/share
func DataDir() string {
	return xdgDir("XDG_DATA_HOME", ".local", "share")
}

// StateDir returns $XDG_STATE_HOME/noteboard, falling back to ~/.local/state
func StateDir() string {
	return xdgDir("XDG_STATE_HOME", ".local", "state")
}

func xdgDir(env string, fallback ...string) string {
	base := os.Getenv(env)
	if base == "" {
		home, _ := os.UserHomeDir()
		base = filepath.Join(append([]string{home}, fallback...)...)
	}
	return filepath.Join(base, "noteboard")
}

// GetEnvAsString retrieves an environment variable or returns a default value
func GetEnvAsString(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

// GetEnvAsInt retrieves an environment variable as an integer
func GetEnvAsInt(key string, defaultVal int) int {
	if value, exists := os.LookupEnv(key); exists {
		if result, err := strconv.Atoi(value); err == nil {
			return result
		}
	}
	return defaultVal
}

// GetEnvAsDuration retrieves an environment variable as a Duration
func GetEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if result, err := time.ParseDuration(value); err == nil {
			return result
		}
	}
	return defaultVal
}
