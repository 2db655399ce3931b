package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates all runtime settings required by the application.
type Config struct {
	AppName     string
	Environment string
	HTTP        HTTPConfig
	Supabase    SupabaseConfig
	CORS        CORSConfig
	Query       QueryConfig
	Context     ContextConfig
	Logger      LoggerConfig
	Migrations  MigrationsConfig
}

type HTTPConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	GzipMinSize  int
}

// SupabaseConfig holds the hosted backend connection details. Key is the
// publishable (anon) API key; request-path calls always add the caller's
// delegated token on top of it.
type SupabaseConfig struct {
	URL              string
	Key              string
	JWTSecret        string
	Timeout          time.Duration
	ResetRedirectURL string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type QueryConfig struct {
	SlowThreshold time.Duration
}

type ContextConfig struct {
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

// MigrationsConfig controls the admin-time schema runner. DatabaseURL is a
// direct DSN used only for migrations, never on the request path.
type MigrationsConfig struct {
	Enabled     bool
	Path        string
	DatabaseURL string
}

// Load reads configuration from environment variables (optionally .env)
// and applies sane defaults so the service can boot in any environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AppName:     getString("APP_NAME", "task-manager"),
		Environment: getString("APP_ENV", "development"),
		HTTP: HTTPConfig{
			Host:         getString("SERVER_HOST", "0.0.0.0"),
			Port:         getString("SERVER_PORT", "3000"),
			ReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
			GzipMinSize:  getInt("GZIP_MIN_SIZE", 1024),
		},
		Supabase: SupabaseConfig{
			URL:              os.Getenv("SUPABASE_URL"),
			Key:              os.Getenv("SUPABASE_PUBLISHABLE_KEY"),
			JWTSecret:        os.Getenv("SUPABASE_JWT_SECRET"),
			Timeout:          getDuration("SUPABASE_TIMEOUT", 10*time.Second),
			ResetRedirectURL: getString("FRONTEND_RESET_PASSWORD_URL", "http://localhost:4200/reset-password"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Query: QueryConfig{
			SlowThreshold: getMillis("SLOW_QUERY_THRESHOLD_MS", 200*time.Millisecond),
		},
		Context: ContextConfig{
			RequestTimeout:  getSeconds("REQUEST_TIMEOUT_SECONDS", 15*time.Second),
			ShutdownTimeout: getSeconds("SHUTDOWN_TIMEOUT_SECONDS", 15*time.Second),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "info"),
			Encoding: getString("LOG_ENCODING", "json"),
		},
		Migrations: MigrationsConfig{
			Enabled:     getBool("RUN_MIGRATIONS", false),
			Path:        getString("MIGRATIONS_PATH", "./assets/migrations"),
			DatabaseURL: os.Getenv("DATABASE_URL"),
		},
	}

	if cfg.Supabase.URL == "" || cfg.Supabase.Key == "" {
		return nil, fmt.Errorf("missing SUPABASE_URL or SUPABASE_PUBLISHABLE_KEY")
	}
	if cfg.Supabase.JWTSecret == "" {
		return nil, fmt.Errorf("missing SUPABASE_JWT_SECRET")
	}

	return cfg, nil
}

// MustLoad panics if configuration cannot be loaded.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

// getSeconds parses keys whose name carries a _SECONDS suffix: the value is
// a plain integer second count, matching the unit in the name.
func getSeconds(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if seconds, err := strconv.Atoi(val); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

func getMillis(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if ms, err := strconv.Atoi(val); err == nil && ms > 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return fallback
}

func getList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parts := strings.Split(val, ",")
	out := parts[:0]
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

// Address returns the HTTP listen address for the fasthttp server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.HTTP.Host, c.HTTP.Port)
}
