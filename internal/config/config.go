package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// StoreBackend selects where tickets live.
type StoreBackend string

const (
	BackendSheet    StoreBackend = "sheet"
	BackendPostgres StoreBackend = "postgres"
)

type AppConfig struct {
	Name            string
	Env             string
	Port            string
	ShutdownTimeout time.Duration
}

type StoreConfig struct {
	Backend  StoreBackend
	CacheTTL time.Duration
}

// SheetConfig configures the remote spreadsheet backend.
type SheetConfig struct {
	BaseURL            string
	SpreadsheetID      string
	Token              string
	TicketWorksheet    string
	UserWorksheet      string
	CustomerWorksheet  string
	NotifyWorksheet    string
	RequestsPerSecond  float64
	RequestTimeoutSecs int
}

type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	ConnMaxIdleSec int
	ConnMaxLifeSec int
	RunMigrations  bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret      string
	TokenTTL       time.Duration
	RefreshableFor time.Duration
}

type LoggerConfig struct {
	Level string
	JSON  bool
}

type NotificationConfig struct {
	WebhookURL string
}

type Config struct {
	App          AppConfig
	Store        StoreConfig
	Sheet        SheetConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Auth         AuthConfig
	Logger       LoggerConfig
	Notification NotificationConfig
}

// Load reads configuration from the environment, with an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name:            getEnv("APP_NAME", "reclamos-service"),
			Env:             getEnv("APP_ENV", "development"),
			Port:            getEnv("APP_PORT", "8080"),
			ShutdownTimeout: time.Duration(getEnvInt("APP_SHUTDOWN_TIMEOUT_SECS", 10)) * time.Second,
		},
		Store: StoreConfig{
			Backend:  StoreBackend(getEnv("STORE_BACKEND", string(BackendSheet))),
			CacheTTL: time.Duration(getEnvInt("STORE_CACHE_TTL_SECS", 15)) * time.Second,
		},
		Sheet: SheetConfig{
			BaseURL:            getEnv("SHEET_BASE_URL", "https://sheets.googleapis.com"),
			SpreadsheetID:      getEnv("SHEET_SPREADSHEET_ID", ""),
			Token:              getEnv("SHEET_API_TOKEN", ""),
			TicketWorksheet:    getEnv("SHEET_TICKET_WORKSHEET", "Reclamos"),
			UserWorksheet:      getEnv("SHEET_USER_WORKSHEET", "Usuarios"),
			CustomerWorksheet:  getEnv("SHEET_CUSTOMER_WORKSHEET", "Clientes"),
			NotifyWorksheet:    getEnv("SHEET_NOTIFY_WORKSHEET", "Notificaciones"),
			RequestsPerSecond:  getEnvFloat("SHEET_REQUESTS_PER_SECOND", 1),
			RequestTimeoutSecs: getEnvInt("SHEET_REQUEST_TIMEOUT_SECS", 15),
		},
		Postgres: PostgresConfig{
			DSN:            getEnv("POSTGRES_DSN", ""),
			MaxConns:       int32(getEnvInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvInt("POSTGRES_MIN_CONNS", 2)),
			ConnMaxIdleSec: getEnvInt("POSTGRES_CONN_MAX_IDLE_SECS", 300),
			ConnMaxLifeSec: getEnvInt("POSTGRES_CONN_MAX_LIFE_SECS", 3600),
			RunMigrations:  getEnvBool("POSTGRES_RUN_MIGRATIONS", true),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			JWTSecret:      getEnv("JWT_SECRET", ""),
			TokenTTL:       time.Duration(getEnvInt("JWT_TTL_MINUTES", 480)) * time.Minute,
			RefreshableFor: time.Duration(getEnvInt("JWT_REFRESH_HOURS", 72)) * time.Hour,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			JSON:  getEnvBool("LOG_JSON", true),
		},
		Notification: NotificationConfig{
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case BackendSheet:
		if c.Sheet.SpreadsheetID == "" {
			return fmt.Errorf("SHEET_SPREADSHEET_ID is required with the sheet backend")
		}
	case BackendPostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required with the postgres backend")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Store.Backend)
	}
	if c.Auth.JWTSecret == "" && c.App.Env == "production" {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
