package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/iamasit07/connect4-minimax/internal/domain"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Port                 string
	AllowedOrigins       []string
	FrontendURL          string
	DatabaseURL          string
	DatabaseDriver       string
	DBMaxOpenConns       int
	DBMaxIdleConns       int
	DBConnMaxLifetimeMin int
	RedisURL             string
	RedisPassword        string
	JWTSecret            string
	PlayerTokenTTL       time.Duration
	BoardRows            int
	BoardColumns         int
	ConnectLength        int
	SearchOrder          string
	AnalyzeMaxEmpty      int
	AnalyzeConcurrency   int
	BotMoveDelay         time.Duration
	SessionIdleTTL       time.Duration
	CleanupInterval      time.Duration
	LogLevel             string
	LogFormat            string
}

func LoadConfig() *Config {
	port := GetEnv("PORT", "8080")

	// Frontend & CORS
	frontendURL := GetEnv("FRONTEND_URL", "http://localhost:5173")
	allowedOrigins := []string{frontendURL}
	for _, origin := range strings.Split(GetEnv("ALLOWED_ORIGINS", ""), ",") {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			allowedOrigins = append(allowedOrigins, trimmed)
		}
	}

	// Database Config
	// Append simple_protocol for PgBouncer compatibility (pgx driver)
	driver := GetEnv("DATABASE_DRIVER", "pgx")
	dbURL := GetEnv("DATABASE_URL", "")
	if dbURL != "" && driver == "pgx" {
		if u, err := url.Parse(dbURL); err == nil {
			q := u.Query()
			if q.Get("default_query_exec_mode") == "" {
				q.Set("default_query_exec_mode", "simple_protocol")
				u.RawQuery = q.Encode()
				dbURL = u.String()
			}
		}
	}

	return &Config{
		Port:                 port,
		AllowedOrigins:       allowedOrigins,
		FrontendURL:          frontendURL,
		DatabaseURL:          dbURL,
		DatabaseDriver:       driver,
		DBMaxOpenConns:       GetEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:       GetEnvAsInt("DB_MAX_IDLE_CONNS", 25),
		DBConnMaxLifetimeMin: GetEnvAsInt("DB_CONN_MAX_LIFETIME_MINUTES", 5),
		RedisURL:             GetEnv("REDIS_URL", ""),
		RedisPassword:        GetEnv("REDIS_PASSWORD", ""),
		JWTSecret:            GetEnv("JWT_SECRET", "your-secret-key-change-this-in-production"),
		PlayerTokenTTL:       GetEnvAsDuration("PLAYER_TOKEN_TTL_HOURS", 24, time.Hour),
		BoardRows:            GetEnvAsInt("BOARD_ROWS", domain.Rows),
		BoardColumns:         GetEnvAsInt("BOARD_COLUMNS", domain.Columns),
		ConnectLength:        GetEnvAsInt("CONNECT_LENGTH", domain.ToWin),
		SearchOrder:          GetEnv("SEARCH_ORDER", "ascending"),
		AnalyzeMaxEmpty:      GetEnvAsInt("ANALYZE_MAX_EMPTY", 16),
		AnalyzeConcurrency:   GetEnvAsInt("ANALYZE_CONCURRENCY", 2),
		BotMoveDelay:         GetEnvAsDuration("BOT_MOVE_DELAY_MS", 500, time.Millisecond),
		SessionIdleTTL:       GetEnvAsDuration("SESSION_IDLE_TTL_MINUTES", 60, time.Minute),
		CleanupInterval:      GetEnvAsDuration("CLEANUP_INTERVAL_MINUTES", 10, time.Minute),
		LogLevel:             GetEnv("LOG_LEVEL", "info"),
		LogFormat:            GetEnv("LOG_FORMAT", "console"),
	}
}

// Geometry returns the configured board shape.
func (c *Config) Geometry() (domain.Geometry, error) {
	geo := domain.Geometry{Rows: c.BoardRows, Columns: c.BoardColumns, ToWin: c.ConnectLength}
	if err := geo.Validate(); err != nil {
		return domain.Geometry{}, err
	}
	return geo, nil
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Warn().Str("key", key).Str("value", valueStr).Int("default", defaultValue).Msg("invalid integer value, using default")
		return defaultValue
	}
	return value
}

// GetEnvAsDuration reads an integer count of unit.
func GetEnvAsDuration(key string, defaultValue int, unit time.Duration) time.Duration {
	return time.Duration(GetEnvAsInt(key, defaultValue)) * unit
}
