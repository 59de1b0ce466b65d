package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Redis    RedisConfig    `json:"redis"`
	Court    CourtConfig    `json:"court"`
	Browser  BrowserConfig  `json:"browser"`
	Download DownloadConfig `json:"download"`
	Log      LogConfig      `json:"log"`
	Security SecurityConfig `json:"security"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port         int    `json:"port"`
	Environment  string `json:"environment"`
	ReadTimeout  int    `json:"read_timeout"`
	WriteTimeout int    `json:"write_timeout"`
	IdleTimeout  int    `json:"idle_timeout"`
}

// DatabaseConfig holds SQLite configuration
type DatabaseConfig struct {
	Path        string        `json:"path"`
	BusyTimeout time.Duration `json:"busy_timeout"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host         string        `json:"host"`
	Port         int           `json:"port"`
	Password     string        `json:"password"`
	DB           int           `json:"db"`
	PoolSize     int           `json:"pool_size"`
	DialTimeout  time.Duration `json:"dial_timeout"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
}

// CourtConfig holds court scraping configuration
type CourtConfig struct {
	// Site root, order links are resolved against it
	BaseURL string `json:"base_url"`
	// Case-type status search form
	SearchURL string `json:"search_url"`
	// Upper bound for one navigation/wait step
	Timeout time.Duration `json:"timeout"`
	// Extra wait after navigation/submit for dynamically rendered content
	SettleDelay time.Duration `json:"settle_delay"`
	MaxRetries  int           `json:"max_retries"`
	RetryDelay  time.Duration `json:"retry_delay"`
	CacheTTL    time.Duration `json:"cache_ttl"`
}

// BrowserConfig holds browser automation configuration
type BrowserConfig struct {
	Headless     bool   `json:"headless"`
	WindowWidth  int    `json:"window_width"`
	WindowHeight int    `json:"window_height"`
	UserAgent    string `json:"user_agent"`
}

// DownloadConfig holds PDF download configuration
type DownloadConfig struct {
	Dir       string        `json:"dir"`
	Timeout   time.Duration `json:"timeout"`
	UserAgent string        `json:"user_agent"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// SecurityConfig holds security configuration
type SecurityConfig struct {
	RateLimit RateLimitConfig `json:"rate_limit"`
	CORS      CORSConfig      `json:"cors"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int           `json:"requests_per_minute"`
	BurstSize         int           `json:"burst_size"`
	CleanupInterval   time.Duration `json:"cleanup_interval"`
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string `json:"allowed_origins"`
	AllowedMethods   []string `json:"allowed_methods"`
	AllowedHeaders   []string `json:"allowed_headers"`
	AllowCredentials bool     `json:"allow_credentials"`
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnvAsInt("PORT", 8080),
			Environment:  getEnv("ENVIRONMENT", "development"),
			ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 30),
			WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 120),
			IdleTimeout:  getEnvAsInt("IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Path:        getEnv("DATABASE_PATH", "court_data.db"),
			BusyTimeout: time.Duration(getEnvAsInt("DATABASE_BUSY_TIMEOUT", 10000)) * time.Millisecond,
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnvAsInt("REDIS_PORT", 6379),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			DialTimeout:  time.Duration(getEnvAsInt("REDIS_DIAL_TIMEOUT", 5)) * time.Second,
			ReadTimeout:  time.Duration(getEnvAsInt("REDIS_READ_TIMEOUT", 3)) * time.Second,
			WriteTimeout: time.Duration(getEnvAsInt("REDIS_WRITE_TIMEOUT", 3)) * time.Second,
		},
		Court: CourtConfig{
			BaseURL:     getEnv("COURT_BASE_URL", "https://delhihighcourt.nic.in"),
			SearchURL:   getEnv("COURT_SEARCH_URL", "https://delhihighcourt.nic.in/app/get-case-type-status"),
			Timeout:     time.Duration(getEnvAsInt("COURT_TIMEOUT", 30)) * time.Second,
			SettleDelay: time.Duration(getEnvAsInt("COURT_SETTLE_DELAY", 3)) * time.Second,
			MaxRetries:  getEnvAsInt("COURT_MAX_RETRIES", 3),
			RetryDelay:  time.Duration(getEnvAsInt("COURT_RETRY_DELAY", 5)) * time.Second,
			CacheTTL:    time.Duration(getEnvAsInt("COURT_CACHE_TTL", 3600)) * time.Second,
		},
		Browser: BrowserConfig{
			Headless:     getEnvAsBool("BROWSER_HEADLESS", true),
			WindowWidth:  getEnvAsInt("BROWSER_WINDOW_WIDTH", 1920),
			WindowHeight: getEnvAsInt("BROWSER_WINDOW_HEIGHT", 1080),
			UserAgent:    getEnv("BROWSER_USER_AGENT", defaultUserAgent),
		},
		Download: DownloadConfig{
			Dir:       getEnv("DOWNLOAD_DIR", "downloads"),
			Timeout:   time.Duration(getEnvAsInt("DOWNLOAD_TIMEOUT", 30)) * time.Second,
			UserAgent: getEnv("DOWNLOAD_USER_AGENT", defaultUserAgent),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Security: SecurityConfig{
			RateLimit: RateLimitConfig{
				RequestsPerMinute: getEnvAsInt("RATE_LIMIT_RPM", 60),
				BurstSize:         getEnvAsInt("RATE_LIMIT_BURST", 10),
				CleanupInterval:   time.Duration(getEnvAsInt("RATE_LIMIT_CLEANUP", 60)) * time.Second,
			},
			CORS: CORSConfig{
				AllowedOrigins:   []string{"*"},
				AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
				AllowedHeaders:   []string{"*"},
				AllowCredentials: false,
			},
		},
	}

	return cfg, nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
