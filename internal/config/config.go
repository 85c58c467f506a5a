// backend-go/internal/config/config.go
package config

import (
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Health   HealthConfig
	Cache    CacheConfig
	AI       AIConfig
	Storage  StorageConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// HealthConfig tunes the stock-health derivation engine. Defaults match the
// historical 7-day window with 3/7 day thresholds.
type HealthConfig struct {
	WindowDays       int
	CriticalBelow    float64
	WarningThrough   float64
	SafetyFactor     float64
	AlertCap         int
	ReorderCap       int
	StockHealthCap   int
	LowStockChartCap int
}

type CacheConfig struct {
	Enabled            bool
	RedisURL           string
	RedisHost          string
	RedisPort          string
	RedisPassword      string
	RedisDB            int
	SnapshotTTLSeconds int
}

type AIConfig struct {
	Enabled  bool
	APIKey   string
	Model    string
	MaxTurns int
}

type StorageConfig struct {
	Enabled   bool
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Load reads configuration from the environment, after loading .env when
// present. Callers hold the returned value; there is no package-level state.
func Load() *Config {
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_MODE", "debug")
	v.SetDefault("SERVER_READ_TIMEOUT", 15)
	v.SetDefault("SERVER_WRITE_TIMEOUT", 15)
	v.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "medstock")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("HEALTH_WINDOW_DAYS", 7)
	v.SetDefault("HEALTH_CRITICAL_BELOW_DAYS", 3.0)
	v.SetDefault("HEALTH_WARNING_THROUGH_DAYS", 7.0)
	v.SetDefault("HEALTH_SAFETY_FACTOR", 2.0)
	v.SetDefault("HEALTH_ALERT_CAP", 20)
	v.SetDefault("HEALTH_REORDER_CAP", 15)
	v.SetDefault("HEALTH_STOCK_HEALTH_CAP", 30)
	v.SetDefault("HEALTH_LOW_STOCK_CHART_CAP", 5)

	v.SetDefault("CACHE_ENABLED", false)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_HOST", "127.0.0.1")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_SNAPSHOT_TTL_SECONDS", 60)

	v.SetDefault("AI_ENABLED", false)
	v.SetDefault("OPENAI_API_KEY", "")
	v.SetDefault("AI_MODEL", "gpt-4o-mini")
	v.SetDefault("AI_MAX_TURNS", 8)

	v.SetDefault("STORAGE_ENABLED", false)
	v.SetDefault("STORAGE_ENDPOINT", "localhost:9000")
	v.SetDefault("STORAGE_ACCESS_KEY", "")
	v.SetDefault("STORAGE_SECRET_KEY", "")
	v.SetDefault("STORAGE_BUCKET", "medstock-reports")
	v.SetDefault("STORAGE_USE_SSL", false)

	v.AutomaticEnv()

	return &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Mode:           v.GetString("SERVER_MODE"),
			ReadTimeout:    v.GetInt("SERVER_READ_TIMEOUT"),
			WriteTimeout:   v.GetInt("SERVER_WRITE_TIMEOUT"),
			AllowedOrigins: v.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		Health: HealthConfig{
			WindowDays:       v.GetInt("HEALTH_WINDOW_DAYS"),
			CriticalBelow:    v.GetFloat64("HEALTH_CRITICAL_BELOW_DAYS"),
			WarningThrough:   v.GetFloat64("HEALTH_WARNING_THROUGH_DAYS"),
			SafetyFactor:     v.GetFloat64("HEALTH_SAFETY_FACTOR"),
			AlertCap:         v.GetInt("HEALTH_ALERT_CAP"),
			ReorderCap:       v.GetInt("HEALTH_REORDER_CAP"),
			StockHealthCap:   v.GetInt("HEALTH_STOCK_HEALTH_CAP"),
			LowStockChartCap: v.GetInt("HEALTH_LOW_STOCK_CHART_CAP"),
		},
		Cache: CacheConfig{
			Enabled:            v.GetBool("CACHE_ENABLED"),
			RedisURL:           v.GetString("REDIS_URL"),
			RedisHost:          v.GetString("REDIS_HOST"),
			RedisPort:          v.GetString("REDIS_PORT"),
			RedisPassword:      v.GetString("REDIS_PASSWORD"),
			RedisDB:            v.GetInt("REDIS_DB"),
			SnapshotTTLSeconds: v.GetInt("CACHE_SNAPSHOT_TTL_SECONDS"),
		},
		AI: AIConfig{
			Enabled:  v.GetBool("AI_ENABLED"),
			APIKey:   v.GetString("OPENAI_API_KEY"),
			Model:    v.GetString("AI_MODEL"),
			MaxTurns: v.GetInt("AI_MAX_TURNS"),
		},
		Storage: StorageConfig{
			Enabled:   v.GetBool("STORAGE_ENABLED"),
			Endpoint:  v.GetString("STORAGE_ENDPOINT"),
			AccessKey: v.GetString("STORAGE_ACCESS_KEY"),
			SecretKey: v.GetString("STORAGE_SECRET_KEY"),
			Bucket:    v.GetString("STORAGE_BUCKET"),
			UseSSL:    v.GetBool("STORAGE_USE_SSL"),
		},
	}
}
