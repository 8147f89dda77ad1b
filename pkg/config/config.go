package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database DatabaseConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Log      LogConfig
	Engine   EngineConfig
	Matrix   MatrixConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// EngineConfig carries every tunable coefficient of the conflict engine.
// Weights feed the priority score; thresholds gate auto-apply.
type EngineConfig struct {
	// Priority score component ceilings. Hard-constraint violations
	// (double bookings) score up to HardViolationWeight, soft ones
	// (equipment, proximity) up to SoftViolationWeight.
	HardViolationWeight int
	SoftViolationWeight int
	// AffectedEntityWeight is the ceiling of the affected-entity component.
	AffectedEntityWeight int
	// CascadeWeight caps the cascade-impact component; each estimated
	// cascade unit contributes CascadeUnitScore points up to the cap.
	CascadeWeight    int
	CascadeUnitScore int
	// TimeSensitivityWeight is the ceiling of the freshness component.
	TimeSensitivityWeight int

	// Auto-apply gates.
	AutoApplyMaxImpact     int
	AutoApplyMinSuccess    int
	AutoApplyEnrollmentCap int

	// Suggestions below this success probability are replaced by the
	// manual-review fallback.
	SuggestionConfidenceFloor int

	// HistoryWindow bounds the per-type resolution outcome window used for
	// empirical success rates.
	HistoryWindow int

	// DefaultMaxRoomDistanceMinutes applies when a course does not declare
	// its own proximity limit.
	DefaultMaxRoomDistanceMinutes int
}

// MatrixConfig governs the per-year conflict matrix cache.
type MatrixConfig struct {
	HeatmapCacheTTL time.Duration
	// SingletonPriorityLevel is assigned to singleton pairs on rebuild.
	SingletonPriorityLevel int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Engine = EngineConfig{
		HardViolationWeight:           v.GetInt("ENGINE_HARD_VIOLATION_WEIGHT"),
		SoftViolationWeight:           v.GetInt("ENGINE_SOFT_VIOLATION_WEIGHT"),
		AffectedEntityWeight:          v.GetInt("ENGINE_AFFECTED_ENTITY_WEIGHT"),
		CascadeWeight:                 v.GetInt("ENGINE_CASCADE_WEIGHT"),
		CascadeUnitScore:              v.GetInt("ENGINE_CASCADE_UNIT_SCORE"),
		TimeSensitivityWeight:         v.GetInt("ENGINE_TIME_SENSITIVITY_WEIGHT"),
		AutoApplyMaxImpact:            v.GetInt("ENGINE_AUTO_APPLY_MAX_IMPACT"),
		AutoApplyMinSuccess:           v.GetInt("ENGINE_AUTO_APPLY_MIN_SUCCESS"),
		AutoApplyEnrollmentCap:        v.GetInt("ENGINE_AUTO_APPLY_ENROLLMENT_CAP"),
		SuggestionConfidenceFloor:     v.GetInt("ENGINE_SUGGESTION_CONFIDENCE_FLOOR"),
		HistoryWindow:                 v.GetInt("ENGINE_HISTORY_WINDOW"),
		DefaultMaxRoomDistanceMinutes: v.GetInt("ENGINE_DEFAULT_MAX_ROOM_DISTANCE"),
	}

	cfg.Matrix = MatrixConfig{
		HeatmapCacheTTL:        parseDuration(v.GetString("MATRIX_HEATMAP_CACHE_TTL"), 10*time.Minute),
		SingletonPriorityLevel: v.GetInt("MATRIX_SINGLETON_PRIORITY_LEVEL"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "scheduler_engine")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENGINE_HARD_VIOLATION_WEIGHT", 50)
	v.SetDefault("ENGINE_SOFT_VIOLATION_WEIGHT", 25)
	v.SetDefault("ENGINE_AFFECTED_ENTITY_WEIGHT", 25)
	v.SetDefault("ENGINE_CASCADE_WEIGHT", 25)
	v.SetDefault("ENGINE_CASCADE_UNIT_SCORE", 5)
	v.SetDefault("ENGINE_TIME_SENSITIVITY_WEIGHT", 10)
	v.SetDefault("ENGINE_AUTO_APPLY_MAX_IMPACT", 20)
	v.SetDefault("ENGINE_AUTO_APPLY_MIN_SUCCESS", 75)
	v.SetDefault("ENGINE_AUTO_APPLY_ENROLLMENT_CAP", 30)
	v.SetDefault("ENGINE_SUGGESTION_CONFIDENCE_FLOOR", 55)
	v.SetDefault("ENGINE_HISTORY_WINDOW", 100)
	v.SetDefault("ENGINE_DEFAULT_MAX_ROOM_DISTANCE", 10)

	v.SetDefault("MATRIX_HEATMAP_CACHE_TTL", "10m")
	v.SetDefault("MATRIX_SINGLETON_PRIORITY_LEVEL", 10)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
