package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Env               string        `mapstructure:"ENV"`
	Port              string        `mapstructure:"PORT"`
	DBDriver          string        `mapstructure:"DB_DRIVER"`
	DatabaseURL       string        `mapstructure:"DATABASE_URL"`
	SQLitePath        string        `mapstructure:"SQLITE_PATH"`
	AdminKey          string        `mapstructure:"ADMIN_KEY"`
	AIProvider        string        `mapstructure:"AI_PROVIDER"`
	AIURL             string        `mapstructure:"AI_URL"`
	AIModel           string        `mapstructure:"AI_MODEL"`
	AIAPIKey          string        `mapstructure:"AI_API_KEY"`
	CORSAllowed       string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	RequestTimeout    time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	LogLevel          string        `mapstructure:"LOG_LEVEL"`
	MaxUploadSizeMB   int64         `mapstructure:"MAX_UPLOAD_MB"`
	UploadDir         string        `mapstructure:"UPLOAD_DIR"`
	RedisURL          string        `mapstructure:"REDIS_URL"`
	VoteGuardTTL      time.Duration `mapstructure:"VOTE_GUARD_TTL"`
	SeedFile          string        `mapstructure:"SEED_FILE"`
	StrictTransitions bool          `mapstructure:"STRICT_TRANSITIONS"`
	GeocoderURL       string        `mapstructure:"GEOCODER_URL"`
	GeocodeEnabled    bool          `mapstructure:"GEOCODE_ENABLED"`
}

func Load() (Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", "dev")
	v.SetDefault("PORT", "5000")
	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("SQLITE_PATH", "civic.db")
	v.SetDefault("ADMIN_KEY", "")
	v.SetDefault("AI_PROVIDER", "")
	v.SetDefault("AI_URL", "")
	v.SetDefault("AI_MODEL", "")
	v.SetDefault("AI_API_KEY", "")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("MAX_UPLOAD_MB", 10)
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("VOTE_GUARD_TTL", "720h")
	v.SetDefault("SEED_FILE", "seed/seed.yaml")
	v.SetDefault("STRICT_TRANSITIONS", false)
	v.SetDefault("GEOCODER_URL", "")
	v.SetDefault("GEOCODE_ENABLED", false)
}
