package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port               string   `mapstructure:"PORT"`
	Env                string   `mapstructure:"ENV"`
	DatabaseURL        string   `mapstructure:"DATABASE_URL"`
	DBMaxConns         int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns         int32    `mapstructure:"DB_MIN_CONNS"`
	RedisURL           string   `mapstructure:"REDIS_URL"`
	JWTSecret          string   `mapstructure:"JWT_SECRET"`
	AccessCodeHash     string   `mapstructure:"ACCESS_CODE_HASH"`
	AccessCode         string   `mapstructure:"ACCESS_CODE"`
	TokenTTLMinutes    int      `mapstructure:"TOKEN_TTL_MINUTES"`
	CORSOrigins        []string `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS       float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst     int      `mapstructure:"RATE_LIMIT_BURST"`
	MarginTarget       float64  `mapstructure:"MARGIN_TARGET"`
	LowStockThreshold  int      `mapstructure:"LOW_STOCK_THRESHOLD"`
	ExpiryAlertDays    int      `mapstructure:"EXPIRY_ALERT_DAYS"`
	RequestTimeoutSecs int      `mapstructure:"REQUEST_TIMEOUT_SECS"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("TOKEN_TTL_MINUTES", 480)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)
	v.SetDefault("MARGIN_TARGET", 0.25)
	v.SetDefault("LOW_STOCK_THRESHOLD", 10)
	v.SetDefault("EXPIRY_ALERT_DAYS", 28)
	v.SetDefault("REQUEST_TIMEOUT_SECS", 30)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("REDIS_URL")
	v.BindEnv("JWT_SECRET")
	v.BindEnv("ACCESS_CODE_HASH")
	v.BindEnv("ACCESS_CODE")
	v.BindEnv("TOKEN_TTL_MINUTES")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")
	v.BindEnv("MARGIN_TARGET")
	v.BindEnv("LOW_STOCK_THRESHOLD")
	v.BindEnv("EXPIRY_ALERT_DAYS")
	v.BindEnv("REQUEST_TIMEOUT_SECS")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.IsDev() {
		log.Println("WARNING: ============================================================")
		log.Println("WARNING: Server is running in DEVELOPMENT mode (ENV=development).")
		log.Println("WARNING: A static JWT secret and plain-text ACCESS_CODE are accepted.")
		log.Println("WARNING: Do NOT use this configuration in production.")
		log.Println("WARNING: Set ENV=production, JWT_SECRET and ACCESS_CODE_HASH.")
		log.Println("WARNING: ============================================================")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. In production a real
// JWT secret and a bcrypt hash of the reception access code are required; in
// development a built-in secret and a plain ACCESS_CODE are tolerated.
func (c *Config) Validate() error {
	if c.IsProduction() {
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		if len(c.JWTSecret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 characters, got %d", len(c.JWTSecret))
		}
		if c.AccessCodeHash == "" {
			return fmt.Errorf("ACCESS_CODE_HASH is required in production; generate one with: clinic-server hash-code")
		}
		if c.AccessCode != "" {
			return fmt.Errorf("ACCESS_CODE (plain text) must not be set in production; use ACCESS_CODE_HASH")
		}
	}

	if c.MarginTarget < 0 || c.MarginTarget >= 1 {
		return fmt.Errorf("MARGIN_TARGET must be in [0, 1), got %v", c.MarginTarget)
	}
	if c.TokenTTLMinutes <= 0 {
		return fmt.Errorf("TOKEN_TTL_MINUTES must be positive, got %d", c.TokenTTLMinutes)
	}
	if c.ExpiryAlertDays <= 0 {
		return fmt.Errorf("EXPIRY_ALERT_DAYS must be positive, got %d", c.ExpiryAlertDays)
	}

	return nil
}
