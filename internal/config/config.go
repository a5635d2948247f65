package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Env     string `mapstructure:"app_env"`
	Port    string `mapstructure:"port"`
	Release string `mapstructure:"release"`

	Database struct {
		Driver string `mapstructure:"driver"`
		URL    string `mapstructure:"url"`
	} `mapstructure:"database"`

	JWT struct {
		Secret string        `mapstructure:"secret"`
		TTL    time.Duration `mapstructure:"ttl"`
	} `mapstructure:"jwt"`

	Cookie struct {
		Domain string `mapstructure:"domain"`
		Secure bool   `mapstructure:"secure"`
	} `mapstructure:"cookie"`

	Frontend struct {
		Origin              string `mapstructure:"origin"`
		GoogleCallbackURL   string `mapstructure:"google_callback_url"`
		ExtraAllowedOrigins string `mapstructure:"allowed_origins"`
	} `mapstructure:"frontend"`

	Google struct {
		ClientID     string `mapstructure:"client_id"`
		ClientSecret string `mapstructure:"client_secret"`
		CallbackURL  string `mapstructure:"callback_url"`
	} `mapstructure:"google"`

	Redis struct {
		URL string `mapstructure:"url"`
	} `mapstructure:"redis"`

	RateLimit struct {
		LoginAttempts int           `mapstructure:"login_attempts"`
		LoginWindow   time.Duration `mapstructure:"login_window"`
	} `mapstructure:"rate_limit"`

	Sentry struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"sentry"`

	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
}

// GoogleEnabled reports whether Google login has credentials.
func (c Config) GoogleEnabled() bool {
	return c.Google.ClientID != "" && c.Google.ClientSecret != ""
}

// Load reads .env (if present), then the environment. Environment variables
// win over .env values.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("app_env", "development")
	v.SetDefault("port", "8000")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("jwt.ttl", "168h")
	v.SetDefault("cookie.secure", true)
	v.SetDefault("frontend.origin", "http://localhost:5173")
	v.SetDefault("rate_limit.login_attempts", 10)
	v.SetDefault("rate_limit.login_window", "15m")
	v.SetDefault("log.level", "info")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindings := map[string]string{
		"app_env":                      "APP_ENV",
		"port":                         "PORT",
		"release":                      "RELEASE",
		"database.driver":              "DATABASE_DRIVER",
		"database.url":                 "DATABASE_URL",
		"jwt.secret":                   "JWT_SECRET",
		"jwt.ttl":                      "JWT_TTL",
		"cookie.domain":                "COOKIE_DOMAIN",
		"cookie.secure":                "COOKIE_SECURE",
		"frontend.origin":              "FRONTEND_ORIGIN",
		"frontend.google_callback_url": "FRONTEND_GOOGLE_CALLBACK_URL",
		"frontend.allowed_origins":     "ALLOWED_ORIGINS",
		"google.client_id":             "GOOGLE_CLIENT_ID",
		"google.client_secret":         "GOOGLE_CLIENT_SECRET",
		"google.callback_url":          "GOOGLE_CALLBACK_URL",
		"redis.url":                    "REDIS_URL",
		"rate_limit.login_attempts":    "LOGIN_RATE_LIMIT",
		"rate_limit.login_window":      "LOGIN_RATE_WINDOW",
		"sentry.dsn":                   "SENTRY_DSN",
		"log.level":                    "LOG_LEVEL",
	}

	for key, env := range bindings {
		_ = v.BindEnv(key, env)
	}

	var c Config

	if err := v.Unmarshal(&c); err != nil {
		return Config{}, err
	}

	if err := c.validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

func (c Config) validate() error {
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET environment variable is not set")
	}

	if c.Database.URL == "" {
		return errors.New("DATABASE_URL environment variable is not set")
	}

	if c.JWT.TTL <= 0 {
		return errors.New("JWT_TTL must be a positive duration")
	}

	return nil
}
