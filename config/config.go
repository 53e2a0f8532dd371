package config

import (
	"fmt"
	"strings"
	"time"

	"VitalsHub/util"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config is built once at startup and handed to every constructor that needs
// a connection string or a credential.
type Config struct {
	Port              string        `mapstructure:"PORT"`
	Env               string        `mapstructure:"ENV"`
	LogLevel          string        `mapstructure:"LOG_LEVEL"`
	MongoURI          string        `mapstructure:"MONGO_URI"`
	MongoDatabase     string        `mapstructure:"MONGO_DATABASE"`
	PatientCollection string        `mapstructure:"PATIENT_COLLECTION"`
	RedisAddr         string        `mapstructure:"REDIS_ADDR"`
	RedisPassword     string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB           int           `mapstructure:"REDIS_DB"`
	VitalsKey         string        `mapstructure:"VITALS_KEY"`
	SMTPHost          string        `mapstructure:"SMTP_HOST"`
	SMTPPort          int           `mapstructure:"SMTP_PORT"`
	EmailUser         string        `mapstructure:"EMAIL_USER"`
	EmailPass         string        `mapstructure:"EMAIL_PASS"`
	CORSOrigins       []string      `mapstructure:"CORS_ORIGINS"`
	ReconcileSchedule string        `mapstructure:"RECONCILE_SCHEDULE"`
	MigrationsEnabled bool          `mapstructure:"MIGRATIONS_ENABLED"`
	ShutdownTimeout   time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
}

var keys = []string{
	"PORT", "ENV", "LOG_LEVEL",
	"MONGO_URI", "MONGO_DATABASE", "PATIENT_COLLECTION",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "VITALS_KEY",
	"SMTP_HOST", "SMTP_PORT", "EMAIL_USER", "EMAIL_PASS",
	"CORS_ORIGINS", "RECONCILE_SCHEDULE", "MIGRATIONS_ENABLED", "SHUTDOWN_TIMEOUT",
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file loaded, using process environment")
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "3000")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "vitalshub")
	v.SetDefault("PATIENT_COLLECTION", util.PatientCollection)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("VITALS_KEY", util.VitalsKey)
	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("MIGRATIONS_ENABLED", false)
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.CORSOrigins = splitList(strings.Join(cfg.CORSOrigins, ","))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

func (c *Config) Validate() error {
	switch {
	case c.MongoURI == "":
		return fmt.Errorf("MONGO_URI is required")
	case c.MongoDatabase == "":
		return fmt.Errorf("MONGO_DATABASE is required")
	case c.PatientCollection == "":
		return fmt.Errorf("PATIENT_COLLECTION is required")
	case c.RedisAddr == "":
		return fmt.Errorf("REDIS_ADDR is required")
	case c.VitalsKey == "":
		return fmt.Errorf("VITALS_KEY is required")
	case c.SMTPPort <= 0:
		return fmt.Errorf("SMTP_PORT must be positive, got %d", c.SMTPPort)
	case len(c.CORSOrigins) == 0:
		return fmt.Errorf("CORS_ORIGINS must list at least one origin")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
