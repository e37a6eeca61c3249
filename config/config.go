package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Amber-bisht/watch-me/models"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Env  string
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	JWTSecret     string
	SessionSecret string

	LogLevel  string
	LogFormat string

	CORSOrigins []string

	Razorpay   RazorpayConfig
	Shiprocket ShiprocketConfig
	Redis      RedisConfig
	SMTP       SMTPConfig

	AdminEmail    string
	AdminPassword string
}

// RazorpayConfig holds payment gateway credentials
type RazorpayConfig struct {
	KeyID         string
	KeySecret     string
	WebhookSecret string
}

// WebhookSigningSecret returns the secret used for webhook signatures, falling back to the key secret.
func (r RazorpayConfig) WebhookSigningSecret() string {
	if r.WebhookSecret != "" {
		return r.WebhookSecret
	}
	return r.KeySecret
}

// ShiprocketConfig holds shipping aggregator settings
type ShiprocketConfig struct {
	BaseURL        string
	Email          string
	Password       string
	WebhookToken   string
	PickupLocation string
	RateLimit      float64
	Timeout        time.Duration
	Pickup         models.PickupAddress
}

// RedisConfig holds Redis connection settings. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// SMTPConfig holds outgoing mail settings. An empty Host disables mail.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "watchme")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("SHIPROCKET_BASE_URL", "https://apiv2.shiprocket.in/v1/external")
	v.SetDefault("SHIPROCKET_RATE_LIMIT", 5.0)
	v.SetDefault("SHIPROCKET_TIMEOUT", "30s")
	v.SetDefault("SHIPROCKET_PICKUP_COUNTRY", "India")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SMTP_PORT", 587)
}

// LoadConfig loads configuration from the environment, reading a .env file when one exists
func LoadConfig() (*Config, error) {
	// .env is optional; real deployments inject the environment directly
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	pickup := models.PickupAddress{
		Email:   strings.TrimSpace(v.GetString("SHIPROCKET_PICKUP_EMAIL")),
		Phone:   strings.TrimSpace(v.GetString("SHIPROCKET_PICKUP_PHONE")),
		Street:  strings.TrimSpace(v.GetString("SHIPROCKET_PICKUP_STREET")),
		City:    strings.TrimSpace(v.GetString("SHIPROCKET_PICKUP_CITY")),
		State:   strings.TrimSpace(v.GetString("SHIPROCKET_PICKUP_STATE")),
		Pincode: strings.TrimSpace(v.GetString("SHIPROCKET_PICKUP_PINCODE")),
		Country: strings.TrimSpace(v.GetString("SHIPROCKET_PICKUP_COUNTRY")),
	}
	pickup.Name = strings.TrimSpace(v.GetString("SHIPROCKET_PICKUP_NAME"))
	if pickup.Name == "" {
		pickup.Name = pickup.Email
	}
	if pickup.Name == "" {
		pickup.Name = "Store"
	}

	location := strings.TrimSpace(v.GetString("SHIPROCKET_PICKUP_LOCATION"))
	if location == "" {
		location = pickup.Pincode
	}

	config := &Config{
		Env:           v.GetString("APP_ENV"),
		Port:          v.GetString("PORT"),
		DBHost:        v.GetString("DB_HOST"),
		DBPort:        v.GetString("DB_PORT"),
		DBUser:        v.GetString("DB_USER"),
		DBPassword:    v.GetString("DB_PASSWORD"),
		DBName:        v.GetString("DB_NAME"),
		DBSSLMode:     v.GetString("DB_SSLMODE"),
		JWTSecret:     v.GetString("JWT_SECRET"),
		SessionSecret: v.GetString("SESSION_SECRET"),
		LogLevel:      v.GetString("LOG_LEVEL"),
		LogFormat:     v.GetString("LOG_FORMAT"),
		CORSOrigins:   splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		Razorpay: RazorpayConfig{
			KeyID:         v.GetString("RAZORPAY_KEY_ID"),
			KeySecret:     v.GetString("RAZORPAY_KEY_SECRET"),
			WebhookSecret: v.GetString("RAZORPAY_WEBHOOK_SECRET"),
		},
		Shiprocket: ShiprocketConfig{
			BaseURL:        strings.TrimRight(v.GetString("SHIPROCKET_BASE_URL"), "/"),
			Email:          strings.TrimSpace(v.GetString("SHIPROCKET_EMAIL")),
			Password:       strings.TrimSpace(v.GetString("SHIPROCKET_PASSWORD")),
			WebhookToken:   v.GetString("SHIPROCKET_WEBHOOK_TOKEN"),
			PickupLocation: location,
			RateLimit:      v.GetFloat64("SHIPROCKET_RATE_LIMIT"),
			Timeout:        v.GetDuration("SHIPROCKET_TIMEOUT"),
			Pickup:         pickup,
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		SMTP: SMTPConfig{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			Username: v.GetString("SMTP_USERNAME"),
			Password: v.GetString("SMTP_PASSWORD"),
			From:     v.GetString("SMTP_FROM"),
		},
		AdminEmail:    v.GetString("ADMIN_EMAIL"),
		AdminPassword: v.GetString("ADMIN_PASSWORD"),
	}

	if config.SessionSecret == "" {
		config.SessionSecret = config.JWTSecret
	}

	return config, nil
}

// Validate reports every missing required setting
func (c *Config) Validate() error {
	var missing []string
	if c.DBHost == "" {
		missing = append(missing, "DB_HOST")
	}
	if c.DBName == "" {
		missing = append(missing, "DB_NAME")
	}
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.Razorpay.KeyID == "" {
		missing = append(missing, "RAZORPAY_KEY_ID")
	}
	if c.Razorpay.KeySecret == "" {
		missing = append(missing, "RAZORPAY_KEY_SECRET")
	}
	if len(missing) > 0 {
		return errors.New("missing required configuration: " + strings.Join(missing, ", "))
	}
	return nil
}

// DSN builds the postgres connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// IsProduction reports whether the app runs in production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// PickupConfigured reports whether a pickup address usable for shipments is configured
func (s ShiprocketConfig) PickupConfigured() bool {
	return s.Pickup.Pincode != ""
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
