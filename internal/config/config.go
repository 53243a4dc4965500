package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Провайдеры email уведомлений
const (
	EmailProviderEmailJS  = "emailjs"
	EmailProviderSendGrid = "sendgrid"
	EmailProviderNone     = "none"
)

var (
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config конфигурация сервиса
type Config struct {
	Server       ServerConfig       `toml:"server"`
	Database     DatabaseConfig     `toml:"database"`
	Logs         LogsConfig         `toml:"logs"`
	Metrics      MetricsConfig      `toml:"metrics"`
	Salon        SalonConfig        `toml:"salon"`
	RateLimit    RateLimitConfig    `toml:"rate_limit"`
	Notification NotificationConfig `toml:"notification"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN возвращает строку подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// URL возвращает строку подключения в формате postgres:// (для миграций)
func (d DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// SalonConfig параметры салона (один салон на инстанс)
type SalonConfig struct {
	ID         uuid.UUID `toml:"id"`
	Timezone   string    `toml:"timezone"`
	AdminToken string    `toml:"admin_token"`
}

// Location возвращает часовой пояс салона
func (s SalonConfig) Location() (*time.Location, error) {
	return time.LoadLocation(s.Timezone)
}

type RateLimitConfig struct {
	Enabled       bool   `toml:"enabled"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	Limit         int    `toml:"limit"`
	WindowSeconds int    `toml:"window_seconds"`

	// Адреса или CIDR прокси, которым разрешено передавать X-Forwarded-For
	TrustedProxies []string `toml:"trusted_proxies"`
}

type NotificationConfig struct {
	EmailProvider string `toml:"email_provider"`
	Timeout       int    `toml:"timeout"`

	EmailJSURL             string `toml:"emailjs_url"`
	EmailJSServiceID       string `toml:"emailjs_service_id"`
	EmailJSTemplateValid   string `toml:"emailjs_template_valid"`
	EmailJSTemplateNoEmail string `toml:"emailjs_template_no_email"`
	EmailJSPublicKey       string `toml:"emailjs_public_key"`
	EmailJSPrivateKey      string `toml:"emailjs_private_key"`

	SendGridAPIKey    string `toml:"sendgrid_api_key"`
	SendGridFromEmail string `toml:"sendgrid_from_email"`
	SendGridFromName  string `toml:"sendgrid_from_name"`
	SalonInboxEmail   string `toml:"salon_inbox_email"`

	SMSEnabled       bool   `toml:"sms_enabled"`
	TwilioAccountSID string `toml:"twilio_account_sid"`
	TwilioAuthToken  string `toml:"twilio_auth_token"`
	TwilioFromNumber string `toml:"twilio_from_number"`
}

// Load читает конфигурацию из TOML файла и накладывает секреты из окружения (.env, если есть)
func Load(path string) (*Config, error) {
	// .env необязателен
	_ = godotenv.Load()

	cfg := defaults()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs:    LogsConfig{Level: "info"},
		Metrics: MetricsConfig{Path: "/metrics", ServiceName: "salon-booking"},
		Salon:   SalonConfig{Timezone: "America/Chicago"},
		RateLimit: RateLimitConfig{
			Limit:         30,
			WindowSeconds: 60,
		},
		Notification: NotificationConfig{
			EmailProvider: EmailProviderNone,
			Timeout:       10,
			EmailJSURL:    "https://api.emailjs.com/api/v1.0/email/send",
		},
	}
}

func (c *Config) applyEnv() {
	overrides := map[string]*string{
		"DB_PASSWORD":         &c.Database.Password,
		"ADMIN_TOKEN":         &c.Salon.AdminToken,
		"SENDGRID_API_KEY":    &c.Notification.SendGridAPIKey,
		"TWILIO_ACCOUNT_SID":  &c.Notification.TwilioAccountSID,
		"TWILIO_AUTH_TOKEN":   &c.Notification.TwilioAuthToken,
		"EMAILJS_PRIVATE_KEY": &c.Notification.EmailJSPrivateKey,
		"REDIS_PASSWORD":      &c.RateLimit.RedisPassword,
	}
	for key, dst := range overrides {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	if c.Salon.ID == uuid.Nil {
		return fmt.Errorf("%w: salon.id is required", ErrInvalidConfig)
	}
	if _, err := c.Salon.Location(); err != nil {
		return fmt.Errorf("%w: salon.timezone %q: %v", ErrInvalidConfig, c.Salon.Timezone, err)
	}
	if c.Salon.AdminToken == "" {
		return fmt.Errorf("%w: salon.admin_token (or ADMIN_TOKEN) is required", ErrInvalidConfig)
	}

	switch c.Notification.EmailProvider {
	case EmailProviderEmailJS, EmailProviderSendGrid, EmailProviderNone:
	default:
		return fmt.Errorf("%w: unknown notification.email_provider %q", ErrInvalidConfig, c.Notification.EmailProvider)
	}

	if c.RateLimit.Enabled && (c.RateLimit.Limit <= 0 || c.RateLimit.WindowSeconds <= 0) {
		return fmt.Errorf("%w: rate_limit.limit and rate_limit.window_seconds must be positive", ErrInvalidConfig)
	}
	return nil
}
