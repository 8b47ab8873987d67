package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/vaidhya-health/appointment-service/internal/domain"
)

// Config конфигурация сервиса, загружается из config.toml
// Секреты (ключи Razorpay, сертификат Agora, ключ Fast2SMS) в файл не
// кладутся - они читаются из окружения и перекрывают значения из toml
type Config struct {
	Server        ServerConfig        `toml:"server"`
	Database      DatabaseConfig      `toml:"database"`
	Logs          LogsConfig          `toml:"logs"`
	Metrics       MetricsConfig       `toml:"metrics"`
	Razorpay      RazorpayConfig      `toml:"razorpay"`
	Agora         AgoraConfig         `toml:"agora"`
	Notifications NotificationsConfig `toml:"notifications"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
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

// DSN собирает строку подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// RazorpayConfig настройки платежного шлюза
type RazorpayConfig struct {
	BaseURL   string `toml:"base_url"`
	KeyID     string `toml:"key_id"`
	KeySecret string `toml:"key_secret"`
	Timeout   int    `toml:"timeout"`
}

// AgoraConfig настройки call-сессий
type AgoraConfig struct {
	AppID          string `toml:"app_id"`
	AppCertificate string `toml:"app_certificate"`
	TokenTTL       int    `toml:"token_ttl"`
}

// NotificationsConfig настройки SMS уведомлений (Fast2SMS)
type NotificationsConfig struct {
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`
	Timeout int    `toml:"timeout"`
}

// Load читает конфигурацию из toml файла и применяет env-переменные
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode %s: %w", path, err)
	}

	cfg.applyEnv()

	if cfg.Razorpay.KeySecret == "" {
		return nil, fmt.Errorf("config: razorpay key secret is not set (RAZORPAY_KEY_SECRET)")
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "appointment-service",
		},
		Razorpay: RazorpayConfig{
			BaseURL: "https://api.razorpay.com/v1",
			Timeout: 10,
		},
		Agora: AgoraConfig{
			TokenTTL: domain.CallTokenTTLSeconds,
		},
		Notifications: NotificationsConfig{
			BaseURL: "https://www.fast2sms.com/dev",
			Timeout: 5,
		},
	}
}

// applyEnv перекрывает секреты значениями из окружения
func (c *Config) applyEnv() {
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("RAZORPAY_KEY_ID"); v != "" {
		c.Razorpay.KeyID = v
	}
	if v := os.Getenv("RAZORPAY_KEY_SECRET"); v != "" {
		c.Razorpay.KeySecret = v
	}
	if v := os.Getenv("AGORA_APP_ID"); v != "" {
		c.Agora.AppID = v
	}
	if v := os.Getenv("AGORA_APP_CERTIFICATE"); v != "" {
		c.Agora.AppCertificate = v
	}
	if v := os.Getenv("FAST2SMS_API_KEY"); v != "" {
		c.Notifications.APIKey = v
	}
}
