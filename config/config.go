package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"bizbooks/internal/logger"
	"bizbooks/internal/models"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Store    StoreConfig
	WhatsApp WhatsAppConfig
	Log      logger.LogConfig
	Site     models.Company
}

type ServerConfig struct {
	Port           string
	Env            string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Driver       string // mysql or postgres
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	URL          string
	MaxIdleConns int
	MaxOpenConns int
}

type StoreConfig struct {
	Timeout time.Duration
}

type WhatsAppConfig struct {
	APIURL      string
	APIToken    string
	Template    string
	CountryCode string
	Timeout     time.Duration
	AutoNotify  bool
}

// Enabled reports whether enough is configured to send messages.
func (w WhatsAppConfig) Enabled() bool {
	return w.APIURL != "" && w.APIToken != ""
}

var AppConfig *Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_ENV", "development")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("STORE_TIMEOUT_SECONDS", 5)
	v.SetDefault("WHATSAPP_TEMPLATE", "invoice_notification")
	v.SetDefault("WHATSAPP_COUNTRY_CODE", "91")
	v.SetDefault("WHATSAPP_TIMEOUT_SECONDS", 10)
	v.SetDefault("WHATSAPP_AUTO_NOTIFY", false)

	defaults := logger.DefaultConfig()
	v.SetDefault("LOG_LEVEL", defaults.Level)
	v.SetDefault("LOG_FORMAT", defaults.Format)
	v.SetDefault("LOG_TIME_FORMAT", defaults.TimeFormat)
	v.SetDefault("LOG_OUTPUT", defaults.Output)
}

// LoadConfig reads envFile (type env), the environment and siteFile (TOML, [site] table).
// Missing files are not an error. The result is also stored in AppConfig.
func LoadConfig(envFile, siteFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		log.Debug().Err(err).Str("file", envFile).Msg(".env file not found, using environment variables")
	}

	v.AutomaticEnv()
	_ = v.BindEnv("SERVER_PORT", "SERVER_PORT", "PORT")
	_ = v.BindEnv("DATABASE_URL")

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Env:            v.GetString("SERVER_ENV"),
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Database: DatabaseConfig{
			Driver:       strings.ToLower(v.GetString("DB_DRIVER")),
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetString("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			Name:         v.GetString("DB_NAME"),
			SSLMode:      v.GetString("DB_SSLMODE"),
			URL:          v.GetString("DATABASE_URL"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		},
		Store: StoreConfig{
			Timeout: time.Duration(v.GetInt("STORE_TIMEOUT_SECONDS")) * time.Second,
		},
		WhatsApp: WhatsAppConfig{
			APIURL:      v.GetString("WHATSAPP_API_URL"),
			APIToken:    v.GetString("WHATSAPP_API_TOKEN"),
			Template:    v.GetString("WHATSAPP_TEMPLATE"),
			CountryCode: v.GetString("WHATSAPP_COUNTRY_CODE"),
			Timeout:     time.Duration(v.GetInt("WHATSAPP_TIMEOUT_SECONDS")) * time.Second,
			AutoNotify:  v.GetBool("WHATSAPP_AUTO_NOTIFY"),
		},
		Log: logger.LogConfig{
			Level:      v.GetString("LOG_LEVEL"),
			Format:     v.GetString("LOG_FORMAT"),
			TimeFormat: v.GetString("LOG_TIME_FORMAT"),
			Output:     v.GetString("LOG_OUTPUT"),
		},
	}

	siteViper := viper.New()
	siteViper.SetConfigFile(siteFile)
	siteViper.SetConfigType("toml")
	if err := siteViper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Str("file", siteFile).Msg("Site config not found, using empty company profile")
	} else if err := siteViper.UnmarshalKey("site", &cfg.Site); err != nil {
		return nil, fmt.Errorf("unmarshal [site] from %s: %w", siteFile, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	AppConfig = cfg
	return cfg, nil
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want mysql or postgres)", c.Database.Driver)
	}
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT must not be empty")
	}
	if c.Store.Timeout <= 0 {
		return fmt.Errorf("STORE_TIMEOUT_SECONDS must be positive")
	}
	return nil
}

// LogSummary writes the loaded configuration without secrets.
func (c *Config) LogSummary() {
	set := func(s string) string {
		if s != "" {
			return "SET"
		}
		return "NOT SET"
	}
	log.Info().
		Str("port", c.Server.Port).
		Str("env", c.Server.Env).
		Str("db_driver", c.Database.Driver).
		Str("db_host", c.Database.Host).
		Str("db_name", c.Database.Name).
		Str("database_url", set(c.Database.URL)).
		Str("whatsapp_token", set(c.WhatsApp.APIToken)).
		Str("company", c.Site.Name).
		Msg("Configuration loaded")
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
