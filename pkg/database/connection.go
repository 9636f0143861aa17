package database

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"bizbooks/config"
	"bizbooks/internal/logger"
	"bizbooks/internal/models"
)

var DB *gorm.DB

// Connect opens the configured database, applies pooling and stores the handle in DB.
func Connect(cfg config.DatabaseConfig) (*gorm.DB, error) {
	log := logger.WithComponent("database")

	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         NewGormLogger(logger.WithComponent("gorm"), 200*time.Millisecond),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	log.Info().Str("driver", cfg.Driver).Str("host", cfg.Host).Str("name", cfg.Name).
		Msg("Database connection established")
	DB = db
	return db, nil
}

// Migrate creates or updates the tables of every model.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// Dialector picks the gorm driver for cfg.Driver.
func Dialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "mysql":
		return mysql.Open(MySQLDSN(cfg)), nil
	case "postgres":
		return postgres.Open(PostgresDSN(cfg)), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

const mysqlParams = "?charset=utf8mb4&parseTime=True&loc=Local"

// MySQLDSN builds a go-sql-driver DSN. DATABASE_URL wins over the individual fields;
// mysql:// and mariadb:// URLs are rewritten to the driver's user:pass@tcp(host)/db form.
func MySQLDSN(cfg config.DatabaseConfig) string {
	if cfg.URL == "" {
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s%s",
			cfg.User, cfg.Password, cfg.Host, orDefault(cfg.Port, "3306"), cfg.Name, mysqlParams)
	}

	raw := cfg.URL
	switch {
	case strings.HasPrefix(raw, "mysql://"):
		raw = strings.TrimPrefix(raw, "mysql://")
	case strings.HasPrefix(raw, "mariadb://"):
		raw = strings.TrimPrefix(raw, "mariadb://")
	default:
		return raw
	}

	creds, rest, ok := strings.Cut(raw, "@")
	if !ok {
		return cfg.URL
	}
	hostPort, dbName, ok := strings.Cut(rest, "/")
	if !ok {
		return cfg.URL
	}
	params := mysqlParams
	if name, query, found := strings.Cut(dbName, "?"); found {
		dbName, params = name, "?"+query
	}
	return fmt.Sprintf("%s@tcp(%s)/%s%s", creds, hostPort, dbName, params)
}

// PostgresDSN builds a pgx connection string. postgres:// URLs are passed through.
func PostgresDSN(cfg config.DatabaseConfig) string {
	if cfg.URL != "" {
		return cfg.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     cfg.Host + ":" + orDefault(cfg.Port, "5432"),
		Path:     "/" + cfg.Name,
		RawQuery: url.Values{"sslmode": {orDefault(cfg.SSLMode, "disable")}}.Encode(),
	}
	return u.String()
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
