package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	JWT     JWTConfig
	Storage StorageConfig
	S3      S3Config
	Log     LogConfig
	CORS    CORSConfig
	Email   EmailConfig
	Redis   RedisConfig
	Company CompanyConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port          string        `mapstructure:"port"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
	Environment   string        `mapstructure:"environment"`
	PublicBaseURL string        `mapstructure:"public_base_url"`
}

// DBConfig holds database connection settings. Driver is "pgx" or "sqlite3".
type DBConfig struct {
	Driver     string `mapstructure:"driver"`
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	User       string `mapstructure:"user"`
	Password   string `mapstructure:"password"`
	Name       string `mapstructure:"name"`
	SSLMode    string `mapstructure:"sslmode"`
	SQLitePath string `mapstructure:"sqlite_path"`
	MaxOpen    int    `mapstructure:"max_open"`
	MaxIdle    int    `mapstructure:"max_idle"`
}

// IsSQLite reports whether the embedded SQLite driver is configured.
func (d *DBConfig) IsSQLite() bool {
	return d.Driver == "sqlite3"
}

// DSN returns the driver specific connection string.
func (d *DBConfig) DSN() string {
	if d.IsSQLite() {
		return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", d.SQLitePath)
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(d.User), url.QueryEscape(d.Password), d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// MigrateURL returns the golang-migrate database URL.
func (d *DBConfig) MigrateURL() string {
	if d.IsSQLite() {
		return "sqlite3://" + d.SQLitePath
	}
	return d.DSN()
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// StorageConfig selects where PO attachments and generated PDFs are kept.
type StorageConfig struct {
	Provider      string `mapstructure:"provider"`
	MediaRoot     string `mapstructure:"media_root"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

// RedisConfig holds the capability cache settings. An empty Addr disables it.
type RedisConfig struct {
	Addr          string        `mapstructure:"addr"`
	Password      string        `mapstructure:"password"`
	DB            int           `mapstructure:"db"`
	CapabilityTTL time.Duration `mapstructure:"capability_ttl"`
}

// CompanyConfig is the issuing business printed on quotations and invoices.
type CompanyConfig struct {
	Name        string `mapstructure:"name"`
	Address     string `mapstructure:"address"`
	GSTIN       string `mapstructure:"gstin"`
	Phone       string `mapstructure:"phone"`
	Email       string `mapstructure:"email"`
	BankDetails string `mapstructure:"bank_details"`
	UPIID       string `mapstructure:"upi_id"`
}

// Load reads configuration from environment variables with the QUOTECRM_
// prefix. A .env file in the working directory is applied first if present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("QUOTECRM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.public_base_url", "http://localhost:8080")

	// DB defaults
	v.SetDefault("db.driver", "pgx")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "quotecrm")
	v.SetDefault("db.password", "quotecrm_secret")
	v.SetDefault("db.name", "quotecrm_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.sqlite_path", "quotecrm.db")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "quotecrm")

	// Storage defaults
	v.SetDefault("storage.provider", "local")
	v.SetDefault("storage.media_root", "media")
	v.SetDefault("storage.max_file_size_mb", 10)

	// S3 defaults
	v.SetDefault("s3.region", "ap-south-1")
	v.SetDefault("s3.bucket", "quotecrm-documents")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "ap-south-1")
	v.SetDefault("email.from_address", "accounts@example.com")
	v.SetDefault("email.from_name", "Accounts")

	// Redis defaults (disabled)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.capability_ttl", "10m")

	// Company defaults
	v.SetDefault("company.name", "Your Company")
	v.SetDefault("company.address", "")
	v.SetDefault("company.gstin", "")
	v.SetDefault("company.phone", "")
	v.SetDefault("company.email", "")
	v.SetDefault("company.bank_details", "")
	v.SetDefault("company.upi_id", "")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":              "QUOTECRM_SERVER_PORT",
		"server.read_timeout":      "QUOTECRM_SERVER_READ_TIMEOUT",
		"server.write_timeout":     "QUOTECRM_SERVER_WRITE_TIMEOUT",
		"server.environment":       "QUOTECRM_SERVER_ENVIRONMENT",
		"server.public_base_url":   "QUOTECRM_SERVER_PUBLIC_BASE_URL",
		"db.driver":                "QUOTECRM_DB_DRIVER",
		"db.host":                  "QUOTECRM_DB_HOST",
		"db.port":                  "QUOTECRM_DB_PORT",
		"db.user":                  "QUOTECRM_DB_USER",
		"db.password":              "QUOTECRM_DB_PASSWORD",
		"db.name":                  "QUOTECRM_DB_NAME",
		"db.sslmode":               "QUOTECRM_DB_SSLMODE",
		"db.sqlite_path":           "QUOTECRM_DB_SQLITE_PATH",
		"db.max_open":              "QUOTECRM_DB_MAX_OPEN",
		"db.max_idle":              "QUOTECRM_DB_MAX_IDLE",
		"jwt.secret":               "QUOTECRM_JWT_SECRET",
		"jwt.access_expiry":        "QUOTECRM_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":       "QUOTECRM_JWT_REFRESH_EXPIRY",
		"jwt.issuer":               "QUOTECRM_JWT_ISSUER",
		"storage.provider":         "QUOTECRM_STORAGE_PROVIDER",
		"storage.media_root":       "QUOTECRM_STORAGE_MEDIA_ROOT",
		"storage.max_file_size_mb": "QUOTECRM_STORAGE_MAX_FILE_SIZE_MB",
		"s3.region":                "QUOTECRM_S3_REGION",
		"s3.bucket":                "QUOTECRM_S3_BUCKET",
		"s3.endpoint":              "QUOTECRM_S3_ENDPOINT",
		"s3.access_key":            "QUOTECRM_S3_ACCESS_KEY",
		"s3.secret_key":            "QUOTECRM_S3_SECRET_KEY",
		"s3.presign_expiry":        "QUOTECRM_S3_PRESIGN_EXPIRY",
		"log.level":                "QUOTECRM_LOG_LEVEL",
		"log.format":               "QUOTECRM_LOG_FORMAT",
		"cors.allowed_origins":     "QUOTECRM_CORS_ALLOWED_ORIGINS",
		"email.provider":           "QUOTECRM_EMAIL_PROVIDER",
		"email.region":             "QUOTECRM_EMAIL_REGION",
		"email.from_address":       "QUOTECRM_EMAIL_FROM_ADDRESS",
		"email.from_name":          "QUOTECRM_EMAIL_FROM_NAME",
		"redis.addr":               "QUOTECRM_REDIS_ADDR",
		"redis.password":           "QUOTECRM_REDIS_PASSWORD",
		"redis.db":                 "QUOTECRM_REDIS_DB",
		"redis.capability_ttl":     "QUOTECRM_REDIS_CAPABILITY_TTL",
		"company.name":             "QUOTECRM_COMPANY_NAME",
		"company.address":          "QUOTECRM_COMPANY_ADDRESS",
		"company.gstin":            "QUOTECRM_COMPANY_GSTIN",
		"company.phone":            "QUOTECRM_COMPANY_PHONE",
		"company.email":            "QUOTECRM_COMPANY_EMAIL",
		"company.bank_details":     "QUOTECRM_COMPANY_BANK_DETAILS",
		"company.upi_id":           "QUOTECRM_COMPANY_UPI_ID",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if QUOTECRM_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("QUOTECRM_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:          serverPort,
		ReadTimeout:   v.GetDuration("server.read_timeout"),
		WriteTimeout:  v.GetDuration("server.write_timeout"),
		Environment:   v.GetString("server.environment"),
		PublicBaseURL: strings.TrimRight(v.GetString("server.public_base_url"), "/"),
	}
	cfg.DB = DBConfig{
		Driver:     v.GetString("db.driver"),
		Host:       v.GetString("db.host"),
		Port:       v.GetInt("db.port"),
		User:       v.GetString("db.user"),
		Password:   v.GetString("db.password"),
		Name:       v.GetString("db.name"),
		SSLMode:    v.GetString("db.sslmode"),
		SQLitePath: v.GetString("db.sqlite_path"),
		MaxOpen:    v.GetInt("db.max_open"),
		MaxIdle:    v.GetInt("db.max_idle"),
	}
	if cfg.DB.Driver != "pgx" && cfg.DB.Driver != "sqlite3" {
		return nil, fmt.Errorf("unsupported db.driver %q: must be pgx or sqlite3", cfg.DB.Driver)
	}
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.Storage = StorageConfig{
		Provider:      v.GetString("storage.provider"),
		MediaRoot:     v.GetString("storage.media_root"),
		MaxFileSizeMB: v.GetInt64("storage.max_file_size_mb"),
	}
	if cfg.Storage.Provider != "local" && cfg.Storage.Provider != "s3" {
		return nil, fmt.Errorf("unsupported storage.provider %q: must be local or s3", cfg.Storage.Provider)
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
	}
	cfg.Redis = RedisConfig{
		Addr:          v.GetString("redis.addr"),
		Password:      v.GetString("redis.password"),
		DB:            v.GetInt("redis.db"),
		CapabilityTTL: v.GetDuration("redis.capability_ttl"),
	}
	cfg.Company = CompanyConfig{
		Name:        v.GetString("company.name"),
		Address:     v.GetString("company.address"),
		GSTIN:       strings.ToUpper(strings.TrimSpace(v.GetString("company.gstin"))),
		Phone:       v.GetString("company.phone"),
		Email:       v.GetString("company.email"),
		BankDetails: v.GetString("company.bank_details"),
		UPIID:       v.GetString("company.upi_id"),
	}

	return cfg, nil
}

// splitList parses a comma-separated setting, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
