package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type AppConfig struct {
	API         *APIConfig         `mapstructure:"api"`
	Gin         *GinConfig         `mapstructure:"gin"`
	Database    *DatabaseConfig    `mapstructure:"database"`
	Postgres    *PostgresConfig    `mapstructure:"postgres"`
	Redis       *RedisConfig       `mapstructure:"redis"`
	Mail        *MailConfig        `mapstructure:"mail"`
	Reservation *ReservationConfig `mapstructure:"reservation"`
	Scheduler   *SchedulerConfig   `mapstructure:"scheduler"`
	Company     *CompanyConfig     `mapstructure:"company"`
}

type APIConfig struct {
	Environment        string   `mapstructure:"environment"`
	Port               string   `mapstructure:"port"`
	BaseURL            string   `mapstructure:"base_url"`
	JWTSigningKey      string   `mapstructure:"jwt_signing_key"`
	SessionSecret      string   `mapstructure:"session_secret"`
	AllowedCORSDomains []string `mapstructure:"allowed_cors_domains"`
	UploadDir          string   `mapstructure:"upload_dir"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Driver     string `mapstructure:"driver"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN builds the key/value connection string understood by pgx.
func (c *PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DB, c.SSLMode)
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// Enabled reports whether a redis address was configured.
func (c *RedisConfig) Enabled() bool {
	return c != nil && c.Addr != ""
}

type MailConfig struct {
	SendGridAPIKey string `mapstructure:"sendgrid_api_key"`
	FromEmail      string `mapstructure:"from_email"`
	FromName       string `mapstructure:"from_name"`
}

type ReservationConfig struct {
	// DelayRule is "legacy" or "overdue".
	DelayRule string `mapstructure:"delay_rule"`
}

type SchedulerConfig struct {
	ReportSpec string `mapstructure:"report_spec"`
}

type CompanyConfig struct {
	Name      string  `mapstructure:"name"      json:"name"`
	Address   string  `mapstructure:"address"   json:"address"`
	Email     string  `mapstructure:"email"     json:"email"`
	Telephone string  `mapstructure:"telephone" json:"telephone"`
	Latitude  float64 `mapstructure:"latitude"  json:"latitude"`
	Longitude float64 `mapstructure:"longitude" json:"longitude"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.environment", "development")
	v.SetDefault("api.port", "8080")
	v.SetDefault("api.base_url", "localhost:8080")
	v.SetDefault("api.upload_dir", "./www/img")
	v.SetDefault("gin.mode", "debug")
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.sqlite_path", "bikerent.db")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("redis.ttl", 15*time.Minute)
	v.SetDefault("reservation.delay_rule", "legacy")
	v.SetDefault("scheduler.report_spec", "@every 15m")
}

// Load reads the YAML file at path, lets environment variables override it
// (API_PORT overrides api.port) and keeps watching the file for edits.
func Load(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	conf := &AppConfig{}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("v.Unmarshal -> %w", err)
	}

	if err := conf.validate(); err != nil {
		return nil, err
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		// Only logged: running components keep the values they were built with.
		zap.L().Info("config file changed, restart to apply", zap.String("file", e.Name), zap.String("op", e.Op.String()))
	})
	v.WatchConfig()

	return conf, nil
}

func (c *AppConfig) validate() error {
	if c.API == nil || c.Gin == nil || c.Database == nil || c.Reservation == nil || c.Scheduler == nil {
		return fmt.Errorf("config is missing a required section")
	}
	if c.Postgres == nil {
		c.Postgres = &PostgresConfig{}
	}
	if c.Redis == nil {
		c.Redis = &RedisConfig{}
	}
	if c.Mail == nil {
		c.Mail = &MailConfig{}
	}
	if c.Company == nil {
		c.Company = &CompanyConfig{}
	}

	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	switch c.Reservation.DelayRule {
	case "legacy", "overdue":
	default:
		return fmt.Errorf("unsupported reservation delay rule %q", c.Reservation.DelayRule)
	}

	if c.API.JWTSigningKey == "" {
		return fmt.Errorf("api.jwt_signing_key is required")
	}
	if c.API.SessionSecret == "" {
		return fmt.Errorf("api.session_secret is required")
	}

	return nil
}
