// internal/config/config.go
package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // postgres | sqlite
	URL    string `mapstructure:"url"`
}

// DeviceStoreConfig は端末学習者用KVストアの接続設定 (sqlx)
type DeviceStoreConfig struct {
	Driver string `mapstructure:"driver"` // sqlite3 | postgres
	DSN    string `mapstructure:"dsn"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type AppConfig struct {
	ReviewLimit int `mapstructure:"review_limit"`
	WordLimit   int `mapstructure:"word_limit"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type AuthConfig struct {
	JWTSecret   string `mapstructure:"jwt_secret"`
	AllowDevice bool   `mapstructure:"allow_device"` // X-Device-ID による端末学習者を許可するか
}

type ReminderConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	StartHour int    `mapstructure:"start_hour"`
	EndHour   int    `mapstructure:"end_hour"`
	Timezone  string `mapstructure:"timezone"`
}

type Config struct {
	Database    DatabaseConfig    `mapstructure:"database"`
	DeviceStore DeviceStoreConfig `mapstructure:"device_store"`
	Server      ServerConfig      `mapstructure:"server"`
	Log         LogConfig         `mapstructure:"log"`
	App         AppConfig         `mapstructure:"app"`
	CORS        CORSConfig        `mapstructure:"cors"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Reminder    ReminderConfig    `mapstructure:"reminder"`
}

var Cfg Config

// LoadConfig は .env → config.yaml → 環境変数 (APP_ 接頭辞) の順に読み込み、Cfg に格納します。
func LoadConfig(path string) error {
	// .env は任意。存在しなければそのまま進む
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Failed to load .env file", slog.Any("error", err))
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	v.AddConfigPath(".")

	v.SetEnvPrefix("APP") // APP_DATABASE_URL のように接頭辞をつける
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.BindEnv("database.url", "APP_DATABASE_URL", "DATABASE_URL")
	v.BindEnv("auth.jwt_secret", "APP_AUTH_JWT_SECRET", "JWT_SECRET")
	v.BindEnv("auth.allow_device", "APP_AUTH_ALLOW_DEVICE")
	v.BindEnv("device_store.dsn", "APP_DEVICE_STORE_DSN")
	v.BindEnv("reminder.enabled", "APP_REMINDER_ENABLED")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			slog.Warn("Config file not found. Using default settings or environment variables if available.")
		} else {
			slog.Error("Error reading config file", slog.Any("error", err))
			return err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		slog.Error("Error unmarshalling config", slog.Any("error", err))
		return err
	}

	// --- デフォルト値の設定 ---
	applyDefaults(&cfg)
	// 端末学習者は未設定なら有効 (ログイン前でも学習できるように)
	if !v.IsSet("auth.allow_device") {
		cfg.Auth.AllowDevice = true
	}
	if cfg.Database.URL == "" {
		slog.Warn("Database URL is not set in config.")
	}
	if cfg.Auth.JWTSecret == "" {
		slog.Warn("JWT secret is not set, account learners cannot authenticate.")
	}

	Cfg = cfg
	slog.Info("Config loaded successfully",
		slog.String("server_port", Cfg.Server.Port),
		slog.String("database_driver", Cfg.Database.Driver),
		slog.String("device_store_driver", Cfg.DeviceStore.Driver),
		slog.Int("review_limit", Cfg.App.ReviewLimit),
		slog.Bool("reminder_enabled", Cfg.Reminder.Enabled),
	)
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = DefaultDatabaseDriver
	}
	if cfg.DeviceStore.Driver == "" {
		cfg.DeviceStore.Driver = DefaultDeviceStoreDriver
	}
	if cfg.DeviceStore.DSN == "" {
		cfg.DeviceStore.DSN = DefaultDeviceStoreDSN
	}
	if cfg.App.ReviewLimit <= 0 {
		cfg.App.ReviewLimit = DefaultAppReviewLimit
	}
	if cfg.App.WordLimit <= 0 {
		cfg.App.WordLimit = DefaultAppWordLimit
	}
	if cfg.Reminder.StartHour == 0 && cfg.Reminder.EndHour == 0 {
		cfg.Reminder.StartHour = DefaultReminderStartHour
		cfg.Reminder.EndHour = DefaultReminderEndHour
	}
	if cfg.Reminder.Timezone == "" {
		cfg.Reminder.Timezone = DefaultReminderTimezone
	}
	if len(cfg.CORS.AllowedMethods) == 0 {
		cfg.CORS.AllowedMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	}
	if len(cfg.CORS.AllowedHeaders) == 0 {
		cfg.CORS.AllowedHeaders = []string{"Accept", "Authorization", "Content-Type", "X-Device-ID"}
	}
}
