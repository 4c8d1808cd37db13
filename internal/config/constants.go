// internal/config/constants.go
package config

// アプリケーション情報
const (
	AppName    = "voca-srs"
	AppVersion = "0.3.0"
)

// デフォルト設定値
const (
	DefaultServerPort        = ":8080"
	DefaultLogLevel          = "info"
	DefaultDatabaseDriver    = "postgres"
	DefaultDeviceStoreDriver = "sqlite3"
	DefaultDeviceStoreDSN    = "file:device_progress.db?_busy_timeout=5000"
	DefaultAppReviewLimit    = 20
	DefaultAppWordLimit      = 50
	DefaultReminderStartHour = 8
	DefaultReminderEndHour   = 22
	DefaultReminderTimezone  = "Asia/Seoul"
)

// ItemIDMaxLength はカードの itemID として受け付ける最大文字数
const ItemIDMaxLength = 64
