package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

const (
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

// DefaultMaxUploadBytes fits a full set of phone-camera document photos
// encoded as data URIs.
const DefaultMaxUploadBytes = 20 << 20

type Config struct {
	Port                          string        `mapstructure:"PORT"`
	StorageDriver                 string        `mapstructure:"STORAGE_DRIVER"`
	DatabasePath                  string        `mapstructure:"DATABASE_PATH"`
	RedisAddr                     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword                 string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB                       int           `mapstructure:"REDIS_DB"`
	JWTSecret                     string        `mapstructure:"JWT_SECRET"`
	AdminFullUser                 string        `mapstructure:"ADMIN_FULL_USER"`
	AdminFullPassword             string        `mapstructure:"ADMIN_FULL_PASSWORD"`
	AdminLimitedUser              string        `mapstructure:"ADMIN_LIMITED_USER"`
	AdminLimitedPassword          string        `mapstructure:"ADMIN_LIMITED_PASSWORD"`
	LockBlocksLogin               bool          `mapstructure:"LOCK_BLOCKS_LOGIN"`
	DefaultLang                   string        `mapstructure:"DEFAULT_LANG"`
	PostalAPIURL                  string        `mapstructure:"POSTAL_API_URL"`
	PostalTimeout                 time.Duration `mapstructure:"POSTAL_TIMEOUT"`
	PDFFontPath                   string        `mapstructure:"PDF_FONT_PATH"`
	DiscordBotToken               string        `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordNotificationsChannelID string        `mapstructure:"DISCORD_NOTIFICATIONS_CHANNEL_ID"`
	LogLevel                      string        `mapstructure:"LOG_LEVEL"`
	CORSOrigins                   []string      `mapstructure:"CORS_ORIGINS"`
	MaxUploadBytes                int64         `mapstructure:"MAX_UPLOAD_BYTES"`
}

func LoadConfig() *Config {
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("STORAGE_DRIVER", StorageSQLite)
	viper.SetDefault("DATABASE_PATH", "meibo.db")
	viper.SetDefault("REDIS_ADDR", "127.0.0.1:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("ADMIN_FULL_USER", "00000")
	viper.SetDefault("ADMIN_FULL_PASSWORD", "00000")
	viper.SetDefault("ADMIN_LIMITED_USER", "00111")
	viper.SetDefault("ADMIN_LIMITED_PASSWORD", "00111")
	viper.SetDefault("LOCK_BLOCKS_LOGIN", false)
	viper.SetDefault("POSTAL_API_URL", "https://zipcloud.ibsnet.co.jp/api")
	viper.SetDefault("POSTAL_TIMEOUT", 5*time.Second)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_UPLOAD_BYTES", DefaultMaxUploadBytes)

	viper.BindEnv("STORAGE_DRIVER")
	viper.BindEnv("REDIS_ADDR")
	viper.BindEnv("REDIS_PASSWORD")
	viper.BindEnv("REDIS_DB")
	viper.BindEnv("JWT_SECRET")
	viper.BindEnv("ADMIN_FULL_USER")
	viper.BindEnv("ADMIN_FULL_PASSWORD")
	viper.BindEnv("ADMIN_LIMITED_USER")
	viper.BindEnv("ADMIN_LIMITED_PASSWORD")
	viper.BindEnv("LOCK_BLOCKS_LOGIN")
	viper.BindEnv("DEFAULT_LANG")
	viper.BindEnv("POSTAL_API_URL")
	viper.BindEnv("POSTAL_TIMEOUT")
	viper.BindEnv("PDF_FONT_PATH")
	viper.BindEnv("DISCORD_BOT_TOKEN")
	viper.BindEnv("DISCORD_NOTIFICATIONS_CHANNEL_ID")
	viper.BindEnv("CORS_ORIGINS")
	viper.BindEnv("MAX_UPLOAD_BYTES")

	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	return &config
}
