package utils

import (
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Notify   NotifyConfig
	Booking  BookingConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type NotifyConfig struct {
	Enabled bool
	From    string
}

type BookingConfig struct {
	// StaleAgeHours is the default age after which an unpaid reservation is
	// eligible for the expiry sweep.
	StaleAgeHours int
	// RetryAttempts bounds retries on transient store conflicts.
	RetryAttempts int
	// ReleaseRetryAttempts bounds retries of a seat release after a recorded
	// cancellation before it is reported as a compensation failure.
	ReleaseRetryAttempts int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("NOTIFY_ENABLED", true)
	viper.SetDefault("BOOKING_STALE_AGE_HOURS", 24)
	viper.SetDefault("BOOKING_RETRY_ATTEMPTS", 3)
	viper.SetDefault("BOOKING_RELEASE_RETRY_ATTEMPTS", 3)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Notify: NotifyConfig{
			Enabled: viper.GetBool("NOTIFY_ENABLED"),
			From:    viper.GetString("NOTIFY_FROM"),
		},
		Booking: BookingConfig{
			StaleAgeHours:        viper.GetInt("BOOKING_STALE_AGE_HOURS"),
			RetryAttempts:        viper.GetInt("BOOKING_RETRY_ATTEMPTS"),
			ReleaseRetryAttempts: viper.GetInt("BOOKING_RELEASE_RETRY_ATTEMPTS"),
		},
	}

	return config, nil
}
