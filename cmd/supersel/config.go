package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds the resolved runtime configuration.
type Config struct {
	BaseURL     string
	Token       string
	PageSize    int
	Debounce    time.Duration
	HistoryPath string
}

// loadConfig reads config.yaml from the user config directory, creating a
// default file on first run. SUPERSEL_* environment variables override file
// values.
func loadConfig() (Config, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return Config{}, fmt.Errorf("locate config dir: %w", err)
	}
	appDir := filepath.Join(dir, "supersel")

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(appDir)

	v.SetDefault("base_url", "http://localhost:8088")
	v.SetDefault("token", "")
	v.SetDefault("page_size", 50)
	v.SetDefault("debounce_ms", 250)
	v.SetDefault("history_path", filepath.Join(appDir, "history.db"))

	v.SetEnvPrefix("SUPERSEL")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		// First run: write a default config the user can edit.
		if mkErr := os.MkdirAll(appDir, 0o755); mkErr == nil {
			_ = v.SafeWriteConfigAs(filepath.Join(appDir, "config.yaml"))
		}
	}

	return Config{
		BaseURL:     v.GetString("base_url"),
		Token:       v.GetString("token"),
		PageSize:    v.GetInt("page_size"),
		Debounce:    time.Duration(v.GetInt("debounce_ms")) * time.Millisecond,
		HistoryPath: v.GetString("history_path"),
	}, nil
}
