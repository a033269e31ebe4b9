package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/julianstephens/trailpace/internal/constants"
)

// Config holds process-level settings. Runner profile values live in storage.
type Config struct {
	Storage         string `mapstructure:"storage"`
	Debug           bool   `mapstructure:"debug"`
	Listen          string `mapstructure:"listen"`
	Timezone        string `mapstructure:"timezone"`
	SmoothingWindow int    `mapstructure:"smoothing_window"`
	RedisPassword   string `mapstructure:"redis_password"`
}

// Load reads an optional .env file, then an optional config.yaml in dir,
// then TRAILPACE_* environment variables. Later sources win.
func Load(dir string, envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load env file: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(strings.ToUpper(constants.AppName))
	v.AutomaticEnv()

	v.SetDefault("storage", constants.DefaultConfigPath)
	v.SetDefault("debug", false)
	v.SetDefault("listen", constants.DefaultListenAddr)
	v.SetDefault("timezone", constants.DefaultTimezone)
	v.SetDefault("smoothing_window", constants.DefaultSmoothingWindow)
	v.SetDefault("redis_password", "")

	if dir != "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.SmoothingWindow < 1 {
		cfg.SmoothingWindow = constants.DefaultSmoothingWindow
	}
	return cfg, nil
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// Dir returns the directory that holds config.yaml, logs and the default database.
func Dir() (string, error) {
	p, err := ExpandPath(constants.DefaultConfigPath)
	if err != nil {
		return "", err
	}
	return filepath.Dir(p), nil
}

// IsRemote reports whether a storage location names a network database
// rather than a local file.
func IsRemote(location string) bool {
	for _, prefix := range []string{"postgres://", "postgresql://", "redis://", "rediss://"} {
		if strings.HasPrefix(location, prefix) {
			return true
		}
	}
	return false
}
