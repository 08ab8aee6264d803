package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ListenAddr      string
	CredentialsPath string

	HubBaseURL     string
	HubCallTimeout time.Duration
	HubWorkers     int

	LogLevel string
	LogFile  string
}

// Load reads the optional gateway config file and applies env overrides
// (prefix ICS2000, e.g. ICS2000_LISTEN_ADDR). A missing file is fine; every
// key has a default.
func Load() (*Config, error) {
	viper.SetConfigName("gateway")
	viper.SetConfigType("json")
	viper.AddConfigPath("/etc/ics2000-gateway/")
	viper.AddConfigPath("$HOME/.config/ics2000-gateway/")
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("ICS2000")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("listen_addr", "127.0.0.1:3000")
	viper.SetDefault("credentials_path", "credentials.json")
	viper.SetDefault("hub.base_url", "")
	viper.SetDefault("hub.call_timeout", "30s")
	viper.SetDefault("hub.workers", 4)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.file", "")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	return &Config{
		ListenAddr:      viper.GetString("listen_addr"),
		CredentialsPath: viper.GetString("credentials_path"),
		HubBaseURL:      viper.GetString("hub.base_url"),
		HubCallTimeout:  viper.GetDuration("hub.call_timeout"),
		HubWorkers:      viper.GetInt("hub.workers"),
		LogLevel:        viper.GetString("log.level"),
		LogFile:         viper.GetString("log.file"),
	}, nil
}
