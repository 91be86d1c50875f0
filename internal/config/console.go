package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Console configures the admin CLI. Precedence: flags, BOOKING_* environment,
// console.yaml, defaults.
type Console struct {
	APIURL       string        `mapstructure:"api-url"`
	Token        string        `mapstructure:"token"`
	ExportDir    string        `mapstructure:"export-dir"`
	PollInterval time.Duration `mapstructure:"poll-interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
	GetRetries   int           `mapstructure:"get-retries"`
}

func ConsoleFlags(fs *pflag.FlagSet) {
	fs.String("api-url", "http://localhost:8081", "booking API base URL")
	fs.String("token", "", "admin bearer token")
	fs.String("export-dir", ".", "directory for exported CSV files")
	fs.Duration("poll-interval", 2*time.Second, "generation task poll interval")
	fs.Duration("timeout", 30*time.Second, "HTTP client timeout")
	fs.Int("get-retries", 1, "retries for idempotent list/get requests")
}

func LoadConsole(fs *pflag.FlagSet) (Console, error) {
	v := viper.New()
	v.SetConfigName("console")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.booking/")
	v.SetEnvPrefix("BOOKING")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return Console{}, fmt.Errorf("bind flags: %w", err)
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Console{}, fmt.Errorf("read console config: %w", err)
		}
	}

	var c Console
	if err := v.Unmarshal(&c); err != nil {
		return Console{}, fmt.Errorf("unmarshal console config: %w", err)
	}
	if c.APIURL == "" {
		return Console{}, fmt.Errorf("api-url is required")
	}
	c.APIURL = strings.TrimRight(c.APIURL, "/")
	return c, nil
}
