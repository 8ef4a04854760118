package config

import (
	"os"
	"time"

	"codeberg.org/mutker/droidscout/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultInterval   = 5
	DefaultTotalMemMB = 4096
	DefaultListen     = "localhost:5000"
	DefaultLogLevel   = "info"
)

type Config struct {
	Device         string   `mapstructure:"device"`
	Target         string   `mapstructure:"target"`
	Interval       int      `mapstructure:"interval"`
	Monitor        bool     `mapstructure:"monitor"`
	Serve          bool     `mapstructure:"serve"`
	Listen         string   `mapstructure:"listen"`
	OutputDir      string   `mapstructure:"output_dir"`
	TotalMemMB     float64  `mapstructure:"total_mem_mb"`
	SessionDB      string   `mapstructure:"session_db"`
	SystemPrefixes []string `mapstructure:"system_prefixes"`
	LogLevel       string   `mapstructure:"log_level"`
	Debug          bool     `mapstructure:"debug"`
	Verbose        bool     `mapstructure:"verbose"`
}

// SampleInterval returns the session cadence as a duration.
func (c *Config) SampleInterval() time.Duration {
	return time.Duration(c.Interval) * time.Second
}

func Load() (*Config, error) {
	errFactory := errors.New()
	v := viper.New()

	flags := pflag.NewFlagSet("droidscout", pflag.ContinueOnError)
	flags.String("device", "", "Device serial to use (default: auto-detect)")
	flags.String("target", "", "Target app package for frame rendering stats")
	flags.Int("interval", DefaultInterval, "Seconds between samples in monitor or session mode")
	flags.Bool("monitor", false, "Repeat diagnostics until interrupted")
	flags.Bool("serve", false, "Run the dashboard HTTP server")
	flags.String("listen", DefaultListen, "Dashboard listen address")
	flags.String("output-dir", ".", "Directory for report output")
	flags.Float64("total-mem-mb", DefaultTotalMemMB, "Assumed device memory capacity in MB")
	flags.String("session-db", "", "Path to the session database (empty: disabled)")
	flags.String("log-level", DefaultLogLevel, "Log level (debug, info, warning, error)")
	flags.Bool("debug", false, "Enable debugging mode")
	flags.Bool("verbose", false, "Enable verbose logging")

	if err := flags.Parse(os.Args[1:]); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	v.SetDefault("interval", DefaultInterval)
	v.SetDefault("listen", DefaultListen)
	v.SetDefault("output_dir", ".")
	v.SetDefault("total_mem_mb", DefaultTotalMemMB)
	v.SetDefault("log_level", DefaultLogLevel)

	if err := v.BindPFlags(flags); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	// Flag names use dashes, config keys use underscores
	bindAliases := map[string]string{
		"output_dir":   "output-dir",
		"total_mem_mb": "total-mem-mb",
		"session_db":   "session-db",
		"log_level":    "log-level",
	}
	for key, flagName := range bindAliases {
		if err := v.BindPFlag(key, flags.Lookup(flagName)); err != nil {
			return nil, errFactory.Wrap(errors.ErrBindFlags, err)
		}
	}

	if path := os.Getenv("DROIDSCOUT_CONFIG"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("droidscout")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if _, statErr := os.Stat(v.ConfigFileUsed()); v.ConfigFileUsed() == "" || statErr == nil {
				return nil, errFactory.Wrap(errors.ErrReadConfig, err)
			}
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrReadConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the loaded configuration for caller errors.
func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.Interval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, c.Interval)
	}

	if c.TotalMemMB <= 0 {
		return errFactory.WithData(errors.ErrInvalidConfig, "total_mem_mb must be positive")
	}

	if !LogLevel(c.LogLevel).IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	return nil
}
