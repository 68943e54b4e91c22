package config

import (
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/adaptiveflow/zbdiag/internal/errors"
)

const (
	// DefaultSamples bounds how many device log status lines are analyzed.
	DefaultSamples = 1000

	DefaultLogLevel = "info"

	configEnvVar = "ZBDIAG_CONFIG"
)

// Config carries the analyzer settings, merged from defaults, the optional
// config file (zbdiag.toml) and command line flags, in that order.
type Config struct {
	KlippyPath string `mapstructure:"klippy"`
	CSVPath    string `mapstructure:"csv"`
	CSVDir     string `mapstructure:"csv_dir"`
	All        bool   `mapstructure:"all"`
	Samples    int    `mapstructure:"samples"`
	LogLevel   string `mapstructure:"log_level"`
	Debug      bool   `mapstructure:"debug"`
	Verbose    bool   `mapstructure:"verbose"`
	History    bool   `mapstructure:"history"`
	HistoryDB  string `mapstructure:"history_db"`

	Hook Hook `mapstructure:"hook"`
}

// Hook carries the orchestration service settings.
type Hook struct {
	Mode           string `mapstructure:"mode"` // webhook | poll
	Port           int    `mapstructure:"port"`
	MoonrakerURL   string `mapstructure:"moonraker_url"`
	AnalyzerBin    string `mapstructure:"analyzer_bin"`
	NotifyConsole  bool   `mapstructure:"notify_console"`
	SettleSeconds  int    `mapstructure:"settle_seconds"`
	PollSeconds    int    `mapstructure:"poll_seconds"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// Load loads the analyzer configuration.
func Load() (*Config, error) {
	return load(func(fs *pflag.FlagSet) {
		fs.String("klippy", "", "Path to klippy.log")
		fs.String("csv", "", "Path to Adaptive Flow CSV log")
		fs.String("csv-dir", "", "Directory holding Adaptive Flow CSV logs")
		fs.Bool("all", false, "Analyze all available CSV logs")
		fs.Int("samples", DefaultSamples, "Number of Stats lines to analyze")
	}, map[string]string{"csv-dir": "csv_dir"})
}

// LoadHook loads the orchestration service configuration.
func LoadHook() (*Config, error) {
	return load(func(fs *pflag.FlagSet) {
		fs.String("mode", "poll", "webhook=listen for notifications, poll=check print state")
		fs.Int("port", 7126, "Port for the webhook listener")
		fs.String("moonraker-url", "http://localhost:7125", "Moonraker base URL")
	}, map[string]string{
		"mode":          "hook.mode",
		"port":          "hook.port",
		"moonraker-url": "hook.moonraker_url",
	})
}

func load(defineFlags func(*pflag.FlagSet), keys map[string]string) (*Config, error) {
	errFactory := errors.New()

	fs := pflag.NewFlagSet("zbdiag", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	defineFlags(fs)
	fs.Bool("debug", false, "Enable debugging mode")
	fs.Bool("verbose", false, "Enable verbose logging")
	fs.String("log-level", "", "Log level (debug, info, warning, error)")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	v := viper.New()
	setDefaults(v)

	if path := os.Getenv(configEnvVar); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	} else {
		v.SetConfigName("zbdiag")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home + "/.config/zbdiag")
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errFactory.Wrap(errors.ErrReadConfig, err)
			}
		}
	}

	// Flags set on the command line override file values.
	fs.Visit(func(f *pflag.Flag) {
		key := f.Name
		if mapped, ok := keys[key]; ok {
			key = mapped
		} else {
			key = strings.ReplaceAll(key, "-", "_")
		}
		v.Set(key, f.Value.String())
	})

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("samples", DefaultSamples)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("history", false)
	v.SetDefault("history_db", "")
	v.SetDefault("hook.mode", "poll")
	v.SetDefault("hook.port", 7126)
	v.SetDefault("hook.moonraker_url", "http://localhost:7125")
	v.SetDefault("hook.analyzer_bin", "zbdiag")
	v.SetDefault("hook.notify_console", true)
	v.SetDefault("hook.settle_seconds", 2)
	v.SetDefault("hook.poll_seconds", 5)
	v.SetDefault("hook.timeout_seconds", 120)
}

func (c *Config) validate() error {
	errFactory := errors.New()

	if c.Samples <= 0 {
		return errFactory.WithData(errors.ErrInvalidConfig, "samples must be positive")
	}
	switch c.LogLevel {
	case "debug", "info", "warning", "error":
	default:
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}
	switch c.Hook.Mode {
	case "webhook", "poll":
	default:
		return errFactory.WithData(errors.ErrInvalidConfig, "hook mode must be webhook or poll")
	}
	if c.History && c.HistoryDB == "" {
		return errFactory.WithData(errors.ErrInvalidConfig, "history enabled without history_db path")
	}

	return nil
}
