package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	transportBridge   = "bridge"
	transportTelegram = "telegram"
)

type config struct {
	MaxConcurrency int
	LogLevel       string
	LogPretty      bool
	Transport      string

	Bridge struct {
		GetURL  string
		PostURL string
	}

	TelegramToken string
	MetricsListen string

	OpenRouter struct {
		APIKey string
		Model  string
	}

	SystemPrompt   string
	ContextTimeout time.Duration
	HandlerTimeout time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("bot.max_concurrency", 1)
	v.SetDefault("bot.log_level", "info")
	v.SetDefault("bot.log_pretty", false)
	v.SetDefault("bot.transport", transportBridge)
	v.SetDefault("openrouter.model", "openai/gpt-4.1")
	v.SetDefault("chat.context_timeout", "10m")
	v.SetDefault("handler.timeout", "2m")
}

// loadConfig reads the configuration with readConfig and checks that the
// selected transport is fully configured.
func loadConfig(path string, flags *pflag.FlagSet) (*config, error) {
	cfg, err := readConfig(path, flags)
	if err != nil {
		return nil, err
	}

	return cfg, cfg.validate()
}

// readConfig reads the toml file at path, or ./config.toml when path is
// empty, and applies BRIDGEBOT_ environment overrides and flags on top.
func readConfig(path string, flags *pflag.FlagSet) (*config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("bridgebot")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range map[string]string{
			"bot.max_concurrency": "max-concurrency",
			"bot.log_level":       "log-level",
		} {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	log.Info().Msg("reading config file...")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("could not read config file: %w", err)
		}
		log.Warn().Msg("no config file found, using defaults and environment")
	}

	cfg := &config{
		MaxConcurrency: v.GetInt("bot.max_concurrency"),
		LogLevel:       v.GetString("bot.log_level"),
		LogPretty:      v.GetBool("bot.log_pretty"),
		Transport:      v.GetString("bot.transport"),
		TelegramToken:  v.GetString("telegram.bot_token"),
		MetricsListen:  v.GetString("metrics.listen"),
		SystemPrompt:   v.GetString("chat.system_prompt"),
	}
	cfg.Bridge.GetURL = v.GetString("bridge.get_url")
	cfg.Bridge.PostURL = v.GetString("bridge.post_url")
	cfg.OpenRouter.APIKey = v.GetString("openrouter.api_key")
	cfg.OpenRouter.Model = v.GetString("openrouter.model")

	var err error
	cfg.ContextTimeout, err = time.ParseDuration(v.GetString("chat.context_timeout"))
	if err != nil {
		return nil, fmt.Errorf("invalid timeout for chat context in config: %w", err)
	}
	cfg.HandlerTimeout, err = time.ParseDuration(v.GetString("handler.timeout"))
	if err != nil {
		return nil, fmt.Errorf("invalid timeout for handler in config: %w", err)
	}

	return cfg, nil
}

func (c *config) validate() error {
	switch c.Transport {
	case transportBridge:
		if c.Bridge.GetURL == "" || c.Bridge.PostURL == "" {
			return errors.New("bridge transport needs bridge.get_url and bridge.post_url")
		}
	case transportTelegram:
		if c.TelegramToken == "" {
			return errors.New("telegram transport needs telegram.bot_token")
		}
	default:
		return fmt.Errorf("unknown transport %q", c.Transport)
	}

	return nil
}

func setupLogging(level string, pretty bool) {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil || logLevel == zerolog.NoLevel {
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)

	if pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
