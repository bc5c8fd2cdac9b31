package main

import (
	"bridgebot/internal/adapters/bridge"
	"bridgebot/internal/adapters/generator"
	"bridgebot/internal/adapters/telegram"
	"bridgebot/internal/core/domain"
	"bridgebot/internal/core/domain/command"
	"bridgebot/internal/core/domain/commands"
	"bridgebot/internal/core/port"
	"bridgebot/internal/core/service"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	if err := buildRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("bridgebot stopped")
		os.Exit(1)
	}
}

func buildRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:          "bridgebot",
		Short:        "Chat command bot for an HTTP chat bridge",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configPath, cmd.Flags())
			if err != nil {
				return err
			}
			setupLogging(cfg.LogLevel, cfg.LogPretty)

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return run(ctx, cfg)
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to toml configuration file")
	cmd.Flags().Int("max-concurrency", 1, "Commands processed at once, 0 or less for no limit")
	cmd.Flags().String("log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(buildSendCmd(&configPath))

	return cmd
}

// buildSendCmd posts a single line to the bridge without listening.
func buildSendCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "send <message...>",
		Short: "Send one line through the bridge and exit",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := readConfig(*configPath, nil)
			if err != nil {
				return err
			}
			setupLogging(cfg.LogLevel, cfg.LogPretty)

			return sendLine(cmd.Context(), cfg, strings.Join(args, " "))
		},
	}
}

// sendLine only needs bridge.post_url, whatever transport is configured.
func sendLine(ctx context.Context, cfg *config, line string) error {
	if cfg.Bridge.PostURL == "" {
		return errors.New("bridge.post_url is not configured")
	}

	return bridge.NewSender(cfg.Bridge.PostURL).SendText(ctx, line)
}

func run(ctx context.Context, cfg *config) error {
	log.Info().Msg("starting bridgebot...")

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := service.NewMetrics(reg)

	registry := &command.Registry{}

	var ask *commands.AskHandler
	if cfg.OpenRouter.APIKey != "" {
		orGenerator := generator.NewOpenRouter(cfg.OpenRouter.APIKey, cfg.OpenRouter.Model, cfg.SystemPrompt)
		ask = commands.NewAskHandler(orGenerator, cfg.ContextTimeout, cfg.HandlerTimeout)
	} else {
		log.Info().Msg("no openrouter api key configured, !ask disabled")
	}

	if err := commands.Register(registry, ask); err != nil {
		return fmt.Errorf("registering commands: %w", err)
	}
	registry.Freeze()

	source, sender, err := newTransport(cfg)
	if err != nil {
		return err
	}

	scheduler := service.NewScheduler(cfg.MaxConcurrency, metrics)
	dispatcher := service.NewDispatcher(registry, scheduler, service.NewRouter(sender), metrics)

	if cfg.MetricsListen != "" {
		go serveMetrics(ctx, cfg.MetricsListen, reg)
	}

	log.Info().
		Str("transport", cfg.Transport).
		Int("max_concurrency", cfg.MaxConcurrency).
		Msg("bot listening")

	return dispatcher.Run(ctx, source)
}

func newTransport(cfg *config) (port.LineSource, port.LineSender, error) {
	switch cfg.Transport {
	case transportTelegram:
		updates := make(chan domain.Line)
		b, err := bot.New(cfg.TelegramToken, bot.WithDefaultHandler(telegram.UpdateHandler(updates)))
		if err != nil {
			return nil, nil, fmt.Errorf("failed initializing telegram bot: %w", err)
		}

		tg := telegram.NewTelegram(b, updates)
		return tg, tg, nil
	default:
		return bridge.NewStream(cfg.Bridge.GetURL), bridge.NewSender(cfg.Bridge.PostURL), nil
	}
}

func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", addr).Msg("serving metrics")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("metrics server failed")
	}
}
