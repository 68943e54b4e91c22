package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adaptiveflow/zbdiag/internal/config"
	"github.com/adaptiveflow/zbdiag/internal/hook"
	"github.com/adaptiveflow/zbdiag/internal/logger"
	"github.com/adaptiveflow/zbdiag/internal/pid"
)

const shutdownTimeout = 5 * time.Second

var cfg *config.Config

func init() {
	var err error
	cfg, err = config.LoadHook()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Debug, cfg.Verbose, logger.IsService())
	logger.Debug().Msg("Config loaded")
}

func main() {
	if err := pid.Write(); err != nil {
		logger.Fatal().Err(err).Msg("failed to write PID file")
	}
	defer func() {
		if err := pid.Remove(); err != nil {
			logger.Error().Err(err).Msg("failed to remove PID file")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	svc := buildService()

	logger.Info().Msgf("Starting Adaptive Flow hook (mode=%s)", cfg.Hook.Mode)

	var err error
	if cfg.Hook.Mode == "webhook" {
		err = serveWebhook(ctx, svc)
	} else {
		// Polling mode needs no Moonraker configuration
		logger.Info().Msg("Polling Moonraker for print state changes...")
		err = hook.NewPoller(svc, time.Duration(cfg.Hook.PollSeconds)*time.Second).Run(ctx)
	}
	if err != nil {
		logger.Error().Err(err).Msg("hook service failed")
	}

	logger.Info().Msg("Exiting...")
}

func buildService() *hook.Service {
	runner := hook.NewRunner(
		cfg.Hook.AnalyzerBin,
		analyzerArgs(),
		time.Duration(cfg.Hook.TimeoutSeconds)*time.Second,
	)
	moonraker := hook.NewMoonrakerClient(cfg.Hook.MoonrakerURL)
	settle := time.Duration(cfg.Hook.SettleSeconds) * time.Second

	return hook.NewService(runner, moonraker, cfg.Hook.NotifyConsole, settle)
}

func analyzerArgs() []string {
	var args []string
	if cfg.KlippyPath != "" {
		args = append(args, "--klippy", cfg.KlippyPath)
	}
	if cfg.CSVPath != "" {
		args = append(args, "--csv", cfg.CSVPath)
	}
	return args
}

func serveWebhook(ctx context.Context, svc *hook.Service) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Hook.Port),
		Handler:           svc.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info().Msgf("Webhook server listening on port %d", cfg.Hook.Port)
	logger.Info().Msgf("  Health check: http://localhost:%d/health", cfg.Hook.Port)
	logger.Info().Msgf("  Manual trigger: http://localhost:%d/analyze", cfg.Hook.Port)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}
