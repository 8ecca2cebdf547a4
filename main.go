package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"voicedesk/app/client/speechkit"
	"voicedesk/app/config"
	"voicedesk/app/service/agent"
	"voicedesk/app/service/api"
	"voicedesk/app/service/coffee"
	"voicedesk/app/service/engine"
	"voicedesk/app/service/queue"
	"voicedesk/app/service/transcribe"
	"voicedesk/app/service/wellness"
	"voicedesk/app/util/mylog"

	"github.com/samber/do"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

func main() {
	mylog.Preinit()

	rootCmd := &cobra.Command{
		Use:           "voicedesk",
		Short:         "Voice assistants for daily wellness check-ins and coffee orders",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "path to config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(
		assistantCmd(engine.ModeWellness, "Daily wellness check-in companion"),
		assistantCmd(engine.ModeCoffee, "Coffee shop barista taking orders"),
		serveCmd(),
		historyCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

// bootstrap loads config, sets up logging and registers every service. Services are
// built lazily, so commands only pay for what they use.
func bootstrap() (*do.Injector, context.Context, context.CancelFunc, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("config load failed: %w", err)
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	if err = mylog.Init(cfg, level); err != nil {
		return nil, nil, nil, fmt.Errorf("logging init failed: %w", err)
	}

	appCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	di := do.New()
	do.ProvideValue(di, appCtx)
	do.ProvideValue(di, cfg)

	do.Provide(di, speechkit.NewClient)
	do.Provide(di, queue.New)
	do.Provide(di, transcribe.New)
	do.Provide(di, wellness.New)
	do.Provide(di, coffee.New)
	do.Provide(di, agent.New)
	do.Provide(di, engine.New)
	do.Provide(di, api.New)

	return di, appCtx, cancel, nil
}
