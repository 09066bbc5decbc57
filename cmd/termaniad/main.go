// Command termaniad is a headless developer harness for the control
// core: it loads config, starts a Controller and its Text Tap server,
// and polls in a loop, without any GUI frontend attached. It exists for
// integration-testing the Text Tap protocol and the LLM client in
// isolation (spec SPEC_FULL.md §5.x).
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kastheco/termania/config"
	"github.com/kastheco/termania/controller"
	"github.com/kastheco/termania/ptybackend"
	"github.com/kastheco/termania/telemetry"
	"github.com/spf13/cobra"
)

var (
	version    = "0.1.0"
	configFlag string
	dsnFlag    string
	tickFlag   time.Duration

	rootCmd = &cobra.Command{
		Use:   "termaniad",
		Short: "termaniad - headless control core for the Termania terminal orchestrator",
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Load config, start the controller and Text Tap server, and poll until interrupted",
		RunE:  runServe,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of termaniad",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("termaniad version %s\n", version)
		},
	}

	debugCmd = &cobra.Command{
		Use:   "debug",
		Short: "Print the resolved config",
		RunE:  runDebug,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "path to termania.toml (defaults to a bare 1x1 shell grid)")
	rootCmd.PersistentFlags().StringVar(&dsnFlag, "sentry-dsn", "", "optional Sentry DSN for error telemetry (disabled when empty)")
	serveCmd.Flags().DurationVar(&tickFlag, "tick", 33*time.Millisecond, "controller poll interval")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(debugCmd)
}

func loadConfig() (*config.Config, error) {
	if configFlag == "" {
		return config.Default(), nil
	}
	return config.Load(configFlag)
}

func runDebug(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	fmt.Printf("grid: %dx%d\n", cfg.Grid.Rows, cfg.Grid.Cols)
	fmt.Printf("text_tap: enabled=%v socket=%s\n", cfg.TextTap.Enabled, cfg.TextTap.SocketPath)
	fmt.Printf("llm: provider=%s model=%s\n", cfg.LLM.Provider, cfg.LLM.Model)
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := telemetry.Init(dsnFlag, version); err != nil {
		slog.Warn("telemetry init failed, continuing without it", "error", err)
	}
	defer telemetry.Flush()
	defer telemetry.RecoverPanic()

	logger := telemetry.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("termaniad: load config: %w", err)
	}

	ctrl, err := controller.New(cfg, ptybackend.NewCreack())
	if err != nil {
		return fmt.Errorf("termaniad: create controller: %w", err)
	}
	defer ctrl.Close()

	if err := ctrl.Start(); err != nil {
		return fmt.Errorf("termaniad: start text tap: %w", err)
	}
	slog.Info("termaniad started", "panes", ctrl.PaneCount(), "text_tap_enabled", cfg.TextTap.Enabled, "socket", cfg.TextTap.SocketPath)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(tickFlag)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("termaniad shutting down")
			return nil
		case <-ticker.C:
			ctrl.Poll()
			if n := ctrl.PendingNotification(); n != nil {
				slog.Info("notification", "title", n.Title, "body", n.Body)
			}
			if u := ctrl.PendingContextUsage(); u != nil {
				slog.Info("context usage", "used", u.UsedTokens, "total", u.TotalTokens, "percentage", u.Percentage)
			}
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
