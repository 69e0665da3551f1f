package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	telegram "vision-match/internal/api"
	"vision-match/internal/container"
	"vision-match/internal/infrastructure/storage"
)

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run the Telegram bot",
	Long: `Run a Telegram bot that accepts a reference photo and replies with the
frames from CANDIDATE_DIR that likely show the same person.

Requires TELEGRAM_TOKEN and CANDIDATE_DIR (environment, .env or config file).`,
	Args: cobra.NoArgs,
	RunE: runBot,
}

func init() {
	rootCmd.AddCommand(botCmd)
}

func runBot(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.TelegramToken == "" {
		return errors.New("TELEGRAM_TOKEN is required")
	}
	if cfg.CandidateDir == "" {
		return errors.New("CANDIDATE_DIR is required")
	}

	log := newLogger(cfg.LogLevel, mustGetBool(cmd, "verbose"))

	// Инициализация зависимостей
	appContainer, err := container.New(cfg, storage.NewMemorySessionStore(), log)
	if err != nil {
		return fmt.Errorf("init container: %w", err)
	}

	bot, err := telegram.NewBot(cfg.TelegramToken, appContainer, log)
	if err != nil {
		return fmt.Errorf("create bot: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithField("candidates", cfg.CandidateDir).Info("Bot started")
	return bot.Run(ctx)
}
