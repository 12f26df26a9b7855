// Package cli holds the shared plumbing of the standalone operator scripts:
// configuration and store setup, the interactive confirmation gate, and the
// final tally printout.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"telegram-referral-bot/internal/config"
	"telegram-referral-bot/internal/infra/db/sqlite"
	"telegram-referral-bot/internal/infra/logging"
	"telegram-referral-bot/internal/infra/telegram"
	"telegram-referral-bot/internal/usecase"
)

// Env bundles what every script needs.
type Env struct {
	Cfg       *config.Config
	Log       *zerolog.Logger
	DB        *sqlx.DB
	Users     *sqlite.UserRepo
	Messenger *telegram.Messenger
}

// Setup loads config, verifies credentials (fatal before any send), opens the
// store and connects the bot client. Exits nonzero on any failure.
func Setup(ctx context.Context, cfgPath string) *Env {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Log)

	if err := cfg.ValidateCredentials(); err != nil {
		logger.Error().Err(err).Msg("bot token not configured, set BOT_TOKEN")
		os.Exit(1)
	}

	db, err := sqlite.Open(ctx, cfg.Database.Path)
	if err != nil {
		logger.Error().Err(err).Str("path", cfg.Database.Path).Msg("open database")
		os.Exit(1)
	}

	messenger, err := telegram.NewMessenger(cfg.Bot.Token)
	if err != nil {
		logger.Error().Err(err).Msg("telegram")
		os.Exit(1)
	}

	return &Env{
		Cfg:       cfg,
		Log:       logger,
		DB:        db,
		Users:     sqlite.NewUserRepo(db),
		Messenger: messenger,
	}
}

// Pacing builds the pacer tunables from config.
func (e *Env) Pacing() usecase.Pacing {
	return usecase.Pacing{
		BatchSize:       e.Cfg.Broadcast.BatchSize,
		BatchRest:       e.Cfg.Broadcast.BatchRest,
		MessageDelay:    e.Cfg.Broadcast.MessageDelay,
		MediaPhotoDelay: e.Cfg.Broadcast.MediaPhotoDelay,
		MediaUserDelay:  e.Cfg.Broadcast.MediaUserDelay,
	}
}

// RequireFile exits nonzero when a payload file is missing. Checked before
// any message is sent.
func RequireFile(path string) {
	if _, err := os.Stat(path); err != nil {
		fmt.Fprintf(os.Stderr, "\n❌ Error: Photo file not found at %s\n", path)
		os.Exit(1)
	}
}

// Confirm echoes the payload header and asks for an explicit yes/no. A
// decline exits 0: cancelling is a normal completion.
func Confirm(header func()) {
	fmt.Println("\n" + strings.Repeat("=", 50))
	header()
	fmt.Println(strings.Repeat("=", 50))

	fmt.Print("\nAre you sure you want to send this to all users? (yes/no): ")
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	if answer != "yes" && answer != "y" {
		fmt.Println("Broadcast cancelled")
		os.Exit(0)
	}
	fmt.Println("\nStarting broadcast...")
	fmt.Println()
}

// PrintSummary renders the final tally.
func PrintSummary(t usecase.Tally) {
	line := strings.Repeat("=", 50)
	fmt.Println("\n" + line)
	fmt.Println("BROADCAST SUMMARY")
	fmt.Println(line)
	fmt.Printf("Total users: %d\n", t.Total)
	fmt.Printf("Successful: %d\n", t.Successful)
	fmt.Printf("Failed: %d\n", t.Failed)
	fmt.Printf("Success rate: %.2f%%\n", t.SuccessRate())
	fmt.Println(line)
}
