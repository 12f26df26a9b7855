// Send a single test message to one user before running a full broadcast.
//
// Usage:
//
//	broadcast-test <user id> "Test message"
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"telegram-referral-bot/internal/config"
	"telegram-referral-bot/internal/domain/ports/adapter"
	"telegram-referral-bot/internal/infra/logging"
	"telegram-referral-bot/internal/infra/telegram"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if flag.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "usage: broadcast-test <user id> \"message text\"")
		os.Exit(1)
	}
	userID, err := strconv.ParseInt(flag.Arg(0), 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid user id %q\n", flag.Arg(0))
		os.Exit(1)
	}
	message := flag.Arg(1)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Log)

	if err := cfg.ValidateCredentials(); err != nil {
		logger.Error().Err(err).Msg("bot token not configured, set BOT_TOKEN")
		os.Exit(1)
	}

	line := strings.Repeat("=", 50)
	fmt.Println("\n" + line)
	fmt.Println("TEST BROADCAST")
	fmt.Println(line)
	fmt.Printf("Recipient: %d\n", userID)
	fmt.Printf("Message: %s\n", message)
	fmt.Println(line + "\n")

	messenger, err := telegram.NewMessenger(cfg.Bot.Token)
	if err != nil {
		logger.Error().Err(err).Msg("telegram")
		os.Exit(1)
	}

	if err := messenger.SendMessage(context.Background(), userID, message, adapter.MarkupNone); err != nil {
		logger.Error().Err(err).Int64("tg_id", userID).Msg("test message failed")
		fmt.Printf("\n❌ Error: %v\n", err)
		fmt.Println("\nPossible issues:")
		fmt.Println("1. User ID is incorrect")
		fmt.Println("2. User has blocked the bot")
		fmt.Println("3. Bot token is invalid")
		os.Exit(1)
	}

	fmt.Printf("\n✅ Message successfully sent to user %d\n", userID)
	fmt.Println("\nIf you received the message correctly, you can proceed with the full broadcast using:")
	fmt.Printf("broadcast %q\n", message)
}
