// Broadcast a free-text message to every registered user.
//
// Usage:
//
//	broadcast "Your message here"
//	broadcast -m "Your message here"
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"telegram-referral-bot/internal/cli"
	"telegram-referral-bot/internal/usecase"
)

func main() {
	var (
		cfgPath = flag.String("config", "config.yaml", "path to config file")
		message = flag.String("m", "", "message text to broadcast")
	)
	flag.Parse()

	text := *message
	if text == "" && flag.NArg() > 0 {
		text = flag.Arg(0)
	}
	if text == "" {
		fmt.Fprintln(os.Stderr, "usage: broadcast [-m] \"message text\"")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	env := cli.Setup(ctx, *cfgPath)
	defer env.DB.Close()

	cli.Confirm(func() {
		fmt.Println("BROADCAST MESSAGE PREVIEW")
		fmt.Println()
		fmt.Println(text)
	})

	uc := usecase.NewBroadcastUseCase(env.Users, env.Messenger, env.Pacing(), nil, env.Log)
	tally, err := uc.Run(ctx, usecase.Payload{Kind: usecase.PayloadText, Text: text})
	if err != nil {
		env.Log.Error().Err(err).Msg("broadcast aborted")
		os.Exit(1)
	}
	cli.PrintSummary(tally)
}
