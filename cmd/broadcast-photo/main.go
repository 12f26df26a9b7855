// Broadcast a photo with a caption to every registered user.
//
// Usage:
//
//	broadcast-photo path/to/photo.jpg "Caption text"
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
	cfgPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: broadcast-photo <photo path> [caption]")
		os.Exit(1)
	}
	photoPath := flag.Arg(0)
	caption := ""
	if flag.NArg() > 1 {
		caption = flag.Arg(1)
	}

	cli.RequireFile(photoPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	env := cli.Setup(ctx, *cfgPath)
	defer env.DB.Close()

	cli.Confirm(func() {
		fmt.Println("PHOTO BROADCAST PREVIEW")
		fmt.Println()
		fmt.Printf("Photo: %s\n", photoPath)
		if caption != "" {
			fmt.Println()
			fmt.Println(caption)
		}
	})

	uc := usecase.NewBroadcastUseCase(env.Users, env.Messenger, env.Pacing(), nil, env.Log)
	tally, err := uc.Run(ctx, usecase.Payload{
		Kind:      usecase.PayloadPhoto,
		PhotoPath: photoPath,
		Text:      caption,
	})
	if err != nil {
		env.Log.Error().Err(err).Msg("broadcast aborted")
		os.Exit(1)
	}
	cli.PrintSummary(tally)
}
