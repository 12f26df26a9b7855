// One-off campaign: banner photo with the livestream link as caption.
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

const (
	photoPath = "assets/banner2.jpg"
	caption   = "Biz boshladik: https://youtube.com/live/lrK6rcXA0Lc?feature=share"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cli.RequireFile(photoPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	env := cli.Setup(ctx, *cfgPath)
	defer env.DB.Close()

	cli.Confirm(func() {
		fmt.Println("📡 LIVE ANNOUNCEMENT BROADCAST")
		fmt.Println()
		fmt.Printf("📸 Photo: %s\n", photoPath)
		fmt.Printf("💬 Caption: %s\n", caption)
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
