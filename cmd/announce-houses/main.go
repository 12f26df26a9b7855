// One-off campaign: two banner photos per user, the second carrying the
// caption and a location button.
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
	photo1Path = "assets/banner3.jpg"
	photo2Path = "assets/banner4.jpg"

	buttonText = "📍Lokatsiyani olish"
	buttonURL  = "https://t.me/zangiotaresidence_tjm/126"

	caption = `Boshlang'ich to'lovsiz uylar soni tugayapti! 🚨

Hurmatli mijozlar!

Bizning boshlang'ich to'lovsiz berilayotgan xonadonlarga talab shunchalik yuqori bo'ldiki, ularning soni tezlik bilan kamayib bormoqda.

Rasmga e'tibor bering – bu bizning uylarimizning rejasi. Qizil va sariq rangga bo'yalgan xonadonlar allaqachon sotib bo'lingan yoki band qilingan!

Sotuv ofisimiz manzilini olish uchun quyidagi tugmani bosing👇🏻`
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cli.RequireFile(photo1Path)
	cli.RequireFile(photo2Path)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	env := cli.Setup(ctx, *cfgPath)
	defer env.DB.Close()

	cli.Confirm(func() {
		fmt.Println("🏠 HOUSES ANNOUNCEMENT BROADCAST")
		fmt.Println()
		fmt.Printf("📸 Photo 1: %s\n", photo1Path)
		fmt.Printf("📸 Photo 2: %s\n", photo2Path)
		fmt.Printf("💬 Caption: %.50s...\n", caption)
		fmt.Printf("🔗 Button: %s\n", buttonText)
	})

	uc := usecase.NewBroadcastUseCase(env.Users, env.Messenger, env.Pacing(), nil, env.Log)
	tally, err := uc.Run(ctx, usecase.Payload{
		Kind:          usecase.PayloadMediaSequence,
		LeadPhotoPath: photo1Path,
		PhotoPath:     photo2Path,
		Text:          caption,
		ButtonText:    buttonText,
		ButtonURL:     buttonURL,
	})
	if err != nil {
		env.Log.Error().Err(err).Msg("broadcast aborted")
		os.Exit(1)
	}
	cli.PrintSummary(tally)
}
