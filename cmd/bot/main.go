package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"telegram-referral-bot/internal/application"
	"telegram-referral-bot/internal/config"
	"telegram-referral-bot/internal/domain/ports/repository"
	"telegram-referral-bot/internal/infra/db/sqlite"
	adminhttp "telegram-referral-bot/internal/infra/http"
	"telegram-referral-bot/internal/infra/logging"
	red "telegram-referral-bot/internal/infra/redis"
	"telegram-referral-bot/internal/infra/state"
	"telegram-referral-bot/internal/infra/telegram"
	"telegram-referral-bot/internal/usecase"
)

const bannerPath = "assets/banner.jpg"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log)

	// Credentials are fatal before any side effect; a missing channel only
	// warns, subscription checks will fail closed until it is set.
	if err := cfg.ValidateCredentials(); err != nil {
		logger.Fatal().Err(err).Msg("bot token not configured, set BOT_TOKEN")
	}
	if !cfg.ChannelConfigured() {
		logger.Warn().Msg("channel not configured, set CHANNEL_ID")
	}

	db, err := sqlite.Open(ctx, cfg.Database.Path)
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.Database.Path).Msg("open database")
	}
	defer db.Close()
	logger.Info().Str("path", cfg.Database.Path).Msg("database initialized")

	userRepo := sqlite.NewUserRepo(db)
	referralRepo := sqlite.NewReferralRepo(db, cfg.Referral.PointsPerReferral)

	var stateRepo repository.SessionStateRepository
	if cfg.Redis.URL != "" {
		redisRepo, err := red.NewStateRepo(ctx, cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis")
		}
		defer redisRepo.Close()
		stateRepo = redisRepo
		logger.Info().Msg("session state in redis")
	} else {
		stateRepo = state.NewMemoryRepo()
	}

	messenger, err := telegram.NewMessenger(cfg.Bot.Token)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram")
	}

	codec := usecase.NewLinkCodec(cfg.Bot.Username)
	subUC := usecase.NewSubscriptionUseCase(messenger, cfg.Channel.ID, logger)
	referralUC := usecase.NewReferralUseCase(userRepo, referralRepo, logger)
	onboardingUC := usecase.NewOnboardingUseCase(userRepo, referralUC, stateRepo, subUC, codec, logger)
	statsUC := usecase.NewStatsUseCase(userRepo, referralRepo, cfg.Admin.UserID, logger)

	facade := application.NewBotFacade(messenger, onboardingUC, referralUC, statsUC, codec, cfg.Channel.Link, bannerPath, logger)
	poller := telegram.NewPoller(messenger, facade, logger)

	if cfg.Admin.Port > 0 {
		srv := adminhttp.NewServer(cfg.Admin.Port, logger)
		go func() {
			if err := srv.Run(); err != nil {
				logger.Error().Err(err).Msg("admin http server")
			}
		}()
		defer func() { _ = srv.Shutdown(context.Background()) }()
	}

	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		<-sigc
		logger.Info().Msg("shutdown requested")
		cancel()
	}()

	if err := poller.Run(ctx); err != nil && err != context.Canceled {
		logger.Error().Err(err).Msg("polling stopped")
		os.Exit(1)
	}
	logger.Info().Msg("bot stopped")
}
