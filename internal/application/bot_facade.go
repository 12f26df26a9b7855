package application

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"telegram-referral-bot/internal/domain/ports/adapter"
	"telegram-referral-bot/internal/usecase"
)

// BotFacade composes the usecases behind the inbound event surface. The
// transport adapter parses updates and calls one facade method per event; the
// facade decides what to send back. Send failures are logged and swallowed so
// a misbehaving chat never stops the event loop.
type BotFacade struct {
	bot        adapter.MessengerAdapter
	onboarding usecase.OnboardingUseCase
	referrals  usecase.ReferralUseCase
	stats      usecase.StatsUseCase
	codec      *usecase.LinkCodec

	channelLink string
	bannerPath  string
	log         *zerolog.Logger
}

func NewBotFacade(
	bot adapter.MessengerAdapter,
	onboarding usecase.OnboardingUseCase,
	referrals usecase.ReferralUseCase,
	stats usecase.StatsUseCase,
	codec *usecase.LinkCodec,
	channelLink string,
	bannerPath string,
	logger *zerolog.Logger,
) *BotFacade {
	return &BotFacade{
		bot:         bot,
		onboarding:  onboarding,
		referrals:   referrals,
		stats:       stats,
		codec:       codec,
		channelLink: channelLink,
		bannerPath:  bannerPath,
		log:         logger,
	}
}

func (f *BotFacade) subscribeRows() [][]adapter.InlineButton {
	return [][]adapter.InlineButton{
		{{Text: LabelSubscribe, URL: f.channelLink}},
		{{Text: LabelCheckDone, Data: "check_subscription"}},
	}
}

// HandleStart processes /start with an optional deep-link parameter.
func (f *BotFacade) HandleStart(ctx context.Context, tgID int64, username, firstName, lastName, startParam string) {
	outcome, err := f.onboarding.Start(ctx, tgID, username, firstName, lastName, startParam)
	if err != nil {
		f.log.Error().Err(err).Int64("tg_id", tgID).Msg("start failed")
		return
	}

	switch outcome {
	case usecase.OutcomeSubscribePrompt:
		f.sendBannerOrText(ctx, tgID, welcomeText)
		f.send(ctx, tgID, func() error {
			return f.bot.SendButtons(ctx, tgID, subscriptionPromptText, f.subscribeRows())
		})
	case usecase.OutcomeContactPrompt:
		f.send(ctx, tgID, func() error {
			return f.bot.SendMessage(ctx, tgID, contactPromptText, adapter.MarkupContactRequest)
		})
	case usecase.OutcomeMainMenu:
		points, count := f.userStats(ctx, tgID)
		f.send(ctx, tgID, func() error {
			return f.bot.SendMessage(ctx, tgID, pointsText(points, count, f.codec.EncodeLink(tgID)), adapter.MarkupMainMenu)
		})
	}
}

// HandleCheckSubscription processes the "check again" callback.
func (f *BotFacade) HandleCheckSubscription(ctx context.Context, tgID int64, chatID int64, messageID int, callbackID string) {
	outcome, err := f.onboarding.ConfirmSubscription(ctx, tgID)
	if err != nil {
		f.log.Error().Err(err).Int64("tg_id", tgID).Msg("subscription confirmation failed")
		f.answer(ctx, callbackID, notSubscribedAlertText, true)
		return
	}

	switch outcome {
	case usecase.CheckStillUnsubscribed:
		// Transient warning only, no state change.
		f.answer(ctx, callbackID, notSubscribedAlertText, true)
	case usecase.CheckContactPrompt:
		f.answer(ctx, callbackID, subscriptionConfirmedToast, false)
		if err := f.bot.EditMessageText(ctx, chatID, messageID, subscribedEditText); err != nil {
			f.log.Warn().Err(err).Int64("tg_id", tgID).Msg("edit prompt failed")
		}
		f.send(ctx, tgID, func() error {
			return f.bot.SendMessage(ctx, tgID, contactPromptText, adapter.MarkupContactRequest)
		})
	case usecase.CheckMainMenu:
		f.answer(ctx, callbackID, subscriptionConfirmedToast, false)
		points, count := f.userStats(ctx, tgID)
		if err := f.bot.EditMessageText(ctx, chatID, messageID, readyText(f.codec.EncodeLink(tgID), count, points)); err != nil {
			f.log.Warn().Err(err).Int64("tg_id", tgID).Msg("edit prompt failed")
		}
		f.send(ctx, tgID, func() error {
			return f.bot.SendMessage(ctx, tgID, mainMenuText, adapter.MarkupMainMenu)
		})
	}
}

// HandleContact processes a shared contact payload.
func (f *BotFacade) HandleContact(ctx context.Context, tgID, contactUserID int64, phone string) {
	outcome, err := f.onboarding.SubmitContact(ctx, tgID, contactUserID, phone)
	if err != nil {
		f.log.Error().Err(err).Int64("tg_id", tgID).Msg("contact capture failed")
		return
	}

	switch outcome {
	case usecase.ContactRejected:
		f.send(ctx, tgID, func() error {
			return f.bot.SendMessage(ctx, tgID, contactRejectedText, adapter.MarkupContactRequest)
		})
	case usecase.ContactSaved:
		f.send(ctx, tgID, func() error {
			return f.bot.SendMessage(ctx, tgID, onboardedText(f.codec.EncodeLink(tgID)), adapter.MarkupMainMenu)
		})
	}
}

// HandleMenuText matches plain text against the known menu labels. Returns
// false when the text is not a menu selection.
func (f *BotFacade) HandleMenuText(ctx context.Context, tgID int64, text string) bool {
	link := f.codec.EncodeLink(tgID)
	switch text {
	case LabelReferralLink:
		if listed, err := f.referrals.ListForUser(ctx, tgID); err != nil {
			f.log.Error().Err(err).Int64("tg_id", tgID).Msg("listing referrals failed")
		} else {
			f.log.Debug().Int64("tg_id", tgID).Int("referrals", len(listed)).Msg("referral link requested")
		}
		f.sendBannerOrText(ctx, tgID, referralLinkText(link))
	case LabelMyPoints:
		points, count := f.userStats(ctx, tgID)
		f.send(ctx, tgID, func() error {
			return f.bot.SendMessage(ctx, tgID, pointsText(points, count, link), adapter.MarkupNone)
		})
	case LabelKnowledge:
		f.send(ctx, tgID, func() error {
			return f.bot.SendMessage(ctx, tgID, onboardedText(link), adapter.MarkupNone)
		})
	default:
		return false
	}
	return true
}

// HandleBackToMenu re-renders the main menu from its inline button.
func (f *BotFacade) HandleBackToMenu(ctx context.Context, tgID int64, callbackID string) {
	f.answer(ctx, callbackID, "", false)
	f.send(ctx, tgID, func() error {
		return f.bot.SendMessage(ctx, tgID, backToMenuText, adapter.MarkupMainMenu)
	})
}

// HandleAdminCommand processes /stats, /users and /admin. Returns false for
// unknown commands.
func (f *BotFacade) HandleAdminCommand(ctx context.Context, tgID int64, command string) bool {
	switch command {
	case "stats", "users", "admin":
	default:
		return false
	}

	if !f.stats.IsAdmin(tgID) {
		f.log.Warn().Int64("tg_id", tgID).Str("command", command).Msg("unauthorized admin command")
		f.send(ctx, tgID, func() error {
			return f.bot.SendMessage(ctx, tgID, adminDeniedText, adapter.MarkupNone)
		})
		return true
	}

	switch command {
	case "stats":
		f.send(ctx, tgID, func() error {
			return f.bot.SendMessage(ctx, tgID, statsPreparingText, adapter.MarkupNone)
		})
		f.deliverReport(ctx, tgID, func() (*usecase.Report, error) { return f.stats.StatsReport(ctx) })
	case "users":
		f.send(ctx, tgID, func() error {
			return f.bot.SendMessage(ctx, tgID, usersPreparingText, adapter.MarkupNone)
		})
		f.deliverReport(ctx, tgID, func() (*usecase.Report, error) { return f.stats.UsersReport(ctx) })
	case "admin":
		f.send(ctx, tgID, func() error {
			return f.bot.SendMessage(ctx, tgID, adminHelpText, adapter.MarkupNone)
		})
	}
	return true
}

func (f *BotFacade) deliverReport(ctx context.Context, tgID int64, build func() (*usecase.Report, error)) {
	report, err := build()
	if err != nil {
		f.log.Error().Err(err).Int64("tg_id", tgID).Msg("report generation failed")
		f.send(ctx, tgID, func() error {
			return f.bot.SendMessage(ctx, tgID, "❌ Xatolik yuz berdi.", adapter.MarkupNone)
		})
		return
	}
	// Always a file attachment, never inline.
	if err := f.bot.SendDocument(ctx, tgID, report.Filename, report.Content, report.Caption); err != nil {
		f.log.Error().Err(err).Int64("tg_id", tgID).Msg("report delivery failed")
		return
	}
	f.log.Info().Int64("tg_id", tgID).Str("file", report.Filename).Msg("report sent to admin")
}

// userStats reads points and referral count, falling back to zeros on store
// errors so menu rendering never fails outright.
func (f *BotFacade) userStats(ctx context.Context, tgID int64) (points, count int) {
	var err error
	if points, err = f.referrals.PointsOf(ctx, tgID); err != nil {
		f.log.Error().Err(err).Int64("tg_id", tgID).Msg("read points")
	}
	if count, err = f.referrals.CountForUser(ctx, tgID); err != nil {
		f.log.Error().Err(err).Int64("tg_id", tgID).Msg("read referral count")
	}
	return points, count
}

// sendBannerOrText sends the banner photo with the text as caption, or the
// text alone when the banner file is absent.
func (f *BotFacade) sendBannerOrText(ctx context.Context, tgID int64, text string) {
	if f.bannerPath != "" {
		if _, err := os.Stat(f.bannerPath); err == nil {
			if err := f.bot.SendPhoto(ctx, tgID, f.bannerPath, text, nil); err == nil {
				return
			}
			f.log.Error().Int64("tg_id", tgID).Str("banner", f.bannerPath).Msg("banner send failed, falling back to text")
		} else {
			f.log.Warn().Str("banner", f.bannerPath).Msg("banner not found")
		}
	}
	f.send(ctx, tgID, func() error {
		return f.bot.SendMessage(ctx, tgID, text, adapter.MarkupNone)
	})
}

func (f *BotFacade) send(ctx context.Context, tgID int64, fn func() error) {
	if err := fn(); err != nil {
		f.log.Error().Err(err).Int64("tg_id", tgID).Msg("send failed")
	}
}

func (f *BotFacade) answer(ctx context.Context, callbackID, text string, alert bool) {
	if err := f.bot.AnswerCallback(ctx, callbackID, text, alert); err != nil {
		f.log.Warn().Err(err).Msg("answer callback failed")
	}
}
