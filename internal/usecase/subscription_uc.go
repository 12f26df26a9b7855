package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"telegram-referral-bot/internal/domain/ports/adapter"
	"telegram-referral-bot/internal/infra/metrics"
)

// SubscriptionStatus is the three-valued verdict of a channel membership
// check. Callers that need a boolean apply the fail-closed mapping themselves
// so the policy is visible at the call site.
type SubscriptionStatus int

const (
	Subscribed SubscriptionStatus = iota
	NotSubscribed
	CheckFailed
)

func (s SubscriptionStatus) String() string {
	switch s {
	case Subscribed:
		return "subscribed"
	case NotSubscribed:
		return "not_subscribed"
	default:
		return "check_failed"
	}
}

// Compile-time check
var _ SubscriptionUseCase = (*subscriptionUC)(nil)

type SubscriptionUseCase interface {
	Check(ctx context.Context, userID int64) SubscriptionStatus
	// IsSubscribed maps CheckFailed to false (fail-closed).
	IsSubscribed(ctx context.Context, userID int64) bool
}

type subscriptionUC struct {
	bot       adapter.MessengerAdapter
	channelID string
	log       *zerolog.Logger
}

func NewSubscriptionUseCase(bot adapter.MessengerAdapter, channelID string, logger *zerolog.Logger) *subscriptionUC {
	return &subscriptionUC{bot: bot, channelID: channelID, log: logger}
}

func (s *subscriptionUC) Check(ctx context.Context, userID int64) SubscriptionStatus {
	status, err := s.bot.GetChatMember(ctx, s.channelID, userID)
	if err != nil {
		// Bad request usually means the bot is not an admin of the channel.
		s.log.Error().Err(err).Int64("tg_id", userID).Str("channel", s.channelID).
			Msg("membership check failed; make sure the bot is a channel admin")
		metrics.SubscriptionChecks.WithLabelValues(CheckFailed.String()).Inc()
		return CheckFailed
	}

	verdict := NotSubscribed
	switch status {
	case adapter.StatusMember, adapter.StatusAdministrator, adapter.StatusCreator:
		verdict = Subscribed
	}
	if verdict != Subscribed {
		s.log.Info().Int64("tg_id", userID).Str("status", string(status)).Msg("user not subscribed")
	}
	metrics.SubscriptionChecks.WithLabelValues(verdict.String()).Inc()
	return verdict
}

func (s *subscriptionUC) IsSubscribed(ctx context.Context, userID int64) bool {
	// CheckFailed counts as not subscribed: credit is denied whenever the
	// check cannot be performed.
	return s.Check(ctx, userID) == Subscribed
}
