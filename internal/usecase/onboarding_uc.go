package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"telegram-referral-bot/internal/domain"
	"telegram-referral-bot/internal/domain/model"
	"telegram-referral-bot/internal/domain/ports/repository"
	"telegram-referral-bot/internal/infra/logging"
	"telegram-referral-bot/internal/infra/metrics"
)

// StartOutcome tells the transport what to render after /start.
type StartOutcome int

const (
	// OutcomeSubscribePrompt: user is not subscribed; show the welcome text
	// and the subscribe keyboard.
	OutcomeSubscribePrompt StartOutcome = iota
	// OutcomeContactPrompt: subscribed but no phone captured yet.
	OutcomeContactPrompt
	// OutcomeMainMenu: fully onboarded; render the menu with current stats.
	OutcomeMainMenu
)

// CheckOutcome is the result of a "check again" subscription trigger.
type CheckOutcome int

const (
	// CheckStillUnsubscribed: remain in AWAITING_SUBSCRIPTION, transient warning.
	CheckStillUnsubscribed CheckOutcome = iota
	// CheckContactPrompt: subscription confirmed, phone still missing.
	CheckContactPrompt
	// CheckMainMenu: subscription confirmed and phone already captured.
	CheckMainMenu
)

// ContactOutcome is the result of a contact-share payload.
type ContactOutcome int

const (
	// ContactRejected: the shared contact does not belong to the sender.
	ContactRejected ContactOutcome = iota
	// ContactSaved: phone persisted, user is now ACTIVE.
	ContactSaved
)

// Compile-time check
var _ OnboardingUseCase = (*onboardingUC)(nil)

// OnboardingUseCase drives a user through registration, subscription
// verification and contact capture. Updates are processed one at a time, so
// the read-then-write sequences below are not raced in practice.
type OnboardingUseCase interface {
	Start(ctx context.Context, tgID int64, username, firstName, lastName, startParam string) (StartOutcome, error)
	ConfirmSubscription(ctx context.Context, tgID int64) (CheckOutcome, error)
	SubmitContact(ctx context.Context, tgID, contactUserID int64, phone string) (ContactOutcome, error)
	// AwaitingContact reports whether the user is parked in AWAITING_CONTACT.
	AwaitingContact(ctx context.Context, tgID int64) bool
}

type onboardingUC struct {
	users     repository.UserRepository
	referrals ReferralUseCase
	state     repository.SessionStateRepository
	subs      SubscriptionUseCase
	codec     *LinkCodec
	log       *zerolog.Logger
}

func NewOnboardingUseCase(
	users repository.UserRepository,
	referrals ReferralUseCase,
	state repository.SessionStateRepository,
	subs SubscriptionUseCase,
	codec *LinkCodec,
	logger *zerolog.Logger,
) *onboardingUC {
	return &onboardingUC{
		users:     users,
		referrals: referrals,
		state:     state,
		subs:      subs,
		codec:     codec,
		log:       logger,
	}
}

func (o *onboardingUC) Start(ctx context.Context, tgID int64, username, firstName, lastName, startParam string) (StartOutcome, error) {
	defer logging.TraceDuration(o.log, "OnboardingUC.Start")()

	var referrerID *int64
	if startParam != "" {
		if id, ok := o.codec.DecodeStartParam(startParam); ok && id != tgID {
			// Anyone can craft a start parameter, and the users table enforces
			// the referrer foreign key. A parameter naming an unknown user is
			// normalized away so registration still succeeds.
			if _, err := o.users.FindByTelegramID(ctx, id); err == nil {
				referrerID = &id
			} else if !errors.Is(err, domain.ErrNotFound) {
				o.log.Error().Err(err).Int64("tg_id", tgID).Int64("referrer_id", id).Msg("referrer lookup failed, dropping attribution")
			} else {
				o.log.Info().Int64("tg_id", tgID).Int64("referrer_id", id).Msg("unknown referrer in start parameter ignored")
			}
		}
	}

	nu, err := model.NewUser(tgID, username, firstName, lastName, referrerID)
	if err != nil {
		return 0, err
	}
	// Insert-if-absent: re-running entry for a known id never overwrites
	// stored fields or referral attribution.
	if err := o.users.Create(ctx, nu); err != nil {
		return 0, fmt.Errorf("register user: %w", err)
	}

	if !o.subs.IsSubscribed(ctx, tgID) {
		if err := o.state.SetStep(ctx, tgID, repository.StepAwaitingSubscription); err != nil {
			return 0, fmt.Errorf("set state: %w", err)
		}
		metrics.OnboardingTransitions.WithLabelValues("awaiting_subscription").Inc()
		return OutcomeSubscribePrompt, nil
	}

	if err := o.confirmSubscribed(ctx, tgID); err != nil {
		return 0, err
	}
	return o.contactBranch(ctx, tgID)
}

func (o *onboardingUC) ConfirmSubscription(ctx context.Context, tgID int64) (CheckOutcome, error) {
	defer logging.TraceDuration(o.log, "OnboardingUC.ConfirmSubscription")()

	if !o.subs.IsSubscribed(ctx, tgID) {
		return CheckStillUnsubscribed, nil
	}
	if err := o.confirmSubscribed(ctx, tgID); err != nil {
		return 0, err
	}
	outcome, err := o.contactBranch(ctx, tgID)
	if err != nil {
		return 0, err
	}
	if outcome == OutcomeContactPrompt {
		return CheckContactPrompt, nil
	}
	return CheckMainMenu, nil
}

// confirmSubscribed marks the subscription flag and attributes the referral,
// the first and only attribution point: credit requires a verified
// subscription, not merely a clicked link.
func (o *onboardingUC) confirmSubscribed(ctx context.Context, tgID int64) error {
	if err := o.users.SetSubscribed(ctx, tgID, true); err != nil {
		return fmt.Errorf("mark subscribed: %w", err)
	}
	u, err := o.users.FindByTelegramID(ctx, tgID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}
	if u.ReferrerID != nil {
		if _, err := o.referrals.Attribute(ctx, *u.ReferrerID, tgID); err != nil {
			// Attribution failure must not block onboarding.
			o.log.Error().Err(err).Int64("tg_id", tgID).Msg("referral attribution failed")
		}
	}
	return nil
}

func (o *onboardingUC) contactBranch(ctx context.Context, tgID int64) (StartOutcome, error) {
	u, err := o.users.FindByTelegramID(ctx, tgID)
	if err != nil {
		return 0, fmt.Errorf("load user: %w", err)
	}
	if u.HasPhone() {
		if err := o.state.ClearStep(ctx, tgID); err != nil {
			return 0, fmt.Errorf("clear state: %w", err)
		}
		metrics.OnboardingTransitions.WithLabelValues("active").Inc()
		return OutcomeMainMenu, nil
	}
	if err := o.state.SetStep(ctx, tgID, repository.StepAwaitingContact); err != nil {
		return 0, fmt.Errorf("set state: %w", err)
	}
	metrics.OnboardingTransitions.WithLabelValues("awaiting_contact").Inc()
	return OutcomeContactPrompt, nil
}

func (o *onboardingUC) SubmitContact(ctx context.Context, tgID, contactUserID int64, phone string) (ContactOutcome, error) {
	defer logging.TraceDuration(o.log, "OnboardingUC.SubmitContact")()

	if contactUserID != tgID {
		o.log.Info().Int64("tg_id", tgID).Int64("contact_id", contactUserID).Msg("foreign contact rejected")
		return ContactRejected, nil
	}
	if err := o.users.SetPhoneNumber(ctx, tgID, phone); err != nil {
		return 0, fmt.Errorf("save phone: %w", err)
	}
	if err := o.state.ClearStep(ctx, tgID); err != nil {
		return 0, fmt.Errorf("clear state: %w", err)
	}
	metrics.OnboardingTransitions.WithLabelValues("active").Inc()
	o.log.Info().Int64("tg_id", tgID).Msg("contact saved")
	return ContactSaved, nil
}

func (o *onboardingUC) AwaitingContact(ctx context.Context, tgID int64) bool {
	step, ok, err := o.state.GetStep(ctx, tgID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		o.log.Error().Err(err).Int64("tg_id", tgID).Msg("read session state")
		return false
	}
	return ok && step == repository.StepAwaitingContact
}
