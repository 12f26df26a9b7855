package usecase

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"telegram-referral-bot/internal/domain/model"
	"telegram-referral-bot/internal/domain/ports/repository"
	"telegram-referral-bot/internal/infra/metrics"
)

// LinkCodec encodes a user id into a shareable deep link and decodes the
// start parameter back. Decoding malformed input is a normal outcome, never
// an error.
type LinkCodec struct {
	botUsername string
}

func NewLinkCodec(botUsername string) *LinkCodec {
	return &LinkCodec{botUsername: botUsername}
}

func (c *LinkCodec) EncodeLink(userID int64) string {
	return fmt.Sprintf("https://t.me/%s?start=%d", c.botUsername, userID)
}

func (c *LinkCodec) DecodeStartParam(token string) (int64, bool) {
	id, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Compile-time check
var _ ReferralUseCase = (*referralUC)(nil)

// ReferralUseCase exposes referral attribution and per-user referral stats.
type ReferralUseCase interface {
	// Attribute credits referrerID with referredID. The second call for the
	// same pair is a no-op; points are awarded exactly once.
	Attribute(ctx context.Context, referrerID, referredID int64) (bool, error)
	CountForUser(ctx context.Context, userID int64) (int, error)
	ListForUser(ctx context.Context, userID int64) ([]model.ReferredUser, error)
	PointsOf(ctx context.Context, userID int64) (int, error)
}

type referralUC struct {
	users     repository.UserRepository
	referrals repository.ReferralRepository
	log       *zerolog.Logger
}

func NewReferralUseCase(users repository.UserRepository, referrals repository.ReferralRepository, logger *zerolog.Logger) *referralUC {
	return &referralUC{users: users, referrals: referrals, log: logger}
}

func (r *referralUC) Attribute(ctx context.Context, referrerID, referredID int64) (bool, error) {
	if referrerID == referredID {
		return false, nil
	}
	created, err := r.referrals.Create(ctx, referrerID, referredID)
	if err != nil {
		return false, fmt.Errorf("create referral: %w", err)
	}
	if created {
		metrics.ReferralsAttributed.Inc()
		r.log.Info().Int64("referrer_id", referrerID).Int64("referred_id", referredID).Msg("referral attributed")
	}
	return created, nil
}

func (r *referralUC) CountForUser(ctx context.Context, userID int64) (int, error) {
	return r.referrals.CountByReferrer(ctx, userID)
}

func (r *referralUC) ListForUser(ctx context.Context, userID int64) ([]model.ReferredUser, error) {
	return r.referrals.ListByReferrer(ctx, userID)
}

func (r *referralUC) PointsOf(ctx context.Context, userID int64) (int, error) {
	u, err := r.users.FindByTelegramID(ctx, userID)
	if err != nil {
		return 0, err
	}
	return u.Points, nil
}
