package repository

import (
	"context"

	"telegram-referral-bot/internal/domain/model"
)

// ReferralRepository is the persistence port for referral attribution.
type ReferralRepository interface {
	// Create records the (referrer, referred) pair and awards the per-referral
	// points to the referrer in the same statement scope. A second call for
	// the same pair is a no-op returning created=false; points are awarded
	// exactly once.
	Create(ctx context.Context, referrerID, referredID int64) (created bool, err error)
	CountByReferrer(ctx context.Context, referrerID int64) (int, error)
	ListByReferrer(ctx context.Context, referrerID int64) ([]model.ReferredUser, error)
	CountAll(ctx context.Context) (int, error)
	// TopReferrers ranks users by referral count descending; ties break on
	// first name ascending, then user id, so listings are deterministic.
	TopReferrers(ctx context.Context, limit int) ([]model.ReferrerRank, error)
}
