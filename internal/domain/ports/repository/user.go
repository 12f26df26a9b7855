package repository

import (
	"context"

	"telegram-referral-bot/internal/domain/model"
)

// UserRepository is the persistence port for user rows. Implementations own
// the store handle; callers never see connection management.
type UserRepository interface {
	// Create inserts the user if the id is unseen and is a no-op otherwise.
	// It never overwrites fields of an existing row.
	Create(ctx context.Context, u *model.User) error
	FindByTelegramID(ctx context.Context, tgID int64) (*model.User, error)
	SetSubscribed(ctx context.Context, tgID int64, subscribed bool) error
	SetPhoneNumber(ctx context.Context, tgID int64, phone string) error
	// ListIDs returns every known user id in insertion order. Broadcasts read
	// it once and treat the result as a snapshot.
	ListIDs(ctx context.Context) ([]int64, error)
	CountUsers(ctx context.Context) (int, error)
	CountSubscribed(ctx context.Context) (int, error)
	CountWithPhone(ctx context.Context) (int, error)
}
