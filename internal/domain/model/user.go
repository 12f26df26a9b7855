package model

import (
	"fmt"
	"strings"
	"time"

	"telegram-referral-bot/internal/domain"
)

// User is a domain entity representing a Telegram user known to the bot.
// The identifier is externally assigned (Telegram user id); rows are created
// on first contact and never deleted.
type User struct {
	TelegramID   int64
	Username     string
	FirstName    string
	LastName     string
	PhoneNumber  string // empty until the user shares a contact
	ReferrerID   *int64 // set at most once, on first contact, immutable after
	Points       int
	IsSubscribed bool
	CreatedAt    time.Time
}

func NewUser(tgID int64, username, firstName, lastName string, referrerID *int64) (*User, error) {
	if tgID <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	// Self-referral is dropped silently, not an error.
	if referrerID != nil && *referrerID == tgID {
		referrerID = nil
	}
	return &User{
		TelegramID: tgID,
		Username:   username,
		FirstName:  firstName,
		LastName:   lastName,
		ReferrerID: referrerID,
		CreatedAt:  time.Now(),
	}, nil
}

func (u *User) IsZero() bool { return u == nil || u.TelegramID == 0 }

func (u *User) HasPhone() bool { return u != nil && u.PhoneNumber != "" }

// FullName joins first and last name, falling back to a placeholder so that
// report lines never render empty.
func (u *User) FullName() string {
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name == "" {
		return fmt.Sprintf("User %d", u.TelegramID)
	}
	return name
}
