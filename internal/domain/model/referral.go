package model

import "time"

// Referral records that one user brought in another. At most one row exists
// per ordered (referrer, referred) pair; rows are created exactly once, when
// the referred user's channel subscription is first confirmed, and are never
// mutated or deleted.
type Referral struct {
	ID         int64
	ReferrerID int64
	ReferredID int64
	CreatedAt  time.Time
}

// ReferredUser is a row of the per-user referral listing: the referred user's
// identity joined with when the referral was credited.
type ReferredUser struct {
	TelegramID int64
	Username   string
	FirstName  string
	CreatedAt  time.Time
}

// ReferrerRank is one leaderboard entry, ranked by referral count.
type ReferrerRank struct {
	TelegramID    int64
	Username      string
	FirstName     string
	LastName      string
	PhoneNumber   string
	Points        int
	ReferralCount int
}

// BotTotals holds the on-demand aggregate counters used by admin reports.
type BotTotals struct {
	TotalUsers      int
	TotalReferrals  int
	SubscribedUsers int
	UsersWithPhone  int
}

// SubscriptionRate returns subscribed users as a percentage of all users,
// zero when there are no users.
func (t BotTotals) SubscriptionRate() float64 {
	if t.TotalUsers == 0 {
		return 0
	}
	return float64(t.SubscribedUsers) / float64(t.TotalUsers) * 100
}

// PhoneRate returns phone-captured users as a percentage of all users.
func (t BotTotals) PhoneRate() float64 {
	if t.TotalUsers == 0 {
		return 0
	}
	return float64(t.UsersWithPhone) / float64(t.TotalUsers) * 100
}
