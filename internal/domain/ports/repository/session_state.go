package repository

import "context"

// OnboardingStep names the onboarding state machine positions. A user with no
// stored step is NEW (never seen) or ACTIVE (fully onboarded); the repository
// only tracks the two waiting states in between.
type OnboardingStep string

const (
	StepAwaitingSubscription OnboardingStep = "awaiting_subscription"
	StepAwaitingContact      OnboardingStep = "awaiting_contact"
)

// SessionStateRepository holds per-user onboarding progress between updates.
// Implementations may be in-memory (single process) or Redis-backed.
type SessionStateRepository interface {
	SetStep(ctx context.Context, tgID int64, step OnboardingStep) error
	// GetStep returns ok=false when no step is stored for the user.
	GetStep(ctx context.Context, tgID int64) (OnboardingStep, bool, error)
	ClearStep(ctx context.Context, tgID int64) error
}
