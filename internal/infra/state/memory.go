package state

import (
	"context"
	"sync"

	"telegram-referral-bot/internal/domain/ports/repository"
)

var _ repository.SessionStateRepository = (*MemoryRepo)(nil)

// MemoryRepo keeps onboarding steps in process memory. State is lost on
// restart, which is acceptable: a user simply re-runs /start and the entry
// logic is idempotent.
type MemoryRepo struct {
	mu    sync.RWMutex
	steps map[int64]repository.OnboardingStep
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{steps: make(map[int64]repository.OnboardingStep)}
}

func (m *MemoryRepo) SetStep(ctx context.Context, tgID int64, step repository.OnboardingStep) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps[tgID] = step
	return nil
}

func (m *MemoryRepo) GetStep(ctx context.Context, tgID int64) (repository.OnboardingStep, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	step, ok := m.steps[tgID]
	return step, ok, nil
}

func (m *MemoryRepo) ClearStep(ctx context.Context, tgID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.steps, tgID)
	return nil
}
