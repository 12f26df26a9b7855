package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"telegram-referral-bot/internal/domain"
	"telegram-referral-bot/internal/domain/model"
	"telegram-referral-bot/internal/domain/ports/adapter"
	"telegram-referral-bot/internal/domain/ports/repository"
)

// newTestLogger returns a silent logger for unit tests.
func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// memUserRepo is a small in-memory implementation used by unit tests.
type memUserRepo struct {
	mu    sync.RWMutex
	store map[int64]*model.User
	order []int64 // insertion order for ListIDs

	listErr error // simulate listing failures
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{store: make(map[int64]*model.User)}
}

var _ repository.UserRepository = (*memUserRepo)(nil)

func (m *memUserRepo) Create(ctx context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[u.TelegramID]; ok {
		return nil // insert-if-absent
	}
	cp := *u
	m.store[u.TelegramID] = &cp
	m.order = append(m.order, u.TelegramID)
	return nil
}

// seed installs a user row directly, bypassing insert-if-absent.
func (m *memUserRepo) seed(u model.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[u.TelegramID]; !ok {
		m.order = append(m.order, u.TelegramID)
	}
	m.store[u.TelegramID] = &u
}

func (m *memUserRepo) FindByTelegramID(ctx context.Context, tgID int64) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.store[tgID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) SetSubscribed(ctx context.Context, tgID int64, subscribed bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.store[tgID]; ok {
		u.IsSubscribed = subscribed
	}
	return nil
}

func (m *memUserRepo) SetPhoneNumber(ctx context.Context, tgID int64, phone string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.store[tgID]; ok {
		u.PhoneNumber = phone
	}
	return nil
}

func (m *memUserRepo) ListIDs(ctx context.Context) ([]int64, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]int64, len(m.order))
	copy(out, m.order)
	return out, nil
}

func (m *memUserRepo) CountUsers(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.store), nil
}

func (m *memUserRepo) CountSubscribed(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, u := range m.store {
		if u.IsSubscribed {
			n++
		}
	}
	return n, nil
}

func (m *memUserRepo) CountWithPhone(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, u := range m.store {
		if u.PhoneNumber != "" {
			n++
		}
	}
	return n, nil
}

// memReferralRepo keeps referral pairs in memory and awards points through
// the paired user repo, mirroring the transactional store.
type memReferralRepo struct {
	mu    sync.Mutex
	pairs map[string]model.Referral
	seq   []string
	users *memUserRepo

	pointsPerReferral int
}

func newMemReferralRepo(users *memUserRepo) *memReferralRepo {
	return &memReferralRepo{
		pairs:             make(map[string]model.Referral),
		users:             users,
		pointsPerReferral: 1,
	}
}

var _ repository.ReferralRepository = (*memReferralRepo)(nil)

func pairKey(referrerID, referredID int64) string {
	return fmt.Sprintf("%d:%d", referrerID, referredID)
}

func (m *memReferralRepo) Create(ctx context.Context, referrerID, referredID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := pairKey(referrerID, referredID)
	if _, ok := m.pairs[key]; ok {
		return false, nil
	}
	m.pairs[key] = model.Referral{
		ReferrerID: referrerID,
		ReferredID: referredID,
		CreatedAt:  time.Now(),
	}
	m.seq = append(m.seq, key)

	m.users.mu.Lock()
	if u, ok := m.users.store[referrerID]; ok {
		u.Points += m.pointsPerReferral
	}
	m.users.mu.Unlock()
	return true, nil
}

func (m *memReferralRepo) CountByReferrer(ctx context.Context, referrerID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.pairs {
		if r.ReferrerID == referrerID {
			n++
		}
	}
	return n, nil
}

func (m *memReferralRepo) ListByReferrer(ctx context.Context, referrerID int64) ([]model.ReferredUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.ReferredUser
	for i := len(m.seq) - 1; i >= 0; i-- {
		r := m.pairs[m.seq[i]]
		if r.ReferrerID != referrerID {
			continue
		}
		ru := model.ReferredUser{TelegramID: r.ReferredID, CreatedAt: r.CreatedAt}
		if u, err := m.users.FindByTelegramID(ctx, r.ReferredID); err == nil {
			ru.Username = u.Username
			ru.FirstName = u.FirstName
		}
		out = append(out, ru)
	}
	return out, nil
}

func (m *memReferralRepo) CountAll(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pairs), nil
}

func (m *memReferralRepo) TopReferrers(ctx context.Context, limit int) ([]model.ReferrerRank, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[int64]int)
	for _, r := range m.pairs {
		counts[r.ReferrerID]++
	}
	var out []model.ReferrerRank
	for id, n := range counts {
		rank := model.ReferrerRank{TelegramID: id, ReferralCount: n}
		if u, err := m.users.FindByTelegramID(ctx, id); err == nil {
			rank.Username = u.Username
			rank.FirstName = u.FirstName
			rank.LastName = u.LastName
			rank.PhoneNumber = u.PhoneNumber
			rank.Points = u.Points
		}
		out = append(out, rank)
	}
	// Count descending, then first name, then id.
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			a, b := out[i], out[j]
			swap := false
			switch {
			case b.ReferralCount > a.ReferralCount:
				swap = true
			case b.ReferralCount == a.ReferralCount && b.FirstName < a.FirstName:
				swap = true
			case b.ReferralCount == a.ReferralCount && b.FirstName == a.FirstName && b.TelegramID < a.TelegramID:
				swap = true
			}
			if swap {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// memStateRepo holds onboarding steps for tests.
type memStateRepo struct {
	mu    sync.Mutex
	steps map[int64]repository.OnboardingStep
}

func newMemStateRepo() *memStateRepo {
	return &memStateRepo{steps: make(map[int64]repository.OnboardingStep)}
}

var _ repository.SessionStateRepository = (*memStateRepo)(nil)

func (m *memStateRepo) SetStep(ctx context.Context, tgID int64, step repository.OnboardingStep) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps[tgID] = step
	return nil
}

func (m *memStateRepo) GetStep(ctx context.Context, tgID int64) (repository.OnboardingStep, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	step, ok := m.steps[tgID]
	return step, ok, nil
}

func (m *memStateRepo) ClearStep(ctx context.Context, tgID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.steps, tgID)
	return nil
}

type sentMessage struct {
	ChatID int64
	Text   string
	Markup adapter.ReplyMarkup
}

type sentPhoto struct {
	ChatID    int64
	PhotoPath string
	Caption   string
	Rows      [][]adapter.InlineButton
}

// mockMessenger records every outbound call; per-method hooks let tests
// inject failures.
type mockMessenger struct {
	mu       sync.Mutex
	Messages []sentMessage
	Photos   []sentPhoto

	SendMessageFunc   func(ctx context.Context, chatID int64, text string, markup adapter.ReplyMarkup) error
	SendPhotoFunc     func(ctx context.Context, chatID int64, photoPath, caption string, rows [][]adapter.InlineButton) error
	GetChatMemberFunc func(ctx context.Context, channelID string, userID int64) (adapter.MemberStatus, error)
}

var _ adapter.MessengerAdapter = (*mockMessenger)(nil)

func (m *mockMessenger) SendMessage(ctx context.Context, chatID int64, text string, markup adapter.ReplyMarkup) error {
	if m.SendMessageFunc != nil {
		if err := m.SendMessageFunc(ctx, chatID, text, markup); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = append(m.Messages, sentMessage{ChatID: chatID, Text: text, Markup: markup})
	return nil
}

func (m *mockMessenger) SendButtons(ctx context.Context, chatID int64, text string, rows [][]adapter.InlineButton) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = append(m.Messages, sentMessage{ChatID: chatID, Text: text})
	return nil
}

func (m *mockMessenger) SendPhoto(ctx context.Context, chatID int64, photoPath, caption string, rows [][]adapter.InlineButton) error {
	if m.SendPhotoFunc != nil {
		if err := m.SendPhotoFunc(ctx, chatID, photoPath, caption, rows); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Photos = append(m.Photos, sentPhoto{ChatID: chatID, PhotoPath: photoPath, Caption: caption, Rows: rows})
	return nil
}

func (m *mockMessenger) SendDocument(ctx context.Context, chatID int64, filename string, content []byte, caption string) error {
	return nil
}

func (m *mockMessenger) EditMessageText(ctx context.Context, chatID int64, messageID int, text string) error {
	return nil
}

func (m *mockMessenger) AnswerCallback(ctx context.Context, callbackID, text string, showAlert bool) error {
	return nil
}

func (m *mockMessenger) GetChatMember(ctx context.Context, channelID string, userID int64) (adapter.MemberStatus, error) {
	if m.GetChatMemberFunc != nil {
		return m.GetChatMemberFunc(ctx, channelID, userID)
	}
	return adapter.StatusLeft, nil
}

func (m *mockMessenger) sentTo(chatID int64) []sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []sentMessage
	for _, s := range m.Messages {
		if s.ChatID == chatID {
			out = append(out, s)
		}
	}
	return out
}
