package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"telegram-referral-bot/internal/domain/ports/adapter"
	"telegram-referral-bot/internal/domain/ports/repository"
	"telegram-referral-bot/internal/infra/metrics"
)

// PayloadKind selects what is dispatched to each recipient.
type PayloadKind int

const (
	PayloadText PayloadKind = iota
	PayloadPhoto
	// PayloadMediaSequence sends a lead photo, then a second photo carrying
	// the caption and an optional URL button.
	PayloadMediaSequence
)

type Payload struct {
	Kind          PayloadKind
	Text          string // message text or caption
	PhotoPath     string
	LeadPhotoPath string // media sequence only
	ButtonText    string
	ButtonURL     string
}

// Pacing holds the broadcast throughput tunables.
type Pacing struct {
	BatchSize       int
	BatchRest       time.Duration
	MessageDelay    time.Duration
	MediaPhotoDelay time.Duration
	MediaUserDelay  time.Duration
}

// Tally is the final outcome of a broadcast run.
type Tally struct {
	Total      int
	Successful int
	Failed     int
}

func (t Tally) SuccessRate() float64 {
	if t.Total == 0 {
		return 0
	}
	return float64(t.Successful) / float64(t.Total) * 100
}

// Sleeper abstracts the pacing sleeps so tests can count them without waiting.
type Sleeper func(ctx context.Context, d time.Duration) error

func RealSleeper(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Compile-time check
var _ BroadcastUseCase = (*broadcastUC)(nil)

// BroadcastUseCase paces a payload over the full user base: fixed inter-message
// delay inside a batch, a longer rest between batches. Best-effort: failures
// are counted and logged, never fatal; there is no progress checkpoint, so a
// rerun starts from scratch.
type BroadcastUseCase interface {
	Run(ctx context.Context, payload Payload) (Tally, error)
}

type broadcastUC struct {
	users  repository.UserRepository
	bot    adapter.MessengerAdapter
	pacing Pacing
	sleep  Sleeper
	log    *zerolog.Logger
}

func NewBroadcastUseCase(users repository.UserRepository, bot adapter.MessengerAdapter, pacing Pacing, sleep Sleeper, logger *zerolog.Logger) *broadcastUC {
	if sleep == nil {
		sleep = RealSleeper
	}
	return &broadcastUC{users: users, bot: bot, pacing: pacing, sleep: sleep, log: logger}
}

func (uc *broadcastUC) Run(ctx context.Context, payload Payload) (Tally, error) {
	// Snapshot semantics: users registering mid-run are not included.
	ids, err := uc.users.ListIDs(ctx)
	if err != nil {
		uc.log.Error().Err(err).Msg("failed to list broadcast recipients")
		return Tally{}, err
	}
	if len(ids) == 0 {
		uc.log.Warn().Msg("no users found in database")
		return Tally{}, nil
	}

	runID := uuid.NewString()
	tally := Tally{Total: len(ids)}
	totalBatches := (len(ids) + uc.pacing.BatchSize - 1) / uc.pacing.BatchSize

	uc.log.Info().
		Str("run_id", runID).
		Int("total", tally.Total).
		Int("batch_size", uc.pacing.BatchSize).
		Dur("batch_rest", uc.pacing.BatchRest).
		Msg("starting broadcast")

	for start := 0; start < len(ids); start += uc.pacing.BatchSize {
		end := start + uc.pacing.BatchSize
		if end > len(ids) {
			end = len(ids)
		}
		batch := ids[start:end]
		batchNum := start/uc.pacing.BatchSize + 1
		uc.log.Info().Str("run_id", runID).Int("batch", batchNum).Int("of", totalBatches).Int("size", len(batch)).Msg("batch start")

		for _, id := range batch {
			if err := uc.dispatch(ctx, id, payload); err != nil {
				tally.Failed++
				metrics.BroadcastSends.WithLabelValues("failure").Inc()
				uc.log.Warn().Err(err).Str("run_id", runID).Int64("tg_id", id).Msg("send failed")
			} else {
				tally.Successful++
				metrics.BroadcastSends.WithLabelValues("success").Inc()
				uc.log.Info().Str("run_id", runID).Int64("tg_id", id).Msg("sent")
			}
			if err := uc.sleep(ctx, uc.perUserDelay(payload)); err != nil {
				return tally, err
			}
		}

		// Rest between batches, not after the final one.
		if end < len(ids) {
			uc.log.Info().Str("run_id", runID).Dur("rest", uc.pacing.BatchRest).Msg("resting before next batch")
			if err := uc.sleep(ctx, uc.pacing.BatchRest); err != nil {
				return tally, err
			}
		}
	}

	uc.log.Info().
		Str("run_id", runID).
		Int("total", tally.Total).
		Int("successful", tally.Successful).
		Int("failed", tally.Failed).
		Float64("success_rate", tally.SuccessRate()).
		Msg("broadcast finished")
	return tally, nil
}

func (uc *broadcastUC) perUserDelay(p Payload) time.Duration {
	if p.Kind == PayloadMediaSequence {
		return uc.pacing.MediaUserDelay
	}
	return uc.pacing.MessageDelay
}

func (uc *broadcastUC) dispatch(ctx context.Context, chatID int64, p Payload) error {
	switch p.Kind {
	case PayloadPhoto:
		return uc.bot.SendPhoto(ctx, chatID, p.PhotoPath, p.Text, nil)
	case PayloadMediaSequence:
		if err := uc.bot.SendPhoto(ctx, chatID, p.LeadPhotoPath, "", nil); err != nil {
			return err
		}
		if err := uc.sleep(ctx, uc.pacing.MediaPhotoDelay); err != nil {
			return err
		}
		var rows [][]adapter.InlineButton
		if p.ButtonURL != "" {
			rows = [][]adapter.InlineButton{{{Text: p.ButtonText, URL: p.ButtonURL}}}
		}
		return uc.bot.SendPhoto(ctx, chatID, p.PhotoPath, p.Text, rows)
	default:
		return uc.bot.SendMessage(ctx, chatID, p.Text, adapter.MarkupNone)
	}
}
