package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"telegram-referral-bot/internal/config"
	"telegram-referral-bot/internal/domain/ports/repository"
)

var _ repository.SessionStateRepository = (*StateRepo)(nil)

// StateRepo keeps onboarding steps in Redis so state survives restarts.
// Selected when redis.url is configured; otherwise the in-memory repo is used.
type StateRepo struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStateRepo(ctx context.Context, cfg config.RedisConfig) (*StateRepo, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}
	if cfg.DB != 0 {
		opts.DB = cfg.DB
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &StateRepo{client: client, ttl: cfg.TTL}, nil
}

func (s *StateRepo) key(tgID int64) string {
	return fmt.Sprintf("onboarding_step:%d", tgID)
}

func (s *StateRepo) SetStep(ctx context.Context, tgID int64, step repository.OnboardingStep) error {
	return s.client.Set(ctx, s.key(tgID), string(step), s.ttl).Err()
}

func (s *StateRepo) GetStep(ctx context.Context, tgID int64) (repository.OnboardingStep, bool, error) {
	val, err := s.client.Get(ctx, s.key(tgID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return repository.OnboardingStep(val), true, nil
}

func (s *StateRepo) ClearStep(ctx context.Context, tgID int64) error {
	return s.client.Del(ctx, s.key(tgID)).Err()
}

func (s *StateRepo) Close() error {
	return s.client.Close()
}
