package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"telegram-referral-bot/internal/domain"
	"telegram-referral-bot/internal/domain/model"
	"telegram-referral-bot/internal/domain/ports/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

type UserRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

type userRow struct {
	TelegramID   int64          `db:"user_id"`
	Username     sql.NullString `db:"username"`
	FirstName    sql.NullString `db:"first_name"`
	LastName     sql.NullString `db:"last_name"`
	PhoneNumber  sql.NullString `db:"phone_number"`
	ReferrerID   *int64         `db:"referrer_id"`
	Points       int            `db:"points"`
	IsSubscribed bool           `db:"is_subscribed"`
	CreatedAt    time.Time      `db:"created_at"`
}

func (r userRow) toModel() *model.User {
	return &model.User{
		TelegramID:   r.TelegramID,
		Username:     r.Username.String,
		FirstName:    r.FirstName.String,
		LastName:     r.LastName.String,
		PhoneNumber:  r.PhoneNumber.String,
		ReferrerID:   r.ReferrerID,
		Points:       r.Points,
		IsSubscribed: r.IsSubscribed,
		CreatedAt:    r.CreatedAt,
	}
}

func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	createdAt := u.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	// OR IGNORE keeps re-registration a no-op: existing rows are never
	// overwritten and attribution stays immutable.
	query, args, err := sq.
		Insert("users").
		Options("OR IGNORE").
		SetMap(map[string]interface{}{
			"user_id":     u.TelegramID,
			"username":    u.Username,
			"first_name":  u.FirstName,
			"last_name":   u.LastName,
			"referrer_id": u.ReferrerID,
			"created_at":  createdAt,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build user insert: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepo) FindByTelegramID(ctx context.Context, tgID int64) (*model.User, error) {
	query, args, err := sq.
		Select("user_id", "username", "first_name", "last_name", "phone_number",
			"referrer_id", "points", "is_subscribed", "created_at").
		From("users").
		Where(sq.Eq{"user_id": tgID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build user select: %w", err)
	}

	var row userRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	return row.toModel(), nil
}

func (r *UserRepo) SetSubscribed(ctx context.Context, tgID int64, subscribed bool) error {
	query, args, err := sq.
		Update("users").
		Set("is_subscribed", subscribed).
		Where(sq.Eq{"user_id": tgID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build subscription update: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update subscription: %w", err)
	}
	return nil
}

func (r *UserRepo) SetPhoneNumber(ctx context.Context, tgID int64, phone string) error {
	query, args, err := sq.
		Update("users").
		Set("phone_number", phone).
		Where(sq.Eq{"user_id": tgID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build phone update: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update phone: %w", err)
	}
	return nil
}

func (r *UserRepo) ListIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, `SELECT user_id FROM users ORDER BY rowid`); err != nil {
		return nil, fmt.Errorf("list user ids: %w", err)
	}
	return ids, nil
}

func (r *UserRepo) CountUsers(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM users`)
}

func (r *UserRepo) CountSubscribed(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM users WHERE is_subscribed = 1`)
}

func (r *UserRepo) CountWithPhone(ctx context.Context) (int, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM users WHERE phone_number IS NOT NULL AND phone_number != ''`)
}

func (r *UserRepo) count(ctx context.Context, query string) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, query); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
