package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"telegram-referral-bot/internal/domain/model"
	"telegram-referral-bot/internal/domain/ports/repository"
)

var _ repository.ReferralRepository = (*ReferralRepo)(nil)

type ReferralRepo struct {
	db                *sqlx.DB
	pointsPerReferral int
}

func NewReferralRepo(db *sqlx.DB, pointsPerReferral int) *ReferralRepo {
	return &ReferralRepo{db: db, pointsPerReferral: pointsPerReferral}
}

// Create inserts the referral pair and awards points in one transaction.
// The unique index on (referrer_id, referred_id) plus OR IGNORE makes the
// whole operation idempotent: a repeated pair changes nothing, including the
// referrer's points.
func (r *ReferralRepo) Create(ctx context.Context, referrerID, referredID int64) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	insert, args, err := sq.
		Insert("referrals").
		Options("OR IGNORE").
		SetMap(map[string]interface{}{
			"referrer_id": referrerID,
			"referred_id": referredID,
			"created_at":  time.Now().UTC(),
		}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build referral insert: %w", err)
	}
	res, err := tx.ExecContext(ctx, insert, args...)
	if err != nil {
		return false, fmt.Errorf("insert referral: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		// Pair already recorded; nothing to award.
		return false, nil
	}

	award, args, err := sq.
		Update("users").
		Set("points", sq.Expr("points + ?", r.pointsPerReferral)).
		Where(sq.Eq{"user_id": referrerID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build points update: %w", err)
	}
	if _, err := tx.ExecContext(ctx, award, args...); err != nil {
		return false, fmt.Errorf("award points: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit referral: %w", err)
	}
	return true, nil
}

func (r *ReferralRepo) CountByReferrer(ctx context.Context, referrerID int64) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM referrals WHERE referrer_id = ?`, referrerID); err != nil {
		return 0, fmt.Errorf("count referrals: %w", err)
	}
	return n, nil
}

type referredRow struct {
	TelegramID int64          `db:"user_id"`
	Username   sql.NullString `db:"username"`
	FirstName  sql.NullString `db:"first_name"`
	CreatedAt  time.Time      `db:"created_at"`
}

func (r *ReferralRepo) ListByReferrer(ctx context.Context, referrerID int64) ([]model.ReferredUser, error) {
	const query = `
SELECT u.user_id, u.username, u.first_name, r.created_at
  FROM referrals r
  JOIN users u ON r.referred_id = u.user_id
 WHERE r.referrer_id = ?
 ORDER BY r.created_at DESC`

	var rows []referredRow
	if err := r.db.SelectContext(ctx, &rows, query, referrerID); err != nil {
		return nil, fmt.Errorf("list referrals: %w", err)
	}
	out := make([]model.ReferredUser, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.ReferredUser{
			TelegramID: row.TelegramID,
			Username:   row.Username.String,
			FirstName:  row.FirstName.String,
			CreatedAt:  row.CreatedAt,
		})
	}
	return out, nil
}

func (r *ReferralRepo) CountAll(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM referrals`); err != nil {
		return 0, fmt.Errorf("count all referrals: %w", err)
	}
	return n, nil
}

type rankRow struct {
	TelegramID    int64          `db:"user_id"`
	Username      sql.NullString `db:"username"`
	FirstName     sql.NullString `db:"first_name"`
	LastName      sql.NullString `db:"last_name"`
	PhoneNumber   sql.NullString `db:"phone_number"`
	Points        int            `db:"points"`
	ReferralCount int            `db:"referral_count"`
}

func (r *ReferralRepo) TopReferrers(ctx context.Context, limit int) ([]model.ReferrerRank, error) {
	builder := sq.
		Select("u.user_id", "u.username", "u.first_name", "u.last_name",
			"u.phone_number", "u.points", "COUNT(r.id) AS referral_count").
		From("users u").
		Join("referrals r ON u.user_id = r.referrer_id").
		GroupBy("u.user_id").
		OrderBy("referral_count DESC", "u.first_name ASC", "u.user_id ASC")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build leaderboard query: %w", err)
	}

	var rows []rankRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select leaderboard: %w", err)
	}
	out := make([]model.ReferrerRank, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.ReferrerRank{
			TelegramID:    row.TelegramID,
			Username:      row.Username.String,
			FirstName:     row.FirstName.String,
			LastName:      row.LastName.String,
			PhoneNumber:   row.PhoneNumber.String,
			Points:        row.Points,
			ReferralCount: row.ReferralCount,
		})
	}
	return out, nil
}
