package progress

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"careerlytics-backend/internal/shared/storage/db"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const selectAccount = `
SELECT user_id, total_xp, current_level, xp_to_next_level, level_progress,
       current_streak, longest_streak, last_activity_date, total_days_active, updated_at
FROM user_progress
WHERE user_id = $1`

func (r *PGRepo) Get(ctx context.Context, userID string) (Account, error) {
	a, err := scanAccount(r.DB.QueryRowContext(ctx, selectAccount, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return newAccount(userID), nil
	}
	return a, err
}

// Update locks the account row for the duration of the transaction so
// concurrent awards for one student apply one after the other.
func (r *PGRepo) Update(ctx context.Context, userID string, fn UpdateFunc) (Account, error) {
	var out Account
	err := db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO user_progress (user_id) VALUES ($1)
ON CONFLICT (user_id) DO NOTHING`, userID); err != nil {
			return fmt.Errorf("ensure progress row: %w", err)
		}
		a, err := scanAccount(tx.QueryRowContext(ctx, selectAccount+` FOR UPDATE`, userID))
		if err != nil {
			return fmt.Errorf("lock progress row: %w", err)
		}

		added, err := fn(&a)
		if err != nil {
			return err
		}

		var last any
		if a.Streak.LastActive != nil {
			last = *a.Streak.LastActive
		}
		if _, err := tx.ExecContext(ctx, `
UPDATE user_progress
SET total_xp = $2, current_level = $3, xp_to_next_level = $4, level_progress = $5,
    current_streak = $6, longest_streak = $7, last_activity_date = $8, total_days_active = $9,
    updated_at = $10
WHERE user_id = $1`,
			userID,
			a.XP.Total,
			a.XP.Level,
			a.XP.XPToNextLevel,
			a.XP.LevelProgress,
			a.Streak.Current,
			a.Streak.Longest,
			last,
			a.Streak.DaysActive,
			a.XP.UpdatedAt,
		); err != nil {
			return fmt.Errorf("update progress: %w", err)
		}

		for _, rw := range added {
			var related any
			if rw.RelatedID != "" {
				related = rw.RelatedID
			}
			_, err := tx.ExecContext(ctx, `
INSERT INTO xp_rewards (id, user_id, reward_type, xp_amount, reason, related_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				rw.ID, userID, string(rw.Type), rw.Amount, rw.Reason, related, rw.CreatedAt)
			if err != nil {
				if db.IsUniqueViolation(err) {
					return ErrAlreadyAwarded
				}
				return fmt.Errorf("insert reward: %w", err)
			}
		}
		out = a
		return nil
	})
	if err != nil {
		return Account{}, err
	}
	return out, nil
}

func (r *PGRepo) Rewards(ctx context.Context, userID string, limit int) ([]Reward, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.DB.QueryContext(ctx, `
SELECT id, user_id, reward_type, xp_amount, reason, COALESCE(related_id, ''), created_at
FROM xp_rewards
WHERE user_id = $1
ORDER BY created_at DESC, seq DESC
LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Reward, 0)
	for rows.Next() {
		var rw Reward
		var typ string
		if err := rows.Scan(&rw.ID, &rw.UserID, &typ, &rw.Amount, &rw.Reason, &rw.RelatedID, &rw.CreatedAt); err != nil {
			return nil, err
		}
		rw.Type = RewardType(typ)
		out = append(out, rw)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (Account, error) {
	var a Account
	var last sql.NullTime
	err := row.Scan(
		&a.UserID,
		&a.XP.Total,
		&a.XP.Level,
		&a.XP.XPToNextLevel,
		&a.XP.LevelProgress,
		&a.Streak.Current,
		&a.Streak.Longest,
		&last,
		&a.Streak.DaysActive,
		&a.XP.UpdatedAt,
	)
	if err != nil {
		return Account{}, err
	}
	if last.Valid {
		day := time.Date(last.Time.Year(), last.Time.Month(), last.Time.Day(), 0, 0, 0, 0, time.UTC)
		a.Streak.LastActive = &day
	}
	return a, nil
}
