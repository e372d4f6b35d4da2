package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"careerlytics-backend/internal/roles"
	"careerlytics-backend/internal/shared/storage/db"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const selectAnalysis = `
SELECT id, user_id, original_filename, storage_key, mime_type, target_role, ats_score,
       skills_extracted, experience_years, education_level, has_degree, skill_level,
       skills_match_score, experience_score, education_score, format_score,
       analysis_version, processing_time_ms, created_at
FROM resume_analyses`

// Create inserts a new analysis.
func (r *PGRepo) Create(ctx context.Context, a Analysis) error {
	return insertAnalysis(ctx, r.DB, a)
}

// CreateWithCooldown serialises uploads per user with a transaction-scoped
// advisory lock, so concurrent requests from other instances see the row.
func (r *PGRepo) CreateWithCooldown(ctx context.Context, a Analysis, cooldown time.Duration) error {
	return db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, "resume_upload:"+a.UserID); err != nil {
			return fmt.Errorf("lock uploads: %w", err)
		}
		var latest sql.NullTime
		if err := tx.QueryRowContext(ctx, `SELECT MAX(created_at) FROM resume_analyses WHERE user_id = $1`, a.UserID).Scan(&latest); err != nil {
			return fmt.Errorf("latest upload: %w", err)
		}
		if latest.Valid {
			if next := latest.Time.Add(cooldown); a.CreatedAt.Before(next) {
				return &CooldownError{NextUploadAt: next.UTC(), Wait: next.Sub(a.CreatedAt)}
			}
		}
		return insertAnalysis(ctx, tx, a)
	})
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertAnalysis(ctx context.Context, ex execer, a Analysis) error {
	const query = `
INSERT INTO resume_analyses (
	id, user_id, original_filename, storage_key, mime_type, target_role, ats_score,
	skills_extracted, experience_years, education_level, has_degree, skill_level,
	skills_match_score, experience_score, education_score, format_score,
	analysis_version, processing_time_ms, created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	skills, err := json.Marshal(a.SkillsExtracted)
	if err != nil {
		return err
	}
	_, err = ex.ExecContext(ctx, query,
		a.ID,
		a.UserID,
		a.OriginalFilename,
		a.StorageKey,
		a.MimeType,
		string(a.TargetRole),
		a.ATSScore,
		skills,
		a.ExperienceYears,
		string(a.EducationLevel),
		a.HasDegree,
		string(a.SkillLevel),
		a.SkillsMatchScore,
		a.ExperienceScore,
		a.EducationScore,
		a.FormatScore,
		a.AnalysisVersion,
		a.ProcessingTimeMs,
		a.CreatedAt,
	)
	return err
}

// GetByID returns an analysis by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Analysis, error) {
	return scanAnalysis(r.DB.QueryRowContext(ctx, selectAnalysis+` WHERE id = $1 LIMIT 1`, id))
}

// LatestByUser returns the newest analysis for a user.
func (r *PGRepo) LatestByUser(ctx context.Context, userID string) (Analysis, error) {
	return scanAnalysis(r.DB.QueryRowContext(ctx, selectAnalysis+`
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT 1`, userID))
}

// ListByUser returns analyses for a user, newest first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Analysis, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.DB.QueryContext(ctx, selectAnalysis+`
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Analysis, 0)
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Delete removes an analysis. Quizzes keep running without it.
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM resume_analyses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (Analysis, error) {
	var a Analysis
	var role, education, level string
	var skills []byte
	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.OriginalFilename,
		&a.StorageKey,
		&a.MimeType,
		&role,
		&a.ATSScore,
		&skills,
		&a.ExperienceYears,
		&education,
		&a.HasDegree,
		&level,
		&a.SkillsMatchScore,
		&a.ExperienceScore,
		&a.EducationScore,
		&a.FormatScore,
		&a.AnalysisVersion,
		&a.ProcessingTimeMs,
		&a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Analysis{}, ErrNotFound
		}
		return Analysis{}, err
	}
	a.TargetRole = roles.Role(role)
	a.EducationLevel = EducationLevel(education)
	a.SkillLevel = SkillLevel(level)
	a.SkillsExtracted = []string{}
	if len(skills) > 0 {
		if err := json.Unmarshal(skills, &a.SkillsExtracted); err != nil {
			return Analysis{}, fmt.Errorf("decode skills: %w", err)
		}
	}
	return a, nil
}
