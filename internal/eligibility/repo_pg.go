package eligibility

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"careerlytics-backend/internal/roles"
	"careerlytics-backend/internal/shared/storage/db"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const selectEligibility = `
SELECT id, quiz_id, user_id, resume_analysis_id, target_role,
       resume_score_weighted, quiz_score_weighted, eligibility_score, is_eligible,
       risk_tier, warning, improvement_areas, breakdown, created_at, updated_at
FROM role_eligibilities`

// Create inserts the record and its recommended roles in one transaction.
func (r *PGRepo) Create(ctx context.Context, e Eligibility) error {
	improvements, err := json.Marshal(e.ImprovementAreas)
	if err != nil {
		return err
	}
	breakdown, err := json.Marshal(e.Breakdown)
	if err != nil {
		return err
	}

	return db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		const insert = `
INSERT INTO role_eligibilities (
	id, quiz_id, user_id, resume_analysis_id, target_role,
	resume_score_weighted, quiz_score_weighted, eligibility_score, is_eligible,
	risk_tier, warning, improvement_areas, breakdown, created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14)`
		_, err := tx.ExecContext(ctx, insert,
			e.ID,
			e.QuizID,
			e.UserID,
			nullString(e.ResumeAnalysisID),
			string(e.TargetRole),
			e.ResumeScoreWeighted,
			e.QuizScoreWeighted,
			e.EligibilityScore,
			e.IsEligible,
			e.RiskTier,
			e.Warning,
			improvements,
			breakdown,
			e.CreatedAt,
		)
		if err != nil {
			if db.IsUniqueViolation(err) {
				return ErrAlreadyExists
			}
			return fmt.Errorf("insert eligibility: %w", err)
		}

		for i, rec := range e.Recommendations {
			reasons, err := json.Marshal(rec.Reasons)
			if err != nil {
				return err
			}
			_, err = tx.ExecContext(ctx, `
INSERT INTO recommended_roles (eligibility_id, role, match_percentage, reasons, position)
VALUES ($1, $2, $3, $4, $5)`, e.ID, string(rec.Role), rec.MatchPercentage, reasons, i)
			if err != nil {
				return fmt.Errorf("insert recommended role: %w", err)
			}
		}
		return nil
	})
}

// UpdateScores rewrites the score columns for the quiz's record.
func (r *PGRepo) UpdateScores(ctx context.Context, e Eligibility) error {
	breakdown, err := json.Marshal(e.Breakdown)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, `
UPDATE role_eligibilities
SET resume_score_weighted = $2, quiz_score_weighted = $3, eligibility_score = $4,
    is_eligible = $5, risk_tier = $6, warning = $7, breakdown = $8, updated_at = NOW()
WHERE quiz_id = $1`,
		e.QuizID,
		e.ResumeScoreWeighted,
		e.QuizScoreWeighted,
		e.EligibilityScore,
		e.IsEligible,
		e.RiskTier,
		e.Warning,
		breakdown,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByQuiz returns the record for a quiz with its recommendations.
func (r *PGRepo) GetByQuiz(ctx context.Context, quizID string) (Eligibility, error) {
	e, err := scanEligibility(r.DB.QueryRowContext(ctx, selectEligibility+` WHERE quiz_id = $1 LIMIT 1`, quizID))
	if err != nil {
		return Eligibility{}, err
	}
	recs, err := r.recommendations(ctx, e.ID)
	if err != nil {
		return Eligibility{}, err
	}
	e.Recommendations = recs
	return e, nil
}

// ListByUser returns records for a user, newest first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Eligibility, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.DB.QueryContext(ctx, selectEligibility+`
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Eligibility, 0)
	for rows.Next() {
		e, err := scanEligibility(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		recs, err := r.recommendations(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Recommendations = recs
	}
	return out, nil
}

func (r *PGRepo) recommendations(ctx context.Context, eligibilityID string) ([]Recommendation, error) {
	rows, err := r.DB.QueryContext(ctx, `
SELECT role, match_percentage, reasons
FROM recommended_roles
WHERE eligibility_id = $1
ORDER BY position ASC`, eligibilityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Recommendation, 0)
	for rows.Next() {
		var rec Recommendation
		var role string
		var reasons []byte
		if err := rows.Scan(&role, &rec.MatchPercentage, &reasons); err != nil {
			return nil, err
		}
		rec.Role = roles.Role(role)
		if len(reasons) > 0 {
			if err := json.Unmarshal(reasons, &rec.Reasons); err != nil {
				return nil, fmt.Errorf("decode reasons: %w", err)
			}
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEligibility(row rowScanner) (Eligibility, error) {
	var e Eligibility
	var resumeID sql.NullString
	var role string
	var improvements, breakdown []byte
	err := row.Scan(
		&e.ID,
		&e.QuizID,
		&e.UserID,
		&resumeID,
		&role,
		&e.ResumeScoreWeighted,
		&e.QuizScoreWeighted,
		&e.EligibilityScore,
		&e.IsEligible,
		&e.RiskTier,
		&e.Warning,
		&improvements,
		&breakdown,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Eligibility{}, ErrNotFound
		}
		return Eligibility{}, err
	}
	e.TargetRole = roles.Role(role)
	e.ResumeAnalysisID = resumeID.String
	e.ImprovementAreas = []string{}
	if len(improvements) > 0 {
		if err := json.Unmarshal(improvements, &e.ImprovementAreas); err != nil {
			return Eligibility{}, fmt.Errorf("decode improvement areas: %w", err)
		}
	}
	if len(breakdown) > 0 {
		if err := json.Unmarshal(breakdown, &e.Breakdown); err != nil {
			return Eligibility{}, fmt.Errorf("decode breakdown: %w", err)
		}
	}
	return e, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
