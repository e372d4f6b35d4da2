package readiness

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"careerlytics-backend/internal/shared/storage/db"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const selectResult = `
SELECT id, test_id, student_id, department, year, percentage, total_correct, total_questions,
       classification, aptitude_score, reasoning_score, english_score, core_score,
       time_taken_minutes, answers, started_at, completed_at
FROM readiness_results`

func (r *PGRepo) GetTest(ctx context.Context, id int64) (Test, error) {
	return scanTest(r.DB.QueryRowContext(ctx, `
SELECT id, title, status, created_at, updated_at
FROM readiness_tests
WHERE id = $1`, id))
}

func (r *PGRepo) SetTestStatus(ctx context.Context, id int64, status TestStatus) (Test, error) {
	return scanTest(r.DB.QueryRowContext(ctx, `
UPDATE readiness_tests
SET status = $2, updated_at = NOW()
WHERE id = $1
RETURNING id, title, status, created_at, updated_at`, id, string(status)))
}

func (r *PGRepo) CreateResult(ctx context.Context, res *Result) error {
	answers, err := json.Marshal(res.Answers)
	if err != nil {
		return err
	}
	err = r.DB.QueryRowContext(ctx, `
INSERT INTO readiness_results (
	test_id, student_id, department, year, percentage, total_correct, total_questions,
	classification, aptitude_score, reasoning_score, english_score, core_score,
	time_taken_minutes, answers, started_at, completed_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
RETURNING id`,
		res.TestID,
		res.StudentID,
		res.Department,
		res.Year,
		res.Percentage,
		res.TotalCorrect,
		res.TotalQuestions,
		string(res.Classification),
		res.Scores.Aptitude,
		res.Scores.Reasoning,
		res.Scores.English,
		res.Scores.Core,
		res.TimeTakenMinutes,
		answers,
		res.StartedAt,
		res.CompletedAt,
	).Scan(&res.ID)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return ErrAlreadySubmitted
		}
		return fmt.Errorf("insert readiness result: %w", err)
	}
	return nil
}

func (r *PGRepo) GetResult(ctx context.Context, testID int64, studentID string) (Result, error) {
	return scanResult(r.DB.QueryRowContext(ctx, selectResult+`
WHERE test_id = $1 AND student_id = $2`, testID, studentID))
}

func (r *PGRepo) ListResults(ctx context.Context, testID int64, f Filter) ([]Result, error) {
	rows, err := r.DB.QueryContext(ctx, selectResult+`
WHERE test_id = $1
  AND ($2::text = '' OR student_id ILIKE '%' || $2::text || '%')
  AND ($3::text = '' OR classification = $3::text)
ORDER BY completed_at DESC`, testID, f.Search, string(f.Classification))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Result, 0)
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *PGRepo) DeleteResults(ctx context.Context, testID int64) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM readiness_results WHERE test_id = $1`, testID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTest(row rowScanner) (Test, error) {
	var t Test
	var status string
	if err := row.Scan(&t.ID, &t.Title, &status, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Test{}, ErrNotFound
		}
		return Test{}, err
	}
	t.Status = TestStatus(status)
	return t, nil
}

func scanResult(row rowScanner) (Result, error) {
	var res Result
	var classification string
	var answers []byte
	err := row.Scan(
		&res.ID,
		&res.TestID,
		&res.StudentID,
		&res.Department,
		&res.Year,
		&res.Percentage,
		&res.TotalCorrect,
		&res.TotalQuestions,
		&classification,
		&res.Scores.Aptitude,
		&res.Scores.Reasoning,
		&res.Scores.English,
		&res.Scores.Core,
		&res.TimeTakenMinutes,
		&answers,
		&res.StartedAt,
		&res.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Result{}, ErrNotFound
		}
		return Result{}, err
	}
	res.Classification = Classification(classification)
	res.Answers = []Answer{}
	if len(answers) > 0 {
		if err := json.Unmarshal(answers, &res.Answers); err != nil {
			return Result{}, fmt.Errorf("decode answers: %w", err)
		}
	}
	return res, nil
}
