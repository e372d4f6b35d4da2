package quizzes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"careerlytics-backend/internal/roles"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const selectQuiz = `
SELECT id, user_id, resume_analysis_id, target_role, status, difficulty, questions,
       general_ability_score, tech_fundamentals_score, role_specific_score, total_score,
       time_limit_seconds, time_taken_seconds, started_at, completed_at, created_at, updated_at
FROM role_quizzes`

func (r *PGRepo) Create(ctx context.Context, q Quiz) error {
	questions, err := marshalQuestions(q.Questions)
	if err != nil {
		return err
	}
	const query = `
INSERT INTO role_quizzes (
	id, user_id, resume_analysis_id, target_role, status, difficulty, questions,
	general_ability_score, tech_fundamentals_score, role_specific_score, total_score,
	time_limit_seconds, time_taken_seconds, started_at, completed_at, created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $16)`
	_, err = r.DB.ExecContext(ctx, query,
		q.ID,
		q.UserID,
		nullString(q.ResumeAnalysisID),
		string(q.TargetRole),
		string(q.Status),
		string(q.Difficulty),
		questions,
		q.Scores.GeneralAbility,
		q.Scores.TechFundamentals,
		q.Scores.RoleSpecific,
		q.Scores.Total,
		q.TimeLimitSeconds,
		q.TimeTakenSeconds,
		nullTime(q.StartedAt),
		nullTime(q.CompletedAt),
		q.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert quiz: %w", err)
	}
	return nil
}

// Update rewrites the mutable columns of a quiz.
func (r *PGRepo) Update(ctx context.Context, q Quiz) error {
	questions, err := marshalQuestions(q.Questions)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, `
UPDATE role_quizzes
SET status = $2, difficulty = $3, questions = $4,
    general_ability_score = $5, tech_fundamentals_score = $6, role_specific_score = $7, total_score = $8,
    time_limit_seconds = $9, time_taken_seconds = $10, started_at = $11, completed_at = $12, updated_at = $13
WHERE id = $1`,
		q.ID,
		string(q.Status),
		string(q.Difficulty),
		questions,
		q.Scores.GeneralAbility,
		q.Scores.TechFundamentals,
		q.Scores.RoleSpecific,
		q.Scores.Total,
		q.TimeLimitSeconds,
		q.TimeTakenSeconds,
		nullTime(q.StartedAt),
		nullTime(q.CompletedAt),
		q.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (Quiz, error) {
	return scanQuiz(r.DB.QueryRowContext(ctx, selectQuiz+` WHERE id = $1 LIMIT 1`, id))
}

// ListByUser returns quizzes for a user, newest first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Quiz, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.DB.QueryContext(ctx, selectQuiz+`
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Quiz, 0)
	for rows.Next() {
		q, err := scanQuiz(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (r *PGRepo) SaveResponse(ctx context.Context, quizID string, resp Response) error {
	_, err := r.DB.ExecContext(ctx, `
INSERT INTO quiz_responses (quiz_id, question_id, selected_option, is_correct, time_taken_seconds, answered_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (quiz_id, question_id) DO UPDATE
SET selected_option = EXCLUDED.selected_option,
    is_correct = EXCLUDED.is_correct,
    time_taken_seconds = EXCLUDED.time_taken_seconds,
    answered_at = EXCLUDED.answered_at`,
		quizID,
		resp.QuestionID,
		resp.SelectedOption,
		resp.IsCorrect,
		resp.TimeTakenSeconds,
		resp.AnsweredAt,
	)
	if err != nil {
		return fmt.Errorf("save response: %w", err)
	}
	return nil
}

func (r *PGRepo) Responses(ctx context.Context, quizID string) ([]Response, error) {
	rows, err := r.DB.QueryContext(ctx, `
SELECT question_id, selected_option, is_correct, time_taken_seconds, answered_at
FROM quiz_responses
WHERE quiz_id = $1
ORDER BY answered_at ASC`, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Response, 0)
	for rows.Next() {
		var resp Response
		if err := rows.Scan(&resp.QuestionID, &resp.SelectedOption, &resp.IsCorrect, &resp.TimeTakenSeconds, &resp.AnsweredAt); err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuiz(row rowScanner) (Quiz, error) {
	var q Quiz
	var resumeID sql.NullString
	var role, status, difficulty string
	var questions []byte
	var startedAt, completedAt sql.NullTime
	err := row.Scan(
		&q.ID,
		&q.UserID,
		&resumeID,
		&role,
		&status,
		&difficulty,
		&questions,
		&q.Scores.GeneralAbility,
		&q.Scores.TechFundamentals,
		&q.Scores.RoleSpecific,
		&q.Scores.Total,
		&q.TimeLimitSeconds,
		&q.TimeTakenSeconds,
		&startedAt,
		&completedAt,
		&q.CreatedAt,
		&q.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Quiz{}, ErrNotFound
		}
		return Quiz{}, err
	}
	q.ResumeAnalysisID = resumeID.String
	q.TargetRole = roles.Role(role)
	q.Status = Status(status)
	q.Difficulty = Difficulty(difficulty)
	if len(questions) > 0 {
		if err := json.Unmarshal(questions, &q.Questions); err != nil {
			return Quiz{}, fmt.Errorf("decode questions: %w", err)
		}
	}
	if startedAt.Valid {
		t := startedAt.Time
		q.StartedAt = &t
	}
	if completedAt.Valid {
		t := completedAt.Time
		q.CompletedAt = &t
	}
	return q, nil
}

func marshalQuestions(qs []Question) ([]byte, error) {
	if qs == nil {
		qs = []Question{}
	}
	return json.Marshal(qs)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
