package eligibility

import "context"

// Repo defines persistence operations for eligibility records.
type Repo interface {
	// Create stores e with its recommendations. A second record for the
	// same quiz yields ErrAlreadyExists.
	Create(ctx context.Context, e Eligibility) error
	// UpdateScores rewrites the score fields only; recommendations and
	// improvement areas are left as first recorded.
	UpdateScores(ctx context.Context, e Eligibility) error
	GetByQuiz(ctx context.Context, quizID string) (Eligibility, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Eligibility, error)
}
