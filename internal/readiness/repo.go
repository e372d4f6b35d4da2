package readiness

import "context"

// Repo persists tests and results.
type Repo interface {
	GetTest(ctx context.Context, id int64) (Test, error)
	SetTestStatus(ctx context.Context, id int64, status TestStatus) (Test, error)
	// CreateResult assigns r.ID. A second result for the same student and
	// test returns ErrAlreadySubmitted.
	CreateResult(ctx context.Context, r *Result) error
	GetResult(ctx context.Context, testID int64, studentID string) (Result, error)
	// ListResults returns matching results, most recently completed first.
	ListResults(ctx context.Context, testID int64, f Filter) ([]Result, error)
	DeleteResults(ctx context.Context, testID int64) (int64, error)
}
