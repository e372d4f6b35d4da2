package quizzes

import "context"

// Repo persists quizzes and their responses.
type Repo interface {
	Create(ctx context.Context, q Quiz) error
	Update(ctx context.Context, q Quiz) error
	GetByID(ctx context.Context, id string) (Quiz, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Quiz, error)
	// SaveResponse stores the answer, replacing any earlier answer to the same question.
	SaveResponse(ctx context.Context, quizID string, r Response) error
	Responses(ctx context.Context, quizID string) ([]Response, error)
}
