package quizzes

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo stores quizzes in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu        sync.RWMutex
	byID      map[string]Quiz
	responses map[string][]Response
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:      make(map[string]Quiz),
		responses: make(map[string][]Response),
	}
}

func (r *MemoryRepo) Create(ctx context.Context, q Quiz) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[q.ID] = q
	return nil
}

func (r *MemoryRepo) Update(ctx context.Context, q Quiz) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[q.ID]; !ok {
		return ErrNotFound
	}
	r.byID[q.ID] = q
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Quiz, error) {
	if err := ctx.Err(); err != nil {
		return Quiz{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	q, ok := r.byID[id]
	if !ok {
		return Quiz{}, ErrNotFound
	}
	return q, nil
}

// ListByUser returns quizzes for a user, newest first, with limit/offset.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Quiz, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Quiz, 0)
	for _, q := range r.byID {
		if q.UserID == userID {
			out = append(out, q)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if offset < 0 {
		offset = 0
	}
	if offset >= len(out) {
		return []Quiz{}, nil
	}
	end := len(out)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return out[offset:end], nil
}

func (r *MemoryRepo) SaveResponse(ctx context.Context, quizID string, resp Response) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[quizID]; !ok {
		return ErrNotFound
	}
	list := r.responses[quizID]
	for i := range list {
		if list[i].QuestionID == resp.QuestionID {
			list[i] = resp
			return nil
		}
	}
	r.responses[quizID] = append(list, resp)
	return nil
}

func (r *MemoryRepo) Responses(ctx context.Context, quizID string) ([]Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := append([]Response{}, r.responses[quizID]...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AnsweredAt.Before(out[j].AnsweredAt)
	})
	return out, nil
}
