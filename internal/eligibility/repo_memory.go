package eligibility

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo stores eligibility records in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu     sync.RWMutex
	byQuiz map[string]Eligibility
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byQuiz: make(map[string]Eligibility)}
}

func (r *MemoryRepo) Create(ctx context.Context, e Eligibility) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byQuiz[e.QuizID]; ok {
		return ErrAlreadyExists
	}
	r.byQuiz[e.QuizID] = e
	return nil
}

func (r *MemoryRepo) UpdateScores(ctx context.Context, e Eligibility) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byQuiz[e.QuizID]
	if !ok {
		return ErrNotFound
	}
	existing.ResumeScoreWeighted = e.ResumeScoreWeighted
	existing.QuizScoreWeighted = e.QuizScoreWeighted
	existing.EligibilityScore = e.EligibilityScore
	existing.IsEligible = e.IsEligible
	existing.RiskTier = e.RiskTier
	existing.Warning = e.Warning
	existing.Breakdown = e.Breakdown
	existing.UpdatedAt = time.Now().UTC()
	r.byQuiz[e.QuizID] = existing
	return nil
}

func (r *MemoryRepo) GetByQuiz(ctx context.Context, quizID string) (Eligibility, error) {
	if err := ctx.Err(); err != nil {
		return Eligibility{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byQuiz[quizID]
	if !ok {
		return Eligibility{}, ErrNotFound
	}
	return e, nil
}

// ListByUser returns records for a user, newest first, with limit/offset.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Eligibility, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Eligibility, 0)
	for _, e := range r.byQuiz {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return paginate(out, limit, offset), nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
