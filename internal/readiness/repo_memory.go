package readiness

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// DefaultTestID is the readiness test every deployment starts with.
const DefaultTestID int64 = 1

// MemoryRepo stores tests and results in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu      sync.RWMutex
	tests   map[int64]Test
	results map[int64][]Result
	nextID  int64
}

// NewMemoryRepo returns a repo seeded with the default, enabled test.
func NewMemoryRepo() *MemoryRepo {
	now := time.Now().UTC()
	return &MemoryRepo{
		tests: map[int64]Test{
			DefaultTestID: {ID: DefaultTestID, Title: "Global Readiness Assessment", Status: TestEnabled, CreatedAt: now, UpdatedAt: now},
		},
		results: make(map[int64][]Result),
		nextID:  1,
	}
}

func (r *MemoryRepo) GetTest(ctx context.Context, id int64) (Test, error) {
	if err := ctx.Err(); err != nil {
		return Test{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tests[id]
	if !ok {
		return Test{}, ErrNotFound
	}
	return t, nil
}

func (r *MemoryRepo) SetTestStatus(ctx context.Context, id int64, status TestStatus) (Test, error) {
	if err := ctx.Err(); err != nil {
		return Test{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tests[id]
	if !ok {
		return Test{}, ErrNotFound
	}
	t.Status = status
	t.UpdatedAt = time.Now().UTC()
	r.tests[id] = t
	return t, nil
}

func (r *MemoryRepo) CreateResult(ctx context.Context, res *Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.results[res.TestID] {
		if existing.StudentID == res.StudentID {
			return ErrAlreadySubmitted
		}
	}
	res.ID = r.nextID
	r.nextID++
	r.results[res.TestID] = append(r.results[res.TestID], *res)
	return nil
}

func (r *MemoryRepo) GetResult(ctx context.Context, testID int64, studentID string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, res := range r.results[testID] {
		if res.StudentID == studentID {
			return res, nil
		}
	}
	return Result{}, ErrNotFound
}

func (r *MemoryRepo) ListResults(ctx context.Context, testID int64, f Filter) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	search := strings.ToLower(strings.TrimSpace(f.Search))
	r.mu.RLock()
	out := make([]Result, 0)
	for _, res := range r.results[testID] {
		if search != "" && !strings.Contains(strings.ToLower(res.StudentID), search) {
			continue
		}
		if f.Classification != "" && res.Classification != f.Classification {
			continue
		}
		out = append(out, res)
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompletedAt.After(out[j].CompletedAt)
	})
	return out, nil
}

func (r *MemoryRepo) DeleteResults(ctx context.Context, testID int64) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n := int64(len(r.results[testID]))
	delete(r.results, testID)
	return n, nil
}
