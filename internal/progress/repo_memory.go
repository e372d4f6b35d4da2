package progress

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo stores progress in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu       sync.Mutex
	accounts map[string]Account
	rewards  map[string][]Reward
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		accounts: make(map[string]Account),
		rewards:  make(map[string][]Reward),
	}
}

func (r *MemoryRepo) Get(ctx context.Context, userID string) (Account, error) {
	if err := ctx.Err(); err != nil {
		return Account{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.account(userID), nil
}

func (r *MemoryRepo) Update(ctx context.Context, userID string, fn UpdateFunc) (Account, error) {
	if err := ctx.Err(); err != nil {
		return Account{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	a := r.account(userID)
	added, err := fn(&a)
	if err != nil {
		return Account{}, err
	}
	for _, rw := range added {
		if rw.RelatedID == "" {
			continue
		}
		for _, existing := range r.rewards[userID] {
			if existing.Type == rw.Type && existing.RelatedID == rw.RelatedID {
				return Account{}, ErrAlreadyAwarded
			}
		}
	}
	r.accounts[userID] = a
	r.rewards[userID] = append(r.rewards[userID], added...)
	return a, nil
}

func (r *MemoryRepo) Rewards(ctx context.Context, userID string, limit int) ([]Reward, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	stored := r.rewards[userID]
	out := make([]Reward, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		out = append(out, stored[i])
	}
	r.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepo) account(userID string) Account {
	if a, ok := r.accounts[userID]; ok {
		return a
	}
	return newAccount(userID)
}
