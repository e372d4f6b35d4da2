package progress

import "context"

// UpdateFunc mutates a locked account and returns the rewards to append.
type UpdateFunc func(a *Account) ([]Reward, error)

// Repo defines persistence for accounts and the reward ledger.
type Repo interface {
	// Get returns the stored account, or a fresh level 1 account.
	Get(ctx context.Context, userID string) (Account, error)
	// Update applies fn to the account and stores it together with the new
	// rewards atomically. A reward whose type and related id already exist
	// fails the whole update with ErrAlreadyAwarded.
	Update(ctx context.Context, userID string, fn UpdateFunc) (Account, error)
	// Rewards lists ledger entries newest first.
	Rewards(ctx context.Context, userID string, limit int) ([]Reward, error)
}
