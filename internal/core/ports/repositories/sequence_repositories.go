package repositories

import "context"

// SequenceRepositoryFacade hands out persisted, atomically incremented counters.
type SequenceRepositoryFacade interface {
	// NextValue increments the named counter and returns the new value, starting at 1.
	NextValue(ctx context.Context, name string) (int64, error)
}
