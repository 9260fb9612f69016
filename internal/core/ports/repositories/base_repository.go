package repositories

import (
	"context"
	"sync"
)

// TransactionManager runs a unit of work atomically. Repository calls made with
// the context passed to fn join the transaction; a non-nil error from fn rolls
// everything back. Nested calls reuse the outer transaction.
type TransactionManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type commitHooksKey struct{}

type commitHooks struct {
	mu  sync.Mutex
	fns []func()
}

// WithCommitHooks is called by a TransactionManager when it opens an outermost
// transaction. The returned run func must be called once the commit succeeded.
func WithCommitHooks(ctx context.Context) (context.Context, func()) {
	hooks := &commitHooks{}
	return context.WithValue(ctx, commitHooksKey{}, hooks), func() {
		hooks.mu.Lock()
		fns := hooks.fns
		hooks.fns = nil
		hooks.mu.Unlock()
		for _, fn := range fns {
			fn()
		}
	}
}

// AfterCommit defers fn until the transaction bound to ctx commits. A rolled
// back transaction drops fn. Outside a transaction fn runs immediately.
func AfterCommit(ctx context.Context, fn func()) {
	hooks, ok := ctx.Value(commitHooksKey{}).(*commitHooks)
	if !ok {
		fn()
		return
	}
	hooks.mu.Lock()
	hooks.fns = append(hooks.fns, fn)
	hooks.mu.Unlock()
}
