// Package memory is an in-process implementation of every ledger repository.
// A single RWMutex guards the whole store: transactions hold the write lock for
// their duration and roll back by restoring a snapshot, and reports read under
// the read lock, so every reader sees one consistent state.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/SscSPs/ledger_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_backend/internal/core/ports/repositories"
)

// Store holds all ledger records in memory.
type Store struct {
	mu       sync.RWMutex
	accounts map[string]domain.Account
	codes    map[string]string
	entries  map[string]domain.JournalEntry
	lines    map[string][]domain.JournalEntryLine
	counters map[string]int64
	vouchers map[string]domain.Voucher
	invoices map[string]domain.Invoice
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		accounts: make(map[string]domain.Account),
		codes:    make(map[string]string),
		entries:  make(map[string]domain.JournalEntry),
		lines:    make(map[string][]domain.JournalEntryLine),
		counters: make(map[string]int64),
		vouchers: make(map[string]domain.Voucher),
		invoices: make(map[string]domain.Invoice),
	}
}

// NewRepositoryProvider backs every repository port with one store.
func NewRepositoryProvider(store *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:   store,
		JournalRepo:   store,
		SequenceRepo:  store,
		ReportingRepo: store,
		VoucherRepo:   store,
		InvoiceRepo:   store,
		TxManager:     store,
	}
}

var (
	_ portsrepo.AccountRepositoryFacade   = (*Store)(nil)
	_ portsrepo.JournalRepositoryFacade   = (*Store)(nil)
	_ portsrepo.SequenceRepositoryFacade  = (*Store)(nil)
	_ portsrepo.ReportingRepositoryFacade = (*Store)(nil)
	_ portsrepo.VoucherRepositoryFacade   = (*Store)(nil)
	_ portsrepo.InvoiceRepositoryFacade   = (*Store)(nil)
	_ portsrepo.TransactionManager        = (*Store)(nil)
)

type txKey struct{}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

type snapshot struct {
	accounts map[string]domain.Account
	codes    map[string]string
	entries  map[string]domain.JournalEntry
	lines    map[string][]domain.JournalEntryLine
	counters map[string]int64
	vouchers map[string]domain.Voucher
	invoices map[string]domain.Invoice
}

// Records are stored by value and line slices are replaced rather than
// mutated, so shallow map copies are enough to restore a prior state.
func (s *Store) snapshot() snapshot {
	return snapshot{
		accounts: maps.Clone(s.accounts),
		codes:    maps.Clone(s.codes),
		entries:  maps.Clone(s.entries),
		lines:    maps.Clone(s.lines),
		counters: maps.Clone(s.counters),
		vouchers: maps.Clone(s.vouchers),
		invoices: maps.Clone(s.invoices),
	}
}

func (s *Store) restore(snap snapshot) {
	s.accounts = snap.accounts
	s.codes = snap.codes
	s.entries = snap.entries
	s.lines = snap.lines
	s.counters = snap.counters
	s.vouchers = snap.vouchers
	s.invoices = snap.invoices
}

// WithinTransaction runs fn holding the store's write lock. If fn fails every
// change it made is discarded. Commit hooks run after the lock is released.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}
	hookCtx, runHooks := portsrepo.WithCommitHooks(ctx)

	if err := s.locked(func() error {
		snap := s.snapshot()
		if err := fn(context.WithValue(hookCtx, txKey{}, s)); err != nil {
			s.restore(snap)
			return err
		}
		return nil
	}); err != nil {
		return err
	}
	runHooks()
	return nil
}

func (s *Store) locked(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn()
}

func (s *Store) read(ctx context.Context, fn func()) {
	if !s.inTx(ctx) {
		s.mu.RLock()
		defer s.mu.RUnlock()
	}
	fn()
}

func (s *Store) write(ctx context.Context, fn func() error) error {
	if !s.inTx(ctx) {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	return fn()
}
