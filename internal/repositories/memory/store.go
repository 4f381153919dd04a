// Package memory provides process-local stores for local runs and tests.
// Data does not survive a restart.
package memory

import (
	"context"
	"sync"

	"github.com/SscSPs/compliance_transfer_app/internal/core/domain"
	portsrepo "github.com/SscSPs/compliance_transfer_app/internal/core/ports/repositories"
)

type transferRow struct {
	transfer domain.TransferRequest
	seq      int64
}

type auditRow struct {
	event domain.AuditEvent
	seq   int64
}

// Store holds all committed state. Units of work are serialized on txMu and
// their writes are staged until fn returns without error.
type Store struct {
	txMu sync.Mutex

	mu        sync.RWMutex
	seq       int64
	transfers map[string]transferRow
	audit     []auditRow
	users     map[string]domain.User // keyed by email
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		transfers: make(map[string]transferRow),
		users:     make(map[string]domain.User),
	}
}

// unitOfWork collects the writes of one transaction.
type unitOfWork struct {
	transfers map[string]domain.TransferRequest
	audit     []domain.AuditEvent
	users     map[string]domain.User
}

type uowCtxKey struct{}

func uowFromCtx(ctx context.Context) *unitOfWork {
	u, _ := ctx.Value(uowCtxKey{}).(*unitOfWork)
	return u
}

// WithinTransaction runs fn with a staged unit of work and commits it only when fn succeeds.
// A nested call joins the outer unit of work.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if uowFromCtx(ctx) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	u := &unitOfWork{
		transfers: make(map[string]domain.TransferRequest),
		users:     make(map[string]domain.User),
	}
	if err := fn(context.WithValue(ctx, uowCtxKey{}, u)); err != nil {
		return err
	}
	s.commit(u)
	return nil
}

func (s *Store) commit(u *unitOfWork) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range u.transfers {
		row, exists := s.transfers[id]
		if !exists {
			s.seq++
			row.seq = s.seq
		}
		row.transfer = t
		s.transfers[id] = row
	}
	for _, e := range u.audit {
		s.seq++
		s.audit = append(s.audit, auditRow{event: e, seq: s.seq})
	}
	for email, usr := range u.users {
		s.users[email] = usr
	}
}

// write runs fn inside the caller's unit of work, or inside a new one.
func (s *Store) write(ctx context.Context, fn func(u *unitOfWork) error) error {
	return s.WithinTransaction(ctx, func(txCtx context.Context) error {
		return fn(uowFromCtx(txCtx))
	})
}

// lookupTransfer sees staged writes of the caller's unit of work first.
func (s *Store) lookupTransfer(ctx context.Context, requestID string) (domain.TransferRequest, bool) {
	if u := uowFromCtx(ctx); u != nil {
		if t, ok := u.transfers[requestID]; ok {
			return t, true
		}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.transfers[requestID]
	return row.transfer, ok
}

func (s *Store) lookupUser(ctx context.Context, email string) (domain.User, bool) {
	if u := uowFromCtx(ctx); u != nil {
		if usr, ok := u.users[email]; ok {
			return usr, true
		}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	usr, ok := s.users[email]
	return usr, ok
}

// NewRepositoryProvider wires all memory repositories around one store.
func NewRepositoryProvider() portsrepo.RepositoryProvider {
	store := NewStore()
	return portsrepo.RepositoryProvider{
		TransferRepo: NewTransferRepository(store),
		AuditRepo:    NewAuditRepository(store),
		UserRepo:     NewUserRepository(store),
		TxManager:    store,
	}
}

var _ portsrepo.TransactionManager = (*Store)(nil)
