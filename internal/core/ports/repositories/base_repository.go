package repositories

import "context"

// TransactionManager runs a unit of work atomically.
// Repositories called with the ctx handed to fn join the same transaction.
type TransactionManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
