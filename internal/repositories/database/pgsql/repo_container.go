package pgsql

import (
	portsrepo "github.com/SscSPs/compliance_transfer_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the Postgres repositories around one pool.
// The transaction manager and every repository share the pool, so a unit of work
// started by TxManager is joined by all of them.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TransferRepo: newPgxTransferRepository(dbPool),
		AuditRepo:    newPgxAuditRepository(dbPool),
		UserRepo:     newPgxUserRepository(dbPool),
		TxManager:    &BaseRepository{Pool: dbPool},
	}
}
