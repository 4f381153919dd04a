package pgsql

import (
	"context"

	"github.com/SscSPs/compliance_transfer_app/internal/core/domain"
	portsrepo "github.com/SscSPs/compliance_transfer_app/internal/core/ports/repositories"
	"github.com/SscSPs/compliance_transfer_app/internal/models"
	"github.com/SscSPs/compliance_transfer_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxAuditRepository is append-only: the table is never updated or deleted from.
type PgxAuditRepository struct {
	BaseRepository
}

func newPgxAuditRepository(db *pgxpool.Pool) *PgxAuditRepository {
	return &PgxAuditRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.AuditRepositoryFacade = (*PgxAuditRepository)(nil)

func (r *PgxAuditRepository) AppendAuditEvent(ctx context.Context, event domain.AuditEvent) error {
	m := mapping.ToModelAuditEvent(event)
	query := `
		INSERT INTO audit_events (audit_id, request_id, actor_user_id, action, details, correlation_id, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.DB(ctx).Exec(ctx, query,
		m.AuditID,
		m.RequestID,
		m.ActorUserID,
		m.Action,
		m.Details,
		m.CorrelationID,
		m.OccurredAt,
	)
	if err != nil {
		return storageError("failed to append audit event", err)
	}
	return nil
}

func (r *PgxAuditRepository) ListAuditEventsByRequestID(ctx context.Context, requestID string) ([]domain.AuditEvent, error) {
	query := `
		SELECT audit_id, request_id, actor_user_id, action, details, correlation_id, occurred_at
		FROM audit_events
		WHERE request_id = $1
		ORDER BY occurred_at ASC, seq ASC;
	`
	rows, err := r.DB(ctx).Query(ctx, query, requestID)
	if err != nil {
		return nil, storageError("failed to query audit events", err)
	}
	defer rows.Close()

	ms := []models.AuditEvent{}
	for rows.Next() {
		var m models.AuditEvent
		if err := rows.Scan(
			&m.AuditID,
			&m.RequestID,
			&m.ActorUserID,
			&m.Action,
			&m.Details,
			&m.CorrelationID,
			&m.OccurredAt,
		); err != nil {
			return nil, storageError("failed to scan audit event row", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("error iterating audit event rows", err)
	}

	return mapping.ToDomainAuditEventSlice(ms), nil
}
