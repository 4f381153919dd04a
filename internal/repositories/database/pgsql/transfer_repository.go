package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/compliance_transfer_app/internal/apperrors"
	"github.com/SscSPs/compliance_transfer_app/internal/core/domain"
	portsrepo "github.com/SscSPs/compliance_transfer_app/internal/core/ports/repositories"
	"github.com/SscSPs/compliance_transfer_app/internal/models"
	"github.com/SscSPs/compliance_transfer_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transferColumns = `request_id, title, recipient, purpose, status, risk_level, created_by_user_id, created_at, updated_at`

type PgxTransferRepository struct {
	BaseRepository
}

func newPgxTransferRepository(db *pgxpool.Pool) *PgxTransferRepository {
	return &PgxTransferRepository{BaseRepository: BaseRepository{Pool: db}}
}

var _ portsrepo.TransferRepositoryFacade = (*PgxTransferRepository)(nil)

func scanTransfer(row pgx.Row) (models.TransferRequest, error) {
	var m models.TransferRequest
	err := row.Scan(
		&m.RequestID,
		&m.Title,
		&m.Recipient,
		&m.Purpose,
		&m.Status,
		&m.RiskLevel,
		&m.CreatedByUserID,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	return m, err
}

func (r *PgxTransferRepository) SaveTransfer(ctx context.Context, transfer domain.TransferRequest) error {
	m := mapping.ToModelTransfer(transfer)
	query := `
		INSERT INTO transfer_requests (` + transferColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.DB(ctx).Exec(ctx, query,
		m.RequestID,
		m.Title,
		m.Recipient,
		m.Purpose,
		m.Status,
		m.RiskLevel,
		m.CreatedByUserID,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError(fmt.Sprintf("transfer request %s already exists", m.RequestID))
		}
		return storageError("failed to save transfer request", err)
	}
	return nil
}

func (r *PgxTransferRepository) FindTransferByID(ctx context.Context, requestID string) (*domain.TransferRequest, error) {
	query := `SELECT ` + transferColumns + ` FROM transfer_requests WHERE request_id = $1;`

	m, err := scanTransfer(r.DB(ctx).QueryRow(ctx, query, requestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, storageError(fmt.Sprintf("failed to find transfer request %s", requestID), err)
	}

	transfer := mapping.ToDomainTransfer(m)
	return &transfer, nil
}

func (r *PgxTransferRepository) ListTransfers(ctx context.Context, status *domain.TransferStatus) ([]domain.TransferRequest, error) {
	var statusArg *string
	if status != nil {
		s := string(*status)
		statusArg = &s
	}

	query := `
		SELECT ` + transferColumns + `
		FROM transfer_requests
		WHERE ($1::text IS NULL OR status = $1::text)
		ORDER BY created_at DESC, request_id DESC;
	`
	rows, err := r.DB(ctx).Query(ctx, query, statusArg)
	if err != nil {
		return nil, storageError("failed to query transfer requests", err)
	}
	defer rows.Close()

	ms := []models.TransferRequest{}
	for rows.Next() {
		m, err := scanTransfer(rows)
		if err != nil {
			return nil, storageError("failed to scan transfer request row", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storageError("error iterating transfer request rows", err)
	}

	return mapping.ToDomainTransferSlice(ms), nil
}

// UpdateTransferStatus is a compare-and-set on the status column.
func (r *PgxTransferRepository) UpdateTransferStatus(ctx context.Context, update portsrepo.TransferStatusUpdate) error {
	query := `
		UPDATE transfer_requests
		SET status = $1, risk_level = $2, updated_at = $3
		WHERE request_id = $4 AND status = $5;
	`
	tag, err := r.DB(ctx).Exec(ctx, query,
		string(update.NewStatus),
		string(update.RiskLevel),
		update.UpdatedAt,
		update.RequestID,
		string(update.ExpectedStatus),
	)
	if err != nil {
		return storageError("failed to update transfer request status", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var exists bool
	err = r.DB(ctx).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM transfer_requests WHERE request_id = $1);`, update.RequestID).Scan(&exists)
	if err != nil {
		return storageError("failed to check transfer request existence", err)
	}
	if !exists {
		return apperrors.ErrNotFound
	}
	return apperrors.NewInvalidStateError("transfer status changed concurrently")
}
