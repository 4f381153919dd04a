package pgsql

import (
	"context"
	"errors"
	"strings"

	"github.com/SscSPs/compliance_transfer_app/internal/apperrors"
	"github.com/SscSPs/compliance_transfer_app/internal/core/domain"
	portsrepo "github.com/SscSPs/compliance_transfer_app/internal/core/ports/repositories"
	"github.com/SscSPs/compliance_transfer_app/internal/models"
	"github.com/SscSPs/compliance_transfer_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxUserRepository struct {
	BaseRepository
}

func newPgxUserRepository(db *pgxpool.Pool) *PgxUserRepository {
	return &PgxUserRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	query := `
		INSERT INTO users (user_id, email, password_hash, roles, created_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := r.DB(ctx).Exec(ctx, query,
		m.UserID,
		strings.ToLower(m.Email),
		m.PasswordHash,
		m.Roles,
		m.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.NewConflictError("email already registered")
		}
		return storageError("failed to save user", err)
	}
	return nil
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `
		SELECT user_id, email, password_hash, roles, created_at
		FROM users
		WHERE lower(email) = lower($1);
	`
	var m models.User
	err := r.DB(ctx).QueryRow(ctx, query, email).Scan(
		&m.UserID,
		&m.Email,
		&m.PasswordHash,
		&m.Roles,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, storageError("failed to find user by email", err)
	}

	user := mapping.ToDomainUser(m)
	return &user, nil
}
