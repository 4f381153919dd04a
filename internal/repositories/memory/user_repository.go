package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/SscSPs/compliance_transfer_app/internal/apperrors"
	"github.com/SscSPs/compliance_transfer_app/internal/core/domain"
	portsrepo "github.com/SscSPs/compliance_transfer_app/internal/core/ports/repositories"
)

// UserRepository stores login identities keyed by lower-cased email.
type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

var _ portsrepo.UserRepositoryFacade = (*UserRepository)(nil)

func (r *UserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	usr, ok := r.store.lookupUser(ctx, strings.ToLower(email))
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	usr.Roles = slices.Clone(usr.Roles)
	return &usr, nil
}

func (r *UserRepository) SaveUser(ctx context.Context, user domain.User) error {
	key := strings.ToLower(user.Email)
	return r.store.write(ctx, func(u *unitOfWork) error {
		if _, exists := r.store.lookupUser(ctx, key); exists {
			return apperrors.NewConflictError("email already registered")
		}
		user.Roles = slices.Clone(user.Roles)
		u.users[key] = user
		return nil
	})
}
