package mapping

import (
	"github.com/SscSPs/compliance_transfer_app/internal/core/domain"
	"github.com/SscSPs/compliance_transfer_app/internal/models"
)

// ToModelUser converts a domain User to a model User
func ToModelUser(d domain.User) models.User {
	roles := make([]string, len(d.Roles))
	for i, r := range d.Roles {
		roles[i] = string(r)
	}
	return models.User{
		UserID:       d.UserID,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Roles:        roles,
		CreatedAt:    d.CreatedAt,
	}
}

// ToDomainUser converts a model User to a domain User.
// Role names the application no longer knows are dropped.
func ToDomainUser(m models.User) domain.User {
	roles := make([]domain.Role, 0, len(m.Roles))
	for _, raw := range m.Roles {
		if r, ok := domain.ParseRole(raw); ok {
			roles = append(roles, r)
		}
	}
	return domain.User{
		UserID:       m.UserID,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Roles:        roles,
		CreatedAt:    m.CreatedAt.UTC(),
	}
}
