package domain

import (
	"github.com/SscSPs/compliance_transfer_app/internal/apperrors"
	"github.com/google/uuid"
)

// Role is a capability granted to an authenticated user.
type Role string

const (
	RoleAdmin             Role = "Admin"
	RoleRequester         Role = "Requester"
	RoleApprover          Role = "Approver"
	RoleComplianceOfficer Role = "ComplianceOfficer"
	RoleAuditor           Role = "Auditor"
)

// ReviewerRoles may approve or reject requests in review.
var ReviewerRoles = []Role{RoleApprover, RoleComplianceOfficer, RoleAdmin}

// ParseRole converts a raw role name into a Role.
func ParseRole(raw string) (Role, bool) {
	r := Role(raw)
	switch r {
	case RoleAdmin, RoleRequester, RoleApprover, RoleComplianceOfficer, RoleAuditor:
		return r, true
	default:
		return "", false
	}
}

// Principal is the authenticated caller as supplied by the identity provider.
type Principal struct {
	UserID string
	Roles  []Role
}

// HasAnyRole reports whether the principal holds at least one of roles.
func (p Principal) HasAnyRole(roles ...Role) bool {
	for _, held := range p.Roles {
		for _, want := range roles {
			if held == want {
				return true
			}
		}
	}
	return false
}

// ResolveUserID returns the principal's user id, failing when it is not a valid UUID.
func (p Principal) ResolveUserID() (string, error) {
	id, err := uuid.Parse(p.UserID)
	if err != nil {
		return "", apperrors.NewUnauthorizedError("Invalid user identity.")
	}
	return id.String(), nil
}
