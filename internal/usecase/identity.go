package usecase

import (
	"context"

	"github.com/thinksaga/recruitkart-sub003/internal/domain"
	"github.com/thinksaga/recruitkart-sub003/pkg/apperror"
)

// callerID returns the authenticated subject's ID from the request
// context, as placed there by the authorization middleware.
func callerID(ctx context.Context) (string, error) {
	id, ok := ctx.Value(domain.KeyUserID).(string)
	if !ok || id == "" {
		return "", apperror.Unauthorized("User not authenticated")
	}
	return id, nil
}

func callerRole(ctx context.Context) (domain.Role, error) {
	role, ok := ctx.Value(domain.KeyUserRole).(domain.Role)
	if !ok || !role.Valid() {
		return "", apperror.Unauthorized("User not authenticated")
	}
	return role, nil
}

// callerOrgID returns the caller's organization, empty for roles that are
// not org-scoped.
func callerOrgID(ctx context.Context) string {
	org, _ := ctx.Value(domain.KeyUserOrgID).(string)
	return org
}
