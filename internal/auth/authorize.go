package auth

import (
	"context"
	"errors"
	"fmt"

	"business-app-server/internal/models"
	"business-app-server/internal/tenant"
)

// Authorize checks that the identity holds every required permission in the
// referenced tenant and returns the resolved membership. An empty required
// set always passes. All failure modes wrap ErrForbidden; the detail is for
// server-side logs, not for the caller.
func (s *Service) Authorize(ctx context.Context, userID string, ref *tenant.Ref, required []string) (*models.Membership, error) {
	if len(required) == 0 {
		return nil, nil
	}

	if userID == "" {
		return nil, fmt.Errorf("%w: not authenticated", ErrForbidden)
	}
	if ref == nil {
		return nil, fmt.Errorf("%w: tenant not identified", ErrForbidden)
	}

	membership, err := s.memberships.FindForTenant(ctx, userID, ref)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: no membership for tenant", ErrForbidden)
		}
		return nil, err
	}

	granted := make(map[string]struct{})
	for _, key := range membership.PermissionKeys() {
		granted[key] = struct{}{}
	}
	for _, key := range required {
		if _, ok := granted[key]; !ok {
			return nil, fmt.Errorf("%w: insufficient permissions", ErrForbidden)
		}
	}

	return membership, nil
}
