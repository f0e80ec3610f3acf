package auth

import (
	"context"
	"time"

	"business-app-server/internal/models"
	"business-app-server/internal/tenant"
)

// CredentialStore persists user records and password digests.
type CredentialStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
}

// TokenLedger persists refresh-token rows. Consume must be atomic: of N
// concurrent calls for the same id, exactly one may succeed.
type TokenLedger interface {
	Insert(ctx context.Context, token *models.RefreshToken) error
	Find(ctx context.Context, id string) (*models.RefreshToken, error)
	// Consume marks the row revoked if and only if it is not revoked yet,
	// returning ErrInvalidToken when the row was already consumed or missing.
	Consume(ctx context.Context, id string) error
	// Revoke marks the row revoked regardless of prior state.
	Revoke(ctx context.Context, id string) error
	// PurgeBefore deletes rows that expired, or were revoked, before cutoff.
	PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// MembershipStore loads memberships with role and permissions preloaded.
type MembershipStore interface {
	FindForTenant(ctx context.Context, userID string, ref *tenant.Ref) (*models.Membership, error)
	ListForUser(ctx context.Context, userID string) ([]models.Membership, error)
}
