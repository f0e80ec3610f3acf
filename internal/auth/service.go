package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"business-app-server/internal/config"
	"business-app-server/internal/models"
	"business-app-server/internal/tenant"
	"business-app-server/internal/utils"
)

// rawSecretBytes is the entropy of the random half of a composite token.
const rawSecretBytes = 48

// Session is the result of a successful login or refresh.
type Session struct {
	AccessToken  string
	RefreshToken string // composite "{id}.{secret}", only copy of the raw secret
	ExpiresIn    int64  // access token lifetime in seconds
	User         *models.User
	TenantID     string
	Role         string
}

// Service orchestrates the token lifecycle: login, refresh rotation, logout
// and identity validation.
type Service struct {
	users       CredentialStore
	ledger      TokenLedger
	memberships MembershipStore
	cfg         *config.Config
	log         *zap.SugaredLogger
	now         func() time.Time
}

// NewService wires the session service.
func NewService(users CredentialStore, ledger TokenLedger, memberships MembershipStore, cfg *config.Config, log *zap.SugaredLogger) *Service {
	return &Service{
		users:       users,
		ledger:      ledger,
		memberships: memberships,
		cfg:         cfg,
		log:         log,
		now:         time.Now,
	}
}

// Login verifies the credentials and issues a fresh token pair. Unknown
// email, inactive user and wrong password all surface as
// ErrInvalidCredentials. When tenantRef names a company the user belongs to,
// the access token additionally carries tenant and role claims.
func (s *Service) Login(ctx context.Context, email, password, tenantRef string) (*Session, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive || !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	if err := s.users.TouchLastLogin(ctx, user.ID, s.now()); err != nil {
		return nil, err
	}

	var tenantID, role string
	if tenantRef != "" {
		membership, err := s.memberships.FindForTenant(ctx, user.ID, &tenant.Ref{ID: tenantRef})
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		if membership != nil {
			tenantID = membership.CompanyID
			role = membership.Role.Name
		}
	}

	return s.issueSession(ctx, user, tenantID, role)
}

// Refresh consumes a composite refresh token and rotates it. The consumed
// token becomes permanently unusable; of N concurrent calls with the same
// composite exactly one succeeds. The new access token carries no tenant
// claims.
func (s *Service) Refresh(ctx context.Context, composite string) (*Session, error) {
	id, secret, err := splitComposite(composite)
	if err != nil {
		return nil, err
	}

	row, err := s.ledger.Find(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	// Revoked, expired and digest mismatch are deliberately indistinguishable
	// to the caller; the detail is only logged.
	switch {
	case row.Revoked:
		s.log.Infow("refresh rejected", "reason", "revoked", "token_id", id)
		return nil, ErrInvalidToken
	case s.now().After(row.ExpiresAt):
		s.log.Infow("refresh rejected", "reason", "expired", "token_id", id)
		return nil, ErrInvalidToken
	case !digestMatches(secret, row.TokenHash):
		s.log.Warnw("refresh rejected", "reason", "digest mismatch", "token_id", id)
		return nil, ErrInvalidToken
	}

	// Atomic consume: a concurrent rotation of the same row loses here.
	if err := s.ledger.Consume(ctx, id); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, row.UserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	return s.issueSession(ctx, user, "", "")
}

// Logout revokes the ledger row named by the composite token. It is
// best-effort and idempotent: missing, malformed or already-revoked tokens
// are not an error.
func (s *Service) Logout(ctx context.Context, composite string) {
	if composite == "" {
		return
	}
	id, _, found := strings.Cut(composite, ".")
	if !found || id == "" {
		return
	}
	if err := s.ledger.Revoke(ctx, id); err != nil {
		s.log.Debugw("logout revoke skipped", "token_id", id, "error", err)
	}
}

// ValidateUser re-confirms an identity beyond the token's claims. Missing
// and inactive users both yield ErrUnauthorized.
func (s *Service) ValidateUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUnauthorized
	}
	return user, nil
}

// Memberships lists the user's memberships with roles and permissions.
func (s *Service) Memberships(ctx context.Context, userID string) ([]models.Membership, error) {
	return s.memberships.ListForUser(ctx, userID)
}

// PurgeExpired removes ledger rows that expired or were revoked before the
// configured retention window. Expiry itself is detected lazily at refresh
// time; this only reclaims storage.
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	cutoff := s.now().AddDate(0, 0, -s.cfg.LedgerRetentionDays)
	purged, err := s.ledger.PurgeBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if purged > 0 {
		s.log.Infow("refresh token ledger purged", "rows", purged, "cutoff", cutoff)
	}
	return purged, nil
}

func (s *Service) issueSession(ctx context.Context, user *models.User, tenantID, role string) (*Session, error) {
	accessToken, expiresAt, err := utils.GenerateAccessToken(user, tenantID, role, s.cfg)
	if err != nil {
		return nil, err
	}

	composite, err := s.issueRefreshToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &Session{
		AccessToken:  accessToken,
		RefreshToken: composite,
		ExpiresIn:    int64(time.Until(expiresAt).Seconds()),
		User:         user,
		TenantID:     tenantID,
		Role:         role,
	}, nil
}

func (s *Service) issueRefreshToken(ctx context.Context, userID string) (string, error) {
	buf := make([]byte, rawSecretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate refresh secret: %w", err)
	}
	raw := hex.EncodeToString(buf)

	row := &models.RefreshToken{
		UserID:    userID,
		TokenHash: digest(raw),
		ExpiresAt: s.now().AddDate(0, 0, s.cfg.RefreshExpirationDays),
	}
	if err := s.ledger.Insert(ctx, row); err != nil {
		return "", err
	}

	return row.ID + "." + raw, nil
}

// splitComposite parses "{id}.{secret}" on the first separator.
func splitComposite(composite string) (id, secret string, err error) {
	if composite == "" {
		return "", "", ErrMalformedToken
	}
	id, secret, found := strings.Cut(composite, ".")
	if !found || id == "" || secret == "" {
		return "", "", ErrMalformedToken
	}
	return id, secret, nil
}

func digest(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func digestMatches(raw, stored string) bool {
	return subtle.ConstantTimeCompare([]byte(digest(raw)), []byte(stored)) == 1
}
