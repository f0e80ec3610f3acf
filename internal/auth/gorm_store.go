package auth

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"business-app-server/internal/models"
	"business-app-server/internal/tenant"
)

// GormStore implements CredentialStore, TokenLedger and MembershipStore on
// the shared gorm handle.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps the database handle.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	return s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Update("last_login", at).Error
}

func (s *GormStore) Insert(ctx context.Context, token *models.RefreshToken) error {
	return s.db.WithContext(ctx).Create(token).Error
}

func (s *GormStore) Find(ctx context.Context, id string) (*models.RefreshToken, error) {
	var row models.RefreshToken
	err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// Consume flips revoked in a single conditional UPDATE so that two
// concurrent rotations of the same row cannot both succeed.
func (s *GormStore) Consume(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("id = ? AND revoked = ?", id, false).
		Update("revoked", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInvalidToken
	}
	return nil
}

func (s *GormStore) Revoke(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("id = ?", id).
		Update("revoked", true).Error
}

func (s *GormStore) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("expires_at < ? OR (revoked = ? AND updated_at < ?)", cutoff, true, cutoff).
		Delete(&models.RefreshToken{})
	return res.RowsAffected, res.Error
}

func (s *GormStore) FindForTenant(ctx context.Context, userID string, ref *tenant.Ref) (*models.Membership, error) {
	var membership models.Membership
	err := s.db.WithContext(ctx).
		Joins("JOIN companies ON companies.id = memberships.company_id").
		Where("memberships.user_id = ? AND (companies.id = ? OR companies.slug = ?)", userID, ref.Value(), ref.Value()).
		Preload("Company").
		Preload("Role.RolePermissions.Permission").
		First(&membership).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &membership, nil
}

func (s *GormStore) ListForUser(ctx context.Context, userID string) ([]models.Membership, error) {
	var memberships []models.Membership
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Company").
		Preload("Role.RolePermissions.Permission").
		Find(&memberships).Error
	if err != nil {
		return nil, err
	}
	return memberships, nil
}
