package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"business-app-server/internal/tenant"
)

func TestAuthorizeEmptyRequirementAlwaysPasses(t *testing.T) {
	svc := newTestService(newFakeStore())

	membership, err := svc.Authorize(context.Background(), "", nil, nil)
	require.NoError(t, err)
	require.Nil(t, membership)
}

func TestAuthorizeFailureTaxonomy(t *testing.T) {
	store := newFakeStore()
	user := store.addUser("admin@ejemplo.com", "password123", true)
	svc := newTestService(store)
	ref := &tenant.Ref{Slug: "empresa-a"}

	t.Run("no identity", func(t *testing.T) {
		_, err := svc.Authorize(context.Background(), "", ref, []string{"users.manage"})
		require.ErrorIs(t, err, ErrForbidden)
	})
	t.Run("no tenant", func(t *testing.T) {
		_, err := svc.Authorize(context.Background(), user.ID, nil, []string{"users.manage"})
		require.ErrorIs(t, err, ErrForbidden)
	})
	t.Run("no membership", func(t *testing.T) {
		_, err := svc.Authorize(context.Background(), user.ID, ref, []string{"users.manage"})
		require.ErrorIs(t, err, ErrForbidden)
	})
}

func TestAuthorizeRequiresEveryPermission(t *testing.T) {
	store := newFakeStore()
	user := store.addUser("admin@ejemplo.com", "password123", true)
	companyID := uuid.New().String()
	store.memberships = append(store.memberships,
		membershipFor(user, companyID, "empresa-a", "admin", "a", "b"))
	svc := newTestService(store)
	ref := &tenant.Ref{Slug: "empresa-a"}

	membership, err := svc.Authorize(context.Background(), user.ID, ref, []string{"a", "b"})
	require.NoError(t, err)
	require.NotNil(t, membership)
	require.Equal(t, companyID, membership.CompanyID)

	// Partial match is not sufficient.
	_, err = svc.Authorize(context.Background(), user.ID, ref, []string{"a", "c"})
	require.ErrorIs(t, err, ErrForbidden)
}

func TestAuthorizeIsTenantScoped(t *testing.T) {
	store := newFakeStore()
	user := store.addUser("admin@ejemplo.com", "password123", true)
	store.memberships = append(store.memberships,
		membershipFor(user, uuid.New().String(), "empresa-a", "admin", "users.manage"),
		membershipFor(user, uuid.New().String(), "empresa-b", "member", "products.view"))
	svc := newTestService(store)

	// The admin permission held in empresa-a does not carry over to empresa-b.
	_, err := svc.Authorize(context.Background(), user.ID, &tenant.Ref{Slug: "empresa-b"}, []string{"users.manage"})
	require.ErrorIs(t, err, ErrForbidden)

	membership, err := svc.Authorize(context.Background(), user.ID, &tenant.Ref{Slug: "empresa-b"}, []string{"products.view"})
	require.NoError(t, err)
	require.Equal(t, "member", membership.Role.Name)
}
