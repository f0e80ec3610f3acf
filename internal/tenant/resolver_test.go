package tenant_test

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"business-app-server/internal/tenant"
)

func TestIdentify(t *testing.T) {
	cases := []struct {
		name   string
		header string
		host   string
		want   *tenant.Ref
	}{
		{
			name:   "header wins over subdomain",
			header: "company-123",
			host:   "empresa-a.app.example.com",
			want:   &tenant.Ref{ID: "company-123"},
		},
		{
			name:   "header with surrounding whitespace",
			header: "  company-123  ",
			host:   "app.example.com",
			want:   &tenant.Ref{ID: "company-123"},
		},
		{
			name: "subdomain with three labels",
			host: "empresa-a.app.example",
			want: &tenant.Ref{Slug: "empresa-a"},
		},
		{
			name: "subdomain with four labels",
			host: "empresa-b.app.example.com",
			want: &tenant.Ref{Slug: "empresa-b"},
		},
		{
			name: "port is stripped before counting labels",
			host: "empresa-a.app.example.com:8080",
			want: &tenant.Ref{Slug: "empresa-a"},
		},
		{
			name: "two labels is not a subdomain",
			host: "example.com",
			want: nil,
		},
		{
			name: "bare host",
			host: "localhost",
			want: nil,
		},
		{
			name: "bare host with port",
			host: "localhost:3001",
			want: nil,
		},
		{
			name: "nothing supplied",
			want: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tenant.Identify(tc.header, tc.host)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestRefValue(t *testing.T) {
	require.Equal(t, "abc", (&tenant.Ref{ID: "abc"}).Value())
	require.Equal(t, "empresa-a", (&tenant.Ref{Slug: "empresa-a"}).Value())
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return db, mock
}

func TestResolveMatchesIDOrSlug(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT \\* FROM `companies` WHERE \\(?id = \\? OR slug = \\?\\)? ORDER BY").
		WithArgs("empresa-a", "empresa-a", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug"}).
			AddRow("c1", "Empresa A", "empresa-a"))

	company, err := tenant.Resolve(db, &tenant.Ref{Slug: "empresa-a"})
	require.NoError(t, err)
	require.Equal(t, "c1", company.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveUnknownReference(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT \\* FROM `companies`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "slug"}))

	_, err := tenant.Resolve(db, &tenant.Ref{ID: "nope"})
	require.ErrorIs(t, err, tenant.ErrUnknown)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveNilRef(t *testing.T) {
	_, err := tenant.Resolve(nil, nil)
	require.ErrorIs(t, err, tenant.ErrNotSupplied)
}
