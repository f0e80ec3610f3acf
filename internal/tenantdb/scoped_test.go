package tenantdb_test

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"business-app-server/internal/models"
	"business-app-server/internal/tenantdb"
)

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

func productColumns() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "company_id", "name", "price", "stock"})
}

func TestFindUniqueAddsTenantConstraint(t *testing.T) {
	db, mock := newMockDB(t)
	scoped := tenantdb.New(db, "tenant-a")

	mock.ExpectQuery("SELECT \\* FROM `products` WHERE id = \\? AND company_id = \\? ORDER BY").
		WithArgs("p1", "tenant-a", 1).
		WillReturnRows(productColumns().AddRow("p1", "tenant-a", "Widget", 9.99, 100))

	product, err := tenantdb.FindUnique[models.Product](scoped, "p1")
	require.NoError(t, err)
	require.Equal(t, "tenant-a", product.CompanyID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindUniqueOtherTenantRowLooksMissing(t *testing.T) {
	db, mock := newMockDB(t)
	scoped := tenantdb.New(db, "tenant-b")

	// The row exists under tenant-a; through tenant-b's view the filtered
	// lookup matches nothing.
	mock.ExpectQuery("SELECT \\* FROM `products` WHERE id = \\? AND company_id = \\? ORDER BY").
		WithArgs("p1", "tenant-b", 1).
		WillReturnRows(productColumns())

	_, err := tenantdb.FindUnique[models.Product](scoped, "p1")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindUniquePassthroughWithoutTenant(t *testing.T) {
	db, mock := newMockDB(t)
	scoped := tenantdb.New(db, "")

	mock.ExpectQuery("SELECT \\* FROM `products` WHERE id = \\? ORDER BY").
		WithArgs("p1", 1).
		WillReturnRows(productColumns().AddRow("p1", "tenant-a", "Widget", 9.99, 100))

	_, err := tenantdb.FindUnique[models.Product](scoped, "p1")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindManyOverridesForgedTenantFilter(t *testing.T) {
	db, mock := newMockDB(t)
	scoped := tenantdb.New(db, "tenant-a")

	// The caller tries to read tenant-b's rows; the merged filter keeps
	// only tenant-a.
	mock.ExpectQuery("SELECT \\* FROM `products` WHERE `company_id` = \\?").
		WithArgs("tenant-a").
		WillReturnRows(productColumns())

	products, err := tenantdb.FindMany[models.Product](scoped, map[string]any{"company_id": "tenant-b"})
	require.NoError(t, err)
	require.Empty(t, products)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindManyMergesCallerFilter(t *testing.T) {
	db, mock := newMockDB(t)
	scoped := tenantdb.New(db, "tenant-a")

	mock.ExpectQuery("SELECT \\* FROM `products` WHERE `company_id` = \\? AND `name` = \\?").
		WithArgs("tenant-a", "Widget").
		WillReturnRows(productColumns().AddRow("p1", "tenant-a", "Widget", 9.99, 100))

	products, err := tenantdb.FindMany[models.Product](scoped, map[string]any{"name": "Widget"})
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindManyUnscopedModelPassesThrough(t *testing.T) {
	db, mock := newMockDB(t)
	scoped := tenantdb.New(db, "tenant-a")

	// User does not implement Entity, so no tenant filter is injected.
	mock.ExpectQuery("SELECT \\* FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}).AddRow("u1", "admin@ejemplo.com"))

	users, err := tenantdb.FindMany[models.User](scoped, nil)
	require.NoError(t, err)
	require.Len(t, users, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateStampsTenantOverCallerValue(t *testing.T) {
	db, mock := newMockDB(t)
	scoped := tenantdb.New(db, "tenant-a")

	mock.ExpectExec("INSERT INTO `products`").
		WillReturnResult(sqlmock.NewResult(1, 1))

	product := models.Product{CompanyID: "tenant-b", Name: "Widget", Price: 9.99}
	require.NoError(t, tenantdb.Create(scoped, &product))
	require.Equal(t, "tenant-a", product.CompanyID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithoutTenantKeepsCallerValue(t *testing.T) {
	db, mock := newMockDB(t)
	scoped := tenantdb.New(db, "")

	mock.ExpectExec("INSERT INTO `products`").
		WillReturnResult(sqlmock.NewResult(1, 1))

	product := models.Product{CompanyID: "tenant-b", Name: "Widget", Price: 9.99}
	require.NoError(t, tenantdb.Create(scoped, &product))
	require.Equal(t, "tenant-b", product.CompanyID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateByIDConstrainedToTenant(t *testing.T) {
	db, mock := newMockDB(t)
	scoped := tenantdb.New(db, "tenant-a")

	mock.ExpectExec("UPDATE `products` SET .+ WHERE `company_id` = \\? AND `id` = \\?").
		WillReturnResult(sqlmock.NewResult(0, 1))

	rows, err := tenantdb.UpdateByID[models.Product](scoped, "p1", map[string]any{"name": "Renamed"})
	require.NoError(t, err)
	require.Equal(t, int64(1), rows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateManyCannotTargetOtherTenant(t *testing.T) {
	db, mock := newMockDB(t)
	scoped := tenantdb.New(db, "tenant-a")

	// Zero rows touched: all of tenant-b's rows are invisible to the update.
	mock.ExpectExec("UPDATE `products` SET .+ WHERE `company_id` = \\?").
		WillReturnResult(sqlmock.NewResult(0, 0))

	rows, err := tenantdb.UpdateMany[models.Product](scoped, map[string]any{"company_id": "tenant-b"}, map[string]any{"stock": 0})
	require.NoError(t, err)
	require.Zero(t, rows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteByIDConstrainedToTenant(t *testing.T) {
	db, mock := newMockDB(t)
	scoped := tenantdb.New(db, "tenant-a")

	mock.ExpectExec("DELETE FROM `products` WHERE `company_id` = \\? AND `id` = \\?").
		WithArgs("tenant-a", "p1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	rows, err := tenantdb.DeleteByID[models.Product](scoped, "p1")
	require.NoError(t, err)
	require.Equal(t, int64(1), rows)
	require.NoError(t, mock.ExpectationsWereMet())
}
