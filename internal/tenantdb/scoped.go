// Package tenantdb wraps a gorm handle so that operations on tenant-scoped
// models are always constrained to one company. A Scoped value is built per
// request from the resolved tenant id and holds no other state, so tenant
// context cannot leak between concurrent requests.
//
// The wrapped operations form a fixed, auditable set: FindUnique, FindFirst,
// FindMany, Create, UpdateByID, UpdateMany, DeleteByID and DeleteMany. Models
// opt in by implementing Entity; everything else passes through unmodified,
// as do all operations when no tenant was resolved.
package tenantdb

import (
	"gorm.io/gorm"
)

// companyColumn is the foreign key column every tenant-scoped table carries.
const companyColumn = "company_id"

// Entity is implemented by models that belong to exactly one company.
type Entity interface {
	StampCompany(companyID string)
}

// Scoped is a request-scoped, tenant-bound view over the database.
type Scoped struct {
	db       *gorm.DB
	tenantID string
}

// New builds a Scoped view bound to tenantID. An empty tenantID produces a
// passthrough view (no tenant was resolved for the request).
func New(db *gorm.DB, tenantID string) *Scoped {
	return &Scoped{db: db, tenantID: tenantID}
}

// TenantID returns the tenant the view is bound to, empty if none.
func (s *Scoped) TenantID() string {
	return s.tenantID
}

// DB exposes the underlying handle for models outside the scoped set.
func (s *Scoped) DB() *gorm.DB {
	return s.db
}

func (s *Scoped) applies(model any) bool {
	if s.tenantID == "" {
		return false
	}
	_, ok := model.(Entity)
	return ok
}

// mergeFilter copies the caller's filter and forces the tenant constraint.
// The caller cannot omit or forge company_id: whatever it supplied for that
// column is overwritten.
func (s *Scoped) mergeFilter(filter map[string]any) map[string]any {
	merged := make(map[string]any, len(filter)+1)
	for k, v := range filter {
		merged[k] = v
	}
	merged[companyColumn] = s.tenantID
	return merged
}

// FindUnique looks up one row by primary key. For scoped models the point
// lookup becomes an existence check on id AND company, so another tenant's
// row is indistinguishable from a missing one.
func FindUnique[T any](s *Scoped, id string) (*T, error) {
	var row T
	q := s.db.Where("id = ?", id)
	if s.applies(&row) {
		q = q.Where(companyColumn+" = ?", s.tenantID)
	}
	if err := q.First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindFirst returns the first row matching the filter.
func FindFirst[T any](s *Scoped, filter map[string]any) (*T, error) {
	var row T
	conds := filter
	if s.applies(&row) {
		conds = s.mergeFilter(filter)
	}
	if err := s.db.Where(conds).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindMany returns all rows matching the filter.
func FindMany[T any](s *Scoped, filter map[string]any) ([]T, error) {
	var rows []T
	conds := filter
	if s.applies(new(T)) {
		conds = s.mergeFilter(filter)
	}
	q := s.db
	if len(conds) > 0 {
		q = q.Where(conds)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Create inserts the row, stamping the tenant's company id over whatever the
// caller set on a scoped model.
func Create[T any](s *Scoped, row *T) error {
	if s.applies(row) {
		any(row).(Entity).StampCompany(s.tenantID)
	}
	return s.db.Create(row).Error
}

// UpdateByID applies values to the row with the given id, constrained to the
// tenant for scoped models. Returns the number of rows touched.
func UpdateByID[T any](s *Scoped, id string, values map[string]any) (int64, error) {
	filter := map[string]any{"id": id}
	return UpdateMany[T](s, filter, values)
}

// UpdateMany applies values to all rows matching the filter.
func UpdateMany[T any](s *Scoped, filter map[string]any, values map[string]any) (int64, error) {
	conds := filter
	if s.applies(new(T)) {
		conds = s.mergeFilter(filter)
	}
	res := s.db.Model(new(T)).Where(conds).Updates(values)
	return res.RowsAffected, res.Error
}

// DeleteByID removes the row with the given id, constrained to the tenant
// for scoped models.
func DeleteByID[T any](s *Scoped, id string) (int64, error) {
	return DeleteMany[T](s, map[string]any{"id": id})
}

// DeleteMany removes all rows matching the filter.
func DeleteMany[T any](s *Scoped, filter map[string]any) (int64, error) {
	conds := filter
	if s.applies(new(T)) {
		conds = s.mergeFilter(filter)
	}
	res := s.db.Where(conds).Delete(new(T))
	return res.RowsAffected, res.Error
}
