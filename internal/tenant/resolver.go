package tenant

import (
	"errors"
	"net"
	"strings"

	"gorm.io/gorm"

	"business-app-server/internal/models"
)

var (
	// ErrNotSupplied means the request carried no tenant reference at all.
	ErrNotSupplied = errors.New("tenant: not supplied")
	// ErrUnknown means a reference was supplied but no company matches it.
	ErrUnknown = errors.New("tenant: unknown")
)

// Ref is an unresolved tenant reference taken from request metadata.
// Exactly one of ID or Slug is set; neither has been validated against
// storage yet.
type Ref struct {
	ID   string
	Slug string
}

// Identify derives the tenant reference from request metadata, first match
// wins: explicit x-tenant-id header, then subdomain when the host has more
// than two dot-separated labels, otherwise nil.
func Identify(headerValue, host string) *Ref {
	if id := strings.TrimSpace(headerValue); id != "" {
		return &Ref{ID: id}
	}

	labels := strings.Split(stripPort(host), ".")
	if len(labels) > 2 {
		return &Ref{Slug: labels[0]}
	}

	return nil
}

// Resolve validates a reference against the Company table, matching by id or
// slug. A nil ref yields ErrNotSupplied; a ref without a matching company
// yields ErrUnknown.
func Resolve(db *gorm.DB, ref *Ref) (*models.Company, error) {
	if ref == nil {
		return nil, ErrNotSupplied
	}

	var company models.Company
	err := db.Where("id = ? OR slug = ?", ref.Value(), ref.Value()).First(&company).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknown
		}
		return nil, err
	}
	return &company, nil
}

// Value returns the identifying string, whichever of ID or Slug is set.
func (r *Ref) Value() string {
	if r.ID != "" {
		return r.ID
	}
	return r.Slug
}

func stripPort(host string) string {
	if strings.Contains(host, ":") {
		if h, _, err := net.SplitHostPort(host); err == nil {
			return h
		}
	}
	return host
}
