package models

// Product is a tenant-scoped business entity: every row belongs to exactly
// one company and is only reachable through the tenant-scoped data layer.
type Product struct {
	BaseModel
	CompanyID   string  `gorm:"size:36;index;not null" json:"companyId"`
	Name        string  `gorm:"size:255;not null" json:"name"`
	Description string  `gorm:"size:1000" json:"description"`
	Price       float64 `gorm:"not null" json:"price"`
	Stock       int     `gorm:"default:0" json:"stock"`

	Company Company `gorm:"foreignKey:CompanyID" json:"-"`
}

// StampCompany implements tenantdb.Entity.
func (p *Product) StampCompany(companyID string) {
	p.CompanyID = companyID
}
