package models

// Company is the tenant isolation boundary. Rows carrying a CompanyID
// foreign key are only reachable through the tenant-scoped data layer.
type Company struct {
	BaseModel
	Name            string `gorm:"size:255;not null" json:"name"`
	Slug            string `gorm:"uniqueIndex;size:100;not null" json:"slug"`
	ThemeColor      string `gorm:"size:50" json:"themeColor"`
	ThemeName       string `gorm:"size:100" json:"themeName"`
	DarkModeDefault bool   `gorm:"default:false" json:"darkModeDefault"`

	Memberships []Membership `gorm:"foreignKey:CompanyID" json:"-"`
	Products    []Product    `gorm:"foreignKey:CompanyID" json:"-"`
}
