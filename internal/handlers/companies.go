package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"business-app-server/internal/tenant"
	"business-app-server/internal/utils"
)

// CompanyHandler serves company records. The theming lookup is public: the
// frontend needs colors before anyone is logged in.
type CompanyHandler struct {
	DB *gorm.DB
}

// NewCompanyHandler creates a new CompanyHandler.
func NewCompanyHandler(db *gorm.DB) *CompanyHandler {
	return &CompanyHandler{DB: db}
}

// GetCompany fetches a company by id or slug.
func (h *CompanyHandler) GetCompany(c *gin.Context) {
	company, err := tenant.Resolve(h.DB, &tenant.Ref{ID: c.Param("idOrSlug")})
	if err != nil {
		if errors.Is(err, tenant.ErrUnknown) {
			utils.NotFound(c, "Company not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	utils.Success(c, "Company fetched successfully", company)
}
