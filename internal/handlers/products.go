package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"business-app-server/internal/middleware"
	"business-app-server/internal/models"
	"business-app-server/internal/tenantdb"
	"business-app-server/internal/utils"
)

// ProductHandler handles product requests. All data access goes through a
// tenant-scoped view built per request, so rows of other companies are
// unreachable no matter what the caller sends.
type ProductHandler struct {
	DB *gorm.DB
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(db *gorm.DB) *ProductHandler {
	return &ProductHandler{DB: db}
}

// scoped builds the request's tenant-bound view. The permission guard has
// already resolved the membership, so its company id is the tenant.
func (h *ProductHandler) scoped(c *gin.Context) *tenantdb.Scoped {
	rc := middleware.RequestCtx(c)
	tenantID := ""
	if rc.Membership != nil {
		tenantID = rc.Membership.CompanyID
	}
	return tenantdb.New(h.DB, tenantID)
}

// CreateProductRequest represents the request body for creating a product.
// Any caller-supplied company linkage is ignored: the row is stamped with
// the resolved tenant.
type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Stock       int     `json:"stock" binding:"gte=0"`
}

// CreateProduct handles creating a product in the resolved tenant.
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	}
	if err := tenantdb.Create(h.scoped(c), &product); err != nil {
		utils.InternalServerError(c, "Failed to create product: "+err.Error())
		return
	}

	utils.Created(c, "Product created successfully", product)
}

// GetProducts handles fetching all products of the resolved tenant.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	products, err := tenantdb.FindMany[models.Product](h.scoped(c), nil)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch products: "+err.Error())
		return
	}

	utils.Success(c, "Products fetched successfully", products)
}

// GetProductByID handles fetching a single product by ID. A product of
// another tenant yields the same 404 as a missing one.
func (h *ProductHandler) GetProductByID(c *gin.Context) {
	product, err := tenantdb.FindUnique[models.Product](h.scoped(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.NotFound(c, "Product not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	utils.Success(c, "Product fetched successfully", product)
}

// UpdateProductRequest represents the request body for updating a product.
type UpdateProductRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
}

// UpdateProduct handles updating a product by ID within the resolved tenant.
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	values := map[string]any{}
	if req.Name != "" {
		values["name"] = req.Name
	}
	if req.Description != "" {
		values["description"] = req.Description
	}
	if req.Price != nil {
		values["price"] = *req.Price
	}
	if req.Stock != nil {
		values["stock"] = *req.Stock
	}
	if len(values) == 0 {
		utils.BadRequest(c, "No fields to update")
		return
	}

	rows, err := tenantdb.UpdateByID[models.Product](h.scoped(c), c.Param("id"), values)
	if err != nil {
		utils.InternalServerError(c, "Failed to update product: "+err.Error())
		return
	}
	if rows == 0 {
		utils.NotFound(c, "Product not found")
		return
	}

	product, err := tenantdb.FindUnique[models.Product](h.scoped(c), c.Param("id"))
	if err != nil {
		utils.InternalServerError(c, "Failed to reload product: "+err.Error())
		return
	}
	utils.Success(c, "Product updated successfully", product)
}

// DeleteProduct handles deleting a product by ID within the resolved tenant.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	rows, err := tenantdb.DeleteByID[models.Product](h.scoped(c), c.Param("id"))
	if err != nil {
		utils.InternalServerError(c, "Failed to delete product: "+err.Error())
		return
	}
	if rows == 0 {
		utils.NotFound(c, "Product not found")
		return
	}

	utils.Success(c, "Product deleted successfully", nil)
}
