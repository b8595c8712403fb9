// internal/handlers/product/product_handler.go
package product

import (
	"net/http"
	"strconv"

	"insurica-service/internal/domain/product"
	"insurica-service/internal/pkg/response"
	service "insurica-service/internal/service/product"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	productService *service.ProductService
}

func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// CreateProduct adds a catalogue product. Admin only.
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req product.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.productService.CreateProduct(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err, "failed to create product")
		return
	}

	response.Success(c, http.StatusCreated, "product created", result)
}

// GetProduct retrieves a product by ID.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid product ID", err)
		return
	}

	result, err := h.productService.GetProduct(c.Request.Context(), productID)
	if err != nil {
		response.FromError(c, err, "failed to load product")
		return
	}

	response.Success(c, http.StatusOK, "product retrieved", result)
}

// GetProductByCode retrieves a product by catalogue code.
func (h *ProductHandler) GetProductByCode(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		response.ValidationError(c, "product code is required", nil)
		return
	}

	result, err := h.productService.GetProductByCode(c.Request.Context(), code)
	if err != nil {
		response.FromError(c, err, "failed to load product")
		return
	}

	response.Success(c, http.StatusOK, "product retrieved", result)
}

// ListProducts retrieves catalogue products with filters.
func (h *ProductHandler) ListProducts(c *gin.Context) {
	var filters product.ProductListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	result, err := h.productService.ListProducts(c.Request.Context(), &filters)
	if err != nil {
		response.FromError(c, err, "failed to list products")
		return
	}

	response.Success(c, http.StatusOK, "products retrieved", result)
}

// UpdateProduct updates a product. Admin only.
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid product ID", err)
		return
	}

	var req product.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.productService.UpdateProduct(c.Request.Context(), productID, &req)
	if err != nil {
		response.FromError(c, err, "failed to update product")
		return
	}

	response.Success(c, http.StatusOK, "product updated", result)
}

// SetProductActive toggles a product's availability. Admin only.
func (h *ProductHandler) SetProductActive(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid product ID", err)
		return
	}

	var req struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	if err := h.productService.SetProductActive(c.Request.Context(), productID, *req.IsActive); err != nil {
		response.FromError(c, err, "failed to update product status")
		return
	}

	response.Success(c, http.StatusOK, "product status updated", nil)
}

// DeleteProduct soft deletes a product. Admin only.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid product ID", err)
		return
	}

	if err := h.productService.DeleteProduct(c.Request.Context(), productID); err != nil {
		response.FromError(c, err, "failed to delete product")
		return
	}

	response.Success(c, http.StatusOK, "product deleted", nil)
}
