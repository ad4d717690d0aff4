package handler

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	catalogapp "github.com/commerce/backend/internal/application/catalog"
	exportapp "github.com/commerce/backend/internal/application/export"
	"github.com/commerce/backend/internal/interfaces/http/dto"
)

const maxProductImageBytes = 5 << 20

// ProductHandler handles product catalog endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
	storage        exportapp.ObjectStorage
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService, storage exportapp.ObjectStorage) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		storage:        storage,
	}
}

// CreateProductRequest is the request body for creating a product
type CreateProductRequest struct {
	Name           string          `json:"name" binding:"required,min=1,max=200"`
	Description    string          `json:"description" binding:"max=5000"`
	Price          decimal.Decimal `json:"price" binding:"required"`
	IsDiscountable *bool           `json:"is_discountable"`
	SubCategoryIDs []uuid.UUID     `json:"sub_category_ids"`
}

// UpdateProductRequest is the request body for updating a product
type UpdateProductRequest struct {
	Name        string          `json:"name" binding:"required,min=1,max=200"`
	Description string          `json:"description" binding:"max=5000"`
	Price       decimal.Decimal `json:"price" binding:"required"`
}

// SubCategoryAssignmentRequest names a subcategory for assignment operations
type SubCategoryAssignmentRequest struct {
	SubCategoryID uuid.UUID `json:"sub_category_id" binding:"required"`
}

// Create creates a new product
func (h *ProductHandler) Create(c *gin.Context) {
	var req CreateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	discountable := true
	if req.IsDiscountable != nil {
		discountable = *req.IsDiscountable
	}

	product, err := h.productService.Create(c.Request.Context(), catalogapp.CreateProductInput{
		Name:           req.Name,
		Description:    req.Description,
		Price:          req.Price,
		IsDiscountable: discountable,
		SubCategoryIDs: req.SubCategoryIDs,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toProductResponse(product))
}

// Get returns a product by ID
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	product, err := h.productService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toProductResponse(product))
}

// GetBySlug returns a product by its URL slug
func (h *ProductHandler) GetBySlug(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		h.BadRequest(c, "Slug is required")
		return
	}

	product, err := h.productService.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toProductResponse(product))
}

// List returns a paginated list of products
func (h *ProductHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.productService.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, toProductResponses(result.Items), result.Total, result.Page, result.PageSize)
}

// ListBySubCategory returns the products assigned to a subcategory
func (h *ProductHandler) ListBySubCategory(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.productService.ListBySubCategory(c.Request.Context(), id, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, toProductResponses(result.Items), result.Total, result.Page, result.PageSize)
}

// Update changes a product's name, description and price
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	var req UpdateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}

	product, err := h.productService.Update(c.Request.Context(), catalogapp.UpdateProductInput{
		ProductID:   id,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toProductResponse(product))
}

// UploadImage stores a product image in object storage and records its key
func (h *ProductHandler) UploadImage(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		h.BadRequest(c, "Image file is required")
		return
	}
	if fileHeader.Size > maxProductImageBytes {
		h.Error(c, http.StatusRequestEntityTooLarge, "REQUEST_TOO_LARGE", "Image exceeds the maximum allowed size")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.InternalError(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxProductImageBytes))
	if err != nil {
		h.InternalError(c, "Failed to read uploaded file")
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	key := fmt.Sprintf("products/%s/image%s", id, ext)

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	if err := h.storage.Upload(c.Request.Context(), key, data, contentType); err != nil {
		h.InternalError(c, "Failed to store image")
		return
	}

	if err := h.productService.SetImage(c.Request.Context(), id, key); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"image_key": key})
}

// Activate makes a product visible and orderable
func (h *ProductHandler) Activate(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	if err := h.productService.Activate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Deactivate hides a product from the catalog
func (h *ProductHandler) Deactivate(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	if err := h.productService.Deactivate(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// AssignSubCategory places the product into a subcategory
func (h *ProductHandler) AssignSubCategory(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	var req SubCategoryAssignmentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.productService.AssignSubCategory(c.Request.Context(), id, req.SubCategoryID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RemoveSubCategory removes the product from a subcategory
func (h *ProductHandler) RemoveSubCategory(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	subCategoryID, err := uuid.Parse(c.Param("subCategoryId"))
	if err != nil {
		h.BadRequest(c, "Invalid subcategory ID format")
		return
	}

	if err := h.productService.RemoveSubCategory(c.Request.Context(), id, subCategoryID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Delete removes a product from the catalog
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
