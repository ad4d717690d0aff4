package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogapp "github.com/commerce/backend/internal/application/catalog"
	"github.com/commerce/backend/internal/interfaces/http/dto"
)

// CategoryHandler handles category and subcategory endpoints
type CategoryHandler struct {
	BaseHandler
	categoryService *catalogapp.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *catalogapp.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CreateCategoryRequest is the request body for creating a category
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// RenameCategoryRequest is the request body for renaming a category
type RenameCategoryRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// CreateSubCategoryRequest is the request body for creating a subcategory
type CreateSubCategoryRequest struct {
	Name       string    `json:"name" binding:"required,min=1,max=100"`
	CategoryID uuid.UUID `json:"category_id" binding:"required"`
}

// MoveSubCategoryRequest is the request body for moving a subcategory
type MoveSubCategoryRequest struct {
	CategoryID uuid.UUID `json:"category_id" binding:"required"`
}

// Create creates a new category
func (h *CategoryHandler) Create(c *gin.Context) {
	var req CreateCategoryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.CreateCategory(c.Request.Context(), catalogapp.CreateCategoryInput{
		Name: req.Name,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toCategoryResponse(category))
}

// Get returns a category by ID
func (h *CategoryHandler) Get(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	category, err := h.categoryService.GetCategory(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toCategoryResponse(category))
}

// List returns a paginated list of categories
func (h *CategoryHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.categoryService.ListCategories(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, toCategoryResponses(result.Items), result.Total, result.Page, result.PageSize)
}

// Rename changes a category's name
func (h *CategoryHandler) Rename(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	var req RenameCategoryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.RenameCategory(c.Request.Context(), id, req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toCategoryResponse(category))
}

// Delete removes a category
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	if err := h.categoryService.DeleteCategory(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// CreateSubCategory creates a subcategory under a category
func (h *CategoryHandler) CreateSubCategory(c *gin.Context) {
	var req CreateSubCategoryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sub, err := h.categoryService.CreateSubCategory(c.Request.Context(), catalogapp.CreateSubCategoryInput{
		Name:       req.Name,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toSubCategoryResponse(sub))
}

// GetSubCategory returns a subcategory by ID
func (h *CategoryHandler) GetSubCategory(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	sub, err := h.categoryService.GetSubCategory(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toSubCategoryResponse(sub))
}

// GetSubCategoryBySlug returns a subcategory by slug
func (h *CategoryHandler) GetSubCategoryBySlug(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		h.BadRequest(c, "Slug is required")
		return
	}

	sub, err := h.categoryService.GetSubCategoryBySlug(c.Request.Context(), slug)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toSubCategoryResponse(sub))
}

// ListSubCategories returns the subcategories of a category
func (h *CategoryHandler) ListSubCategories(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	subs, err := h.categoryService.ListSubCategories(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toSubCategoryResponses(subs))
}

// RenameSubCategory changes a subcategory's name and slug
func (h *CategoryHandler) RenameSubCategory(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	var req RenameCategoryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	sub, err := h.categoryService.RenameSubCategory(c.Request.Context(), id, req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toSubCategoryResponse(sub))
}

// MoveSubCategory reparents a subcategory
func (h *CategoryHandler) MoveSubCategory(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	var req MoveSubCategoryRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.categoryService.MoveSubCategory(c.Request.Context(), id, req.CategoryID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// DeleteSubCategory removes a subcategory
func (h *CategoryHandler) DeleteSubCategory(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	if err := h.categoryService.DeleteSubCategory(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
