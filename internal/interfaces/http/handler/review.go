package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	reviewapp "github.com/commerce/backend/internal/application/review"
	"github.com/commerce/backend/internal/domain/identity"
	"github.com/commerce/backend/internal/interfaces/http/dto"
)

// ReviewHandler handles product review endpoints
type ReviewHandler struct {
	BaseHandler
	reviewService *reviewapp.ReviewService
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviewService *reviewapp.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// SubmitReviewRequest is the request body for submitting a review
type SubmitReviewRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Rating    int       `json:"rating" binding:"min=0,max=5"`
	Title     string    `json:"title" binding:"required,min=1,max=200"`
	Body      string    `json:"body" binding:"max=5000"`
}

// UpdateReviewRequest is the request body for editing a review
type UpdateReviewRequest struct {
	Rating int    `json:"rating" binding:"min=0,max=5"`
	Title  string `json:"title" binding:"required,min=1,max=200"`
	Body   string `json:"body" binding:"max=5000"`
}

// Submit creates or replaces the caller's review of a product
func (h *ReviewHandler) Submit(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req SubmitReviewRequest
	if !h.BindJSON(c, &req) {
		return
	}

	r, err := h.reviewService.Submit(c.Request.Context(), reviewapp.SubmitReviewInput{
		ProductID: req.ProductID,
		UserID:    userID,
		Rating:    req.Rating,
		Title:     req.Title,
		Body:      req.Body,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toReviewResponse(r))
}

// Update edits the caller's own review
func (h *ReviewHandler) Update(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req UpdateReviewRequest
	if !h.BindJSON(c, &req) {
		return
	}

	r, err := h.reviewService.Update(c.Request.Context(), reviewapp.UpdateReviewInput{
		ReviewID: id,
		UserID:   userID,
		Rating:   req.Rating,
		Title:    req.Title,
		Body:     req.Body,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toReviewResponse(r))
}

// Delete removes a review. Moderators may remove any review.
func (h *ReviewHandler) Delete(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	isModerator := hasPermission(c, identity.CodeModerateReviews)
	if err := h.reviewService.Delete(c.Request.Context(), id, userID, isModerator); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Get returns a review by ID
func (h *ReviewHandler) Get(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	r, err := h.reviewService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toReviewResponse(r))
}

// ListByProduct returns the reviews of a product
func (h *ReviewHandler) ListByProduct(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.reviewService.ListByProduct(c.Request.Context(), id, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, toReviewResponses(result.Items), result.Total, result.Page, result.PageSize)
}

// VoteRequest carries the vote direction, +1 or -1
type VoteRequest struct {
	Value int `json:"value" binding:"required,oneof=1 -1"`
}

// Vote records an up or down vote on a review
func (h *ReviewHandler) Vote(c *gin.Context) {
	id, ok := h.BindID(c)
	if !ok {
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req VoteRequest
	if !h.BindJSON(c, &req) {
		return
	}

	r, err := h.reviewService.Vote(c.Request.Context(), id, userID, req.Value)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toReviewResponse(r))
}
