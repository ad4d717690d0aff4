package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/commerce/backend/internal/domain/address"
	"github.com/commerce/backend/internal/domain/catalog"
	"github.com/commerce/backend/internal/domain/export"
	"github.com/commerce/backend/internal/domain/identity"
	"github.com/commerce/backend/internal/domain/order"
	"github.com/commerce/backend/internal/domain/review"
	"github.com/commerce/backend/internal/domain/ticket"
	"github.com/commerce/backend/internal/domain/voucher"
)

// UserResponse is the API representation of a user account
type UserResponse struct {
	ID          uuid.UUID   `json:"id"`
	Username    string      `json:"username"`
	Email       string      `json:"email"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	IsActive    bool        `json:"is_active"`
	IsSuperuser bool        `json:"is_superuser"`
	GroupIDs    []uuid.UUID `json:"group_ids"`
	LastLoginAt *time.Time  `json:"last_login_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

func toUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		IsActive:    u.IsActive,
		IsSuperuser: u.IsSuperuser,
		GroupIDs:    u.GroupIDs,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func toUserResponses(users []*identity.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

// GroupResponse is the API representation of a permission group
type GroupResponse struct {
	ID            uuid.UUID   `json:"id"`
	Name          string      `json:"name"`
	Description   string      `json:"description"`
	IsActive      bool        `json:"is_active"`
	PermissionIDs []uuid.UUID `json:"permission_ids"`
	CreatedAt     time.Time   `json:"created_at"`
}

func toGroupResponse(g *identity.Group) GroupResponse {
	return GroupResponse{
		ID:            g.ID,
		Name:          g.Name,
		Description:   g.Description,
		IsActive:      g.IsActive,
		PermissionIDs: g.PermissionIDs,
		CreatedAt:     g.CreatedAt,
	}
}

func toGroupResponses(groups []*identity.Group) []GroupResponse {
	out := make([]GroupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, toGroupResponse(g))
	}
	return out
}

// PermissionResponse is the API representation of a permission
type PermissionResponse struct {
	ID          uuid.UUID `json:"id"`
	Action      string    `json:"action"`
	Object      string    `json:"object"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}

func toPermissionResponse(p *identity.Permission) PermissionResponse {
	return PermissionResponse{
		ID:          p.ID,
		Action:      string(p.Action),
		Object:      p.Object,
		Code:        p.Code(),
		Name:        p.Name,
		Description: p.Description,
	}
}

func toPermissionResponses(perms []*identity.Permission) []PermissionResponse {
	out := make([]PermissionResponse, 0, len(perms))
	for _, p := range perms {
		out = append(out, toPermissionResponse(p))
	}
	return out
}

// CategoryResponse is the API representation of a top-level category
type CategoryResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	IsActive bool      `json:"is_active"`
}

func toCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, IsActive: c.IsActive}
}

func toCategoryResponses(categories []*catalog.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, toCategoryResponse(c))
	}
	return out
}

// SubCategoryResponse is the API representation of a subcategory
type SubCategoryResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	CategoryID uuid.UUID `json:"category_id"`
	IsActive   bool      `json:"is_active"`
}

func toSubCategoryResponse(sc *catalog.SubCategory) SubCategoryResponse {
	return SubCategoryResponse{
		ID:         sc.ID,
		Name:       sc.Name,
		Slug:       sc.Slug,
		CategoryID: sc.CategoryID,
		IsActive:   sc.IsActive,
	}
}

func toSubCategoryResponses(subs []*catalog.SubCategory) []SubCategoryResponse {
	out := make([]SubCategoryResponse, 0, len(subs))
	for _, sc := range subs {
		out = append(out, toSubCategoryResponse(sc))
	}
	return out
}

// ProductResponse is the API representation of a product
type ProductResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Slug           string          `json:"slug"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price"`
	Rating         float64         `json:"rating"`
	ImageKey       string          `json:"image_key,omitempty"`
	IsActive       bool            `json:"is_active"`
	IsDiscountable bool            `json:"is_discountable"`
	SubCategoryIDs []uuid.UUID     `json:"sub_category_ids"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func toProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		Slug:           p.Slug,
		Description:    p.Description,
		Price:          p.Price,
		Rating:         p.Rating,
		ImageKey:       p.ImageKey,
		IsActive:       p.IsActive,
		IsDiscountable: p.IsDiscountable,
		SubCategoryIDs: p.SubCategoryIDs,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func toProductResponses(products []*catalog.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out
}

// OrderLineResponse is the API representation of an order line
type OrderLineResponse struct {
	ProductID                      uuid.UUID       `json:"product_id"`
	ProductName                    string          `json:"product_name"`
	Quantity                       int             `json:"quantity"`
	UnitPriceInclTax               decimal.Decimal `json:"unit_price_incl_tax"`
	UnitPriceExclTax               decimal.Decimal `json:"unit_price_excl_tax"`
	LinePriceInclTax               decimal.Decimal `json:"line_price_incl_tax"`
	LinePriceExclTax               decimal.Decimal `json:"line_price_excl_tax"`
	UnitPriceInclTaxBeforeDiscount decimal.Decimal `json:"unit_price_incl_tax_before_discount"`
	LinePriceInclTaxBeforeDiscount decimal.Decimal `json:"line_price_incl_tax_before_discount"`
}

// OrderResponse is the API representation of an order
type OrderResponse struct {
	ID           uuid.UUID           `json:"id"`
	Number       string              `json:"number"`
	UserID       *uuid.UUID          `json:"user_id,omitempty"`
	GuestEmail   string              `json:"guest_email,omitempty"`
	Status       string              `json:"status"`
	AddressID    *uuid.UUID          `json:"address_id,omitempty"`
	VoucherID    *uuid.UUID          `json:"voucher_id,omitempty"`
	TotalInclTax decimal.Decimal     `json:"total_incl_tax"`
	TotalExclTax decimal.Decimal     `json:"total_excl_tax"`
	Lines        []OrderLineResponse `json:"lines"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

func toOrderResponse(o *order.Order) OrderResponse {
	lines := make([]OrderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, OrderLineResponse{
			ProductID:                      l.ProductID,
			ProductName:                    l.ProductName,
			Quantity:                       l.Quantity,
			UnitPriceInclTax:               l.UnitPriceInclTax,
			UnitPriceExclTax:               l.UnitPriceExclTax,
			LinePriceInclTax:               l.LinePriceInclTax,
			LinePriceExclTax:               l.LinePriceExclTax,
			UnitPriceInclTaxBeforeDiscount: l.UnitPriceInclTaxBeforeDiscount,
			LinePriceInclTaxBeforeDiscount: l.LinePriceInclTaxBeforeDiscount,
		})
	}
	return OrderResponse{
		ID:           o.ID,
		Number:       o.Number,
		UserID:       o.UserID,
		GuestEmail:   o.GuestEmail,
		Status:       string(o.Status),
		AddressID:    o.AddressID,
		VoucherID:    o.VoucherID,
		TotalInclTax: o.TotalInclTax,
		TotalExclTax: o.TotalExclTax,
		Lines:        lines,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

func toOrderResponses(orders []*order.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return out
}

// VoucherResponse is the API representation of a voucher
type VoucherResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Code      string          `json:"code"`
	Usage     string          `json:"usage"`
	Discount  decimal.Decimal `json:"discount"`
	StartsAt  time.Time       `json:"starts_at"`
	EndsAt    time.Time       `json:"ends_at"`
	NumOrders int             `json:"num_orders"`
	IsActive  bool            `json:"is_active"`
}

func toVoucherResponse(v *voucher.Voucher) VoucherResponse {
	return VoucherResponse{
		ID:        v.ID,
		Name:      v.Name,
		Code:      v.Code,
		Usage:     string(v.Usage),
		Discount:  v.Discount,
		StartsAt:  v.StartsAt,
		EndsAt:    v.EndsAt,
		NumOrders: v.NumOrders,
		IsActive:  v.IsActive,
	}
}

func toVoucherResponses(vouchers []*voucher.Voucher) []VoucherResponse {
	out := make([]VoucherResponse, 0, len(vouchers))
	for _, v := range vouchers {
		out = append(out, toVoucherResponse(v))
	}
	return out
}

// ReviewResponse is the API representation of a product review
type ReviewResponse struct {
	ID         uuid.UUID `json:"id"`
	ProductID  uuid.UUID `json:"product_id"`
	UserID     uuid.UUID `json:"user_id"`
	Rating     int       `json:"rating"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	TotalVotes int       `json:"total_votes"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toReviewResponse(r *review.Review) ReviewResponse {
	return ReviewResponse{
		ID:         r.ID,
		ProductID:  r.ProductID,
		UserID:     r.UserID,
		Rating:     r.Rating,
		Title:      r.Title,
		Body:       r.Body,
		TotalVotes: r.TotalVotes,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func toReviewResponses(reviews []*review.Review) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, toReviewResponse(r))
	}
	return out
}

// TicketMessageResponse is the API representation of a ticket message
type TicketMessageResponse struct {
	ID        uuid.UUID `json:"id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Body      string    `json:"body"`
	IsStaff   bool      `json:"is_staff"`
	CreatedAt time.Time `json:"created_at"`
}

// TicketResponse is the API representation of a support ticket
type TicketResponse struct {
	ID        uuid.UUID               `json:"id"`
	UserID    uuid.UUID               `json:"user_id"`
	OrderID   *uuid.UUID              `json:"order_id,omitempty"`
	Subject   string                  `json:"subject"`
	Status    string                  `json:"status"`
	Messages  []TicketMessageResponse `json:"messages"`
	CreatedAt time.Time               `json:"created_at"`
	UpdatedAt time.Time               `json:"updated_at"`
}

func toTicketResponse(t *ticket.Ticket) TicketResponse {
	messages := make([]TicketMessageResponse, 0, len(t.Messages))
	for _, m := range t.Messages {
		messages = append(messages, TicketMessageResponse{
			ID:        m.ID,
			AuthorID:  m.AuthorID,
			Body:      m.Body,
			IsStaff:   m.IsStaff,
			CreatedAt: m.CreatedAt,
		})
	}
	return TicketResponse{
		ID:        t.ID,
		UserID:    t.UserID,
		OrderID:   t.OrderID,
		Subject:   t.Subject,
		Status:    string(t.Status),
		Messages:  messages,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func toTicketResponses(tickets []*ticket.Ticket) []TicketResponse {
	out := make([]TicketResponse, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, toTicketResponse(t))
	}
	return out
}

// AddressResponse is the API representation of a user address
type AddressResponse struct {
	ID                uuid.UUID `json:"id"`
	Line1             string    `json:"line1"`
	Line2             string    `json:"line2,omitempty"`
	Line3             string    `json:"line3,omitempty"`
	City              string    `json:"city"`
	PostalCode        string    `json:"postal_code"`
	Country           string    `json:"country"`
	IsDefaultShipping bool      `json:"is_default_shipping"`
	IsDefaultBilling  bool      `json:"is_default_billing"`
}

func toAddressResponse(a *address.Address) AddressResponse {
	return AddressResponse{
		ID:                a.ID,
		Line1:             a.Line1,
		Line2:             a.Line2,
		Line3:             a.Line3,
		City:              a.City,
		PostalCode:        a.PostalCode,
		Country:           a.Country,
		IsDefaultShipping: a.IsDefaultShipping,
		IsDefaultBilling:  a.IsDefaultBilling,
	}
}

func toAddressResponses(addresses []*address.Address) []AddressResponse {
	out := make([]AddressResponse, 0, len(addresses))
	for _, a := range addresses {
		out = append(out, toAddressResponse(a))
	}
	return out
}

// ExportResponse is the API representation of an export job
type ExportResponse struct {
	ID          uuid.UUID  `json:"id"`
	Resource    string     `json:"resource"`
	Status      string     `json:"status"`
	Error       string     `json:"error,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
	RequestedAt time.Time  `json:"requested_at"`
}

func toExportResponse(e *export.Export) ExportResponse {
	return ExportResponse{
		ID:          e.ID,
		Resource:    string(e.Resource),
		Status:      string(e.Status),
		Error:       e.Error,
		StartedAt:   e.StartedAt,
		FinishedAt:  e.FinishedAt,
		RequestedAt: e.CreatedAt,
	}
}

func toExportResponses(exports []*export.Export) []ExportResponse {
	out := make([]ExportResponse, 0, len(exports))
	for _, e := range exports {
		out = append(out, toExportResponse(e))
	}
	return out
}
