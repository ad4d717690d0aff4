package order

import (
	"context"
	"errors"
	"time"

	"github.com/commerce/backend/internal/domain/address"
	"github.com/commerce/backend/internal/domain/catalog"
	"github.com/commerce/backend/internal/domain/order"
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/commerce/backend/internal/domain/voucher"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderService handles order lifecycle, pricing, and voucher redemption
type OrderService struct {
	orderRepo   order.Repository
	productRepo catalog.ProductRepository
	voucherRepo voucher.Repository
	addressRepo address.Repository
	eventBus    shared.EventPublisher
	taxRate     decimal.Decimal
	logger      *zap.Logger
}

// NewOrderService creates a new order service. taxRate is the fraction of
// the tax-exclusive price, e.g. 0.20 for 20 percent VAT.
func NewOrderService(
	orderRepo order.Repository,
	productRepo catalog.ProductRepository,
	voucherRepo voucher.Repository,
	addressRepo address.Repository,
	eventBus shared.EventPublisher,
	taxRate float64,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		voucherRepo: voucherRepo,
		addressRepo: addressRepo,
		eventBus:    eventBus,
		taxRate:     decimal.NewFromFloat(taxRate),
		logger:      logger,
	}
}

// Create opens a new order, resolving each requested product into a priced
// line. Product names and prices are copied onto the lines so later catalog
// changes do not affect placed orders.
func (s *OrderService) Create(ctx context.Context, input CreateOrderInput) (*order.Order, error) {
	o, err := order.NewOrder(input.UserID, input.GuestEmail)
	if err != nil {
		return nil, err
	}

	for _, line := range input.Lines {
		if err := s.appendLine(ctx, o, line.ProductID, line.Quantity); err != nil {
			return nil, err
		}
	}

	if input.AddressID != nil {
		if err := s.attachAddress(ctx, o, *input.AddressID); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.Save(ctx, o); err != nil {
		s.logger.Error("Failed to save order", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create order")
	}

	s.publishEvents(ctx, o)
	s.logger.Info("Order created",
		zap.String("order_id", o.ID.String()),
		zap.String("number", o.Number))

	return o, nil
}

// Get retrieves an order by ID
func (s *OrderService) Get(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return s.orderRepo.FindByID(ctx, id)
}

// GetByNumber retrieves an order by its human-readable number
func (s *OrderService) GetByNumber(ctx context.Context, number string) (*order.Order, error) {
	return s.orderRepo.FindByNumber(ctx, number)
}

// List retrieves orders matching the filter
func (s *OrderService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[*order.Order], error) {
	orders, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(orders, total, filter.Page, filter.PageSize)
	return &result, nil
}

// ListByUser retrieves the orders placed by a user
func (s *OrderService) ListByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[*order.Order], error) {
	return s.orderRepo.FindByUser(ctx, userID, filter)
}

// AddLine adds a product position to an open order
func (s *OrderService) AddLine(ctx context.Context, input AddLineInput) (*order.Order, error) {
	return s.updateOrder(ctx, input.OrderID, func(o *order.Order) error {
		return s.appendLine(ctx, o, input.ProductID, input.Quantity)
	})
}

// RemoveLine removes a product position from an open order
func (s *OrderService) RemoveLine(ctx context.Context, orderID, productID uuid.UUID) (*order.Order, error) {
	return s.updateOrder(ctx, orderID, func(o *order.Order) error {
		return o.RemoveLine(productID)
	})
}

// SetAddress attaches a shipping address to an open order. The address must
// belong to the ordering user.
func (s *OrderService) SetAddress(ctx context.Context, orderID, addressID uuid.UUID) (*order.Order, error) {
	return s.updateOrder(ctx, orderID, func(o *order.Order) error {
		return s.attachAddress(ctx, o, addressID)
	})
}

// ApplyVoucher redeems a voucher code against an open order. The voucher's
// usage counter and the per-user application record are persisted together
// with the discounted order.
func (s *OrderService) ApplyVoucher(ctx context.Context, input ApplyVoucherInput) (*order.Order, error) {
	o, err := s.orderRepo.FindByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}

	v, err := s.voucherRepo.FindByCode(ctx, input.Code)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("VOUCHER_NOT_FOUND", "Voucher code is not valid")
		}
		return nil, err
	}

	var usesByCustomer int
	if o.UserID != nil {
		count, err := s.voucherRepo.CountApplicationsByUser(ctx, v.ID, *o.UserID)
		if err != nil {
			s.logger.Error("Failed to count voucher applications", zap.Error(err))
			return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to apply voucher")
		}
		usesByCustomer = int(count)
	}

	if err := v.Redeem(time.Now(), usesByCustomer); err != nil {
		return nil, err
	}
	if err := o.ApplyVoucher(v.ID, v.Discount); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, o); err != nil {
		s.logger.Error("Failed to save order", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to apply voucher")
	}
	if err := s.voucherRepo.Save(ctx, v); err != nil {
		s.logger.Error("Failed to save voucher", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to apply voucher")
	}
	if err := s.voucherRepo.SaveApplication(ctx, voucher.NewApplication(v.ID, o.ID, o.UserID)); err != nil {
		s.logger.Error("Failed to record voucher application", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to apply voucher")
	}

	s.publishEvents(ctx, o)
	s.logger.Info("Voucher applied",
		zap.String("order_id", o.ID.String()),
		zap.String("voucher_code", v.Code))

	return o, nil
}

// ChangeStatus moves an order through its state machine
func (s *OrderService) ChangeStatus(ctx context.Context, input ChangeStatusInput) (*order.Order, error) {
	status, err := order.ParseStatus(input.Status)
	if err != nil {
		return nil, err
	}
	return s.updateOrder(ctx, input.OrderID, func(o *order.Order) error {
		return o.TransitionTo(status)
	})
}

// Cancel cancels an order if its current status allows it
func (s *OrderService) Cancel(ctx context.Context, orderID uuid.UUID) (*order.Order, error) {
	return s.updateOrder(ctx, orderID, func(o *order.Order) error {
		return o.Cancel()
	})
}

// appendLine resolves the product and adds it as a priced line
func (s *OrderService) appendLine(ctx context.Context, o *order.Order, productID uuid.UUID, quantity int) error {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
		}
		return err
	}
	if !product.IsActive {
		return shared.NewDomainError("PRODUCT_INACTIVE", "Product is not available")
	}
	return o.AddLine(product.ID, product.Name, quantity, product.Price, s.taxRate)
}

// attachAddress verifies ownership and sets the shipping address
func (s *OrderService) attachAddress(ctx context.Context, o *order.Order, addressID uuid.UUID) error {
	addr, err := s.addressRepo.FindByID(ctx, addressID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("ADDRESS_NOT_FOUND", "Address not found")
		}
		return err
	}
	if o.UserID == nil || addr.UserID != *o.UserID {
		return shared.NewDomainError("ADDRESS_NOT_OWNED", "Address does not belong to the ordering user")
	}
	return o.SetAddress(addr.ID)
}

// updateOrder loads, mutates, and saves an order
func (s *OrderService) updateOrder(ctx context.Context, id uuid.UUID, mutate func(*order.Order) error) (*order.Order, error) {
	o, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := mutate(o); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, o); err != nil {
		if errors.Is(err, shared.ErrConcurrencyConflict) {
			return nil, err
		}
		s.logger.Error("Failed to save order", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update order")
	}

	s.publishEvents(ctx, o)

	return o, nil
}

// publishEvents publishes and clears the order's pending domain events
func (s *OrderService) publishEvents(ctx context.Context, o *order.Order) {
	for _, event := range o.GetDomainEvents() {
		if err := s.eventBus.Publish(ctx, event); err != nil {
			s.logger.Warn("Failed to publish order event",
				zap.String("event_type", event.EventType()),
				zap.Error(err))
		}
	}
	o.ClearDomainEvents()
}
