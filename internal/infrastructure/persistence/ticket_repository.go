package persistence

import (
	"context"
	"errors"

	"github.com/commerce/backend/internal/domain/shared"
	"github.com/commerce/backend/internal/domain/ticket"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTicketRepository implements ticket.Repository using GORM
type GormTicketRepository struct {
	db *gorm.DB
}

// NewGormTicketRepository creates a new GormTicketRepository
func NewGormTicketRepository(db *gorm.DB) *GormTicketRepository {
	return &GormTicketRepository{db: db}
}

// FindByID finds a ticket by ID, including its conversation
func (r *GormTicketRepository) FindByID(ctx context.Context, id uuid.UUID) (*ticket.Ticket, error) {
	var t ticket.Ticket
	if err := r.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindAll finds all tickets matching the filter
func (r *GormTicketRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*ticket.Ticket, error) {
	var tickets []*ticket.Ticket
	query := r.applyFilter(r.db.WithContext(ctx).Model(&ticket.Ticket{}), filter)
	query = applyPagination(query, filter)

	if err := query.Find(&tickets).Error; err != nil {
		return nil, err
	}
	return tickets, nil
}

// FindByUser finds a page of tickets opened by the given user
func (r *GormTicketRepository) FindByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[*ticket.Ticket], error) {
	base := r.db.WithContext(ctx).Model(&ticket.Ticket{}).Where("user_id = ?", userID)
	return r.paginate(base, filter)
}

// FindByStatus finds a page of tickets in the given status
func (r *GormTicketRepository) FindByStatus(ctx context.Context, status ticket.Status, filter shared.Filter) (*shared.Paginated[*ticket.Ticket], error) {
	base := r.db.WithContext(ctx).Model(&ticket.Ticket{}).Where("status = ?", status)
	return r.paginate(base, filter)
}

func (r *GormTicketRepository) paginate(base *gorm.DB, filter shared.Filter) (*shared.Paginated[*ticket.Ticket], error) {
	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	var tickets []*ticket.Ticket
	if err := applyPagination(base, filter).Find(&tickets).Error; err != nil {
		return nil, err
	}

	result := shared.NewPaginated(tickets, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Save creates or updates a ticket together with its messages
func (r *GormTicketRepository) Save(ctx context.Context, t *ticket.Ticket) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(t).Error; err != nil {
			return err
		}
		for i := range t.Messages {
			msg := &t.Messages[i]
			msg.TicketID = t.ID
			if err := tx.Save(msg).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete deletes a ticket and its messages
func (r *GormTicketRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ticket_id = ?", id).Delete(&ticket.Message{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&ticket.Ticket{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts tickets matching the filter
func (r *GormTicketRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&ticket.Ticket{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormTicketRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = applySearch(query, filter.Search, "subject")
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "user_id":
			query = query.Where("user_id = ?", value)
		case "order_id":
			query = query.Where("order_id = ?", value)
		}
	}
	return query
}

// Ensure GormTicketRepository implements ticket.Repository
var _ ticket.Repository = (*GormTicketRepository)(nil)
