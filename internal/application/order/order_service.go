package order

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

// Service serves order history and detail views, plus the admin
// fulfillment surface. Orders are only ever created by checkout; this
// service mutates nothing but status fields.
type Service struct {
	orders    order.Repository
	products  catalog.ProductRepository
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewService creates a new order Service
func NewService(orders order.Repository, products catalog.ProductRepository, publisher shared.EventPublisher, logger *zap.Logger) *Service {
	return &Service{
		orders:    orders,
		products:  products,
		publisher: publisher,
		logger:    logger,
	}
}

// ListForUser returns a user's own orders, newest first
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID, filter ListFilter) (*shared.Paginated[SummaryResponse], error) {
	f := toDomainFilter(filter)

	orders, err := s.orders.FindByUser(ctx, userID, f)
	if err != nil {
		return nil, err
	}
	total, err := s.orders.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	items := make([]SummaryResponse, len(orders))
	for i := range orders {
		items[i] = ToSummaryResponse(&orders[i])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// GetForUser returns one order scoped to its owner
func (s *Service) GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*Response, error) {
	o, err := s.orders.FindByIDForUser(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	resp := ToResponse(o)
	return &resp, nil
}

// List returns orders across all users, for administration
func (s *Service) List(ctx context.Context, filter ListFilter) (*shared.Paginated[SummaryResponse], error) {
	f := toDomainFilter(filter)

	orders, err := s.orders.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := s.orders.Count(ctx, f)
	if err != nil {
		return nil, err
	}

	items := make([]SummaryResponse, len(orders))
	for i := range orders {
		items[i] = ToSummaryResponse(&orders[i])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// Get returns any order by ID, for administration
func (s *Service) Get(ctx context.Context, orderID uuid.UUID) (*Response, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	resp := ToResponse(o)
	return &resp, nil
}

// UpdateStatus moves an order through the fulfillment machine.
// Cancelling a paid order refunds it and returns its stock to the
// catalog.
func (s *Service) UpdateStatus(ctx context.Context, orderID uuid.UUID, req UpdateStatusRequest) (*Response, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	target := order.Status(req.Status)
	if target == order.StatusCancelled {
		reason := req.Reason
		if reason == "" {
			reason = "cancelled by administrator"
		}
		if err := o.Cancel(reason); err != nil {
			return nil, err
		}
		if o.IsPaid() {
			if err := o.Refund(); err != nil {
				return nil, err
			}
		}
	} else {
		if err := o.TransitionTo(target); err != nil {
			return nil, err
		}
	}

	if err := s.orders.Save(ctx, o); err != nil {
		return nil, err
	}

	if target == order.StatusCancelled {
		s.restock(ctx, o)
	}

	if err := s.publisher.Publish(ctx, o.GetDomainEvents()...); err != nil {
		s.logger.Warn("failed to publish order events",
			zap.String("order_number", o.Number),
			zap.Error(err),
		)
	}
	o.ClearDomainEvents()

	resp := ToResponse(o)
	return &resp, nil
}

// restock returns a cancelled order's quantities to the catalog.
// Failures are logged per line; inventory drift is preferable to
// failing the cancellation after it is already durable.
func (s *Service) restock(ctx context.Context, o *order.Order) {
	for _, line := range o.Lines {
		if err := s.products.IncrementStock(ctx, line.ProductID, line.Quantity); err != nil {
			s.logger.Error("failed to restock cancelled order line",
				zap.String("order_number", o.Number),
				zap.String("product_id", line.ProductID.String()),
				zap.Int64("quantity", line.Quantity),
				zap.Error(err),
			)
		}
	}
}

func toDomainFilter(filter ListFilter) shared.Filter {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}
	return f
}
