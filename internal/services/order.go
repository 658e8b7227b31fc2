package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bingo-sales-platform/internal/models"

	"go.uber.org/zap"
)

// InventoryService moves cards between the states of an order and keeps the
// event-wide rule that a card is held by at most one order.
type InventoryService struct {
	eventRepo     EventRepository
	sellerRepo    SellerRepository
	orderRepo     OrderRepository
	maxOpenOrders int
	logger        *zap.Logger
	now           func() time.Time
}

// NewInventoryService creates a new inventory service.
// maxOpenOrders caps the open orders per seller; zero disables the cap.
func NewInventoryService(eventRepo EventRepository, sellerRepo SellerRepository, orderRepo OrderRepository, maxOpenOrders int, logger *zap.Logger) *InventoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryService{
		eventRepo:     eventRepo,
		sellerRepo:    sellerRepo,
		orderRepo:     orderRepo,
		maxOpenOrders: maxOpenOrders,
		logger:        logger.Named("inventory"),
		now:           time.Now,
	}
}

// SetClock replaces the time source used for order timestamps
func (s *InventoryService) SetClock(now func() time.Time) {
	s.now = now
}

// CreateOrder opens an order for a seller on an active event
func (s *InventoryService) CreateOrder(ctx context.Context, req *models.OrderCreateRequest) (*models.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var order *models.Order
	err := s.sellerRepo.WithSellerLock(ctx, req.SellerID, func(ctx context.Context) error {
		event, err := s.eventRepo.GetByID(ctx, req.EventID)
		if err != nil {
			return err
		}
		if !event.Active {
			return fmt.Errorf("%w: id %d", models.ErrEventInactive, event.ID)
		}

		seller, err := s.sellerRepo.GetByID(ctx, req.SellerID)
		if err != nil {
			return err
		}
		openOrders, err := s.orderRepo.CountOpenBySeller(ctx, seller.ID)
		if err != nil {
			return fmt.Errorf("failed to count open orders: %w", err)
		}
		if err := seller.CanReceiveOrder(openOrders, s.maxOpenOrders); err != nil {
			return err
		}

		order = models.NewOrder(event.ID, seller.ID, req.QuantityRequested, s.now().UTC())
		return s.orderRepo.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		zap.Int64("order_id", order.ID),
		zap.Int64("event_id", order.EventID),
		zap.Int64("seller_id", order.SellerID),
	)
	return order, nil
}

func (s *InventoryService) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

func (s *InventoryService) ListOrders(ctx context.Context, filter models.OrderFilter) ([]*models.Order, error) {
	orders, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// ListAvailableCards derives the cards of the event that no order holds.
// Nothing is cached; every call reads the current orders.
func (s *InventoryService) ListAvailableCards(ctx context.Context, eventID int64) (models.CardSet, error) {
	var available models.CardSet

	err := s.orderRepo.ReadSnapshot(ctx, func(ctx context.Context) error {
		event, err := s.eventRepo.GetByID(ctx, eventID)
		if err != nil {
			return err
		}
		orders, err := s.orderRepo.ListByEvent(ctx, eventID)
		if err != nil {
			return fmt.Errorf("failed to load event orders: %w", err)
		}
		available = models.AvailableCards(event, orders)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return available, nil
}

// Withdraw checks cards out to an order.
//
// Locks are taken seller, event, order. Everything the conflict check reads is
// loaded again inside the locks, so two withdrawals on the same event can never
// both claim a card.
func (s *InventoryService) Withdraw(ctx context.Context, orderID int64, cards models.CardSet) (*models.Order, error) {
	ref, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	var result *models.Order
	err = s.sellerRepo.WithSellerLock(ctx, ref.SellerID, func(ctx context.Context) error {
		return s.orderRepo.WithEventLock(ctx, ref.EventID, func(ctx context.Context) error {
			return s.orderRepo.WithOrderLock(ctx, orderID, func(ctx context.Context) error {
				seller, err := s.sellerRepo.GetByID(ctx, ref.SellerID)
				if err != nil {
					return err
				}
				if !seller.Active {
					return fmt.Errorf("%w: id %d", models.ErrSellerInactive, seller.ID)
				}

				event, err := s.eventRepo.GetByID(ctx, ref.EventID)
				if err != nil {
					return err
				}
				if !event.Active {
					return fmt.Errorf("%w: id %d", models.ErrEventInactive, event.ID)
				}

				order, err := s.orderRepo.GetByID(ctx, orderID)
				if err != nil {
					return err
				}
				others, err := s.orderRepo.ListByEvent(ctx, event.ID)
				if err != nil {
					return fmt.Errorf("failed to load event orders: %w", err)
				}

				if err := order.Withdraw(event, cards, others, s.now().UTC()); err != nil {
					return err
				}
				if err := s.orderRepo.Save(ctx, order); err != nil {
					return err
				}
				result = order
				return nil
			})
		})
	})
	if err != nil {
		s.logRejection("withdraw", orderID, cards, err)
		return nil, err
	}

	s.logger.Info("cards withdrawn",
		zap.Int64("order_id", orderID),
		zap.Int64("event_id", result.EventID),
		zap.Int("count", cards.Len()),
	)
	return result, nil
}

// Sell marks pending cards of the order as sold
func (s *InventoryService) Sell(ctx context.Context, orderID int64, cards models.CardSet) (*models.Order, error) {
	order, err := s.mutateOrder(ctx, orderID, func(o *models.Order) error {
		return o.Sell(cards, s.now().UTC())
	})
	if err != nil {
		s.logRejection("sell", orderID, cards, err)
		return nil, err
	}

	s.logger.Info("cards sold", zap.Int64("order_id", orderID), zap.Int("count", cards.Len()))
	return order, nil
}

// Return gives pending cards of the order back to the pool
func (s *InventoryService) Return(ctx context.Context, orderID int64, cards models.CardSet) (*models.Order, error) {
	order, err := s.mutateOrder(ctx, orderID, func(o *models.Order) error {
		return o.Return(cards, s.now().UTC())
	})
	if err != nil {
		s.logRejection("return", orderID, cards, err)
		return nil, err
	}

	s.logger.Info("cards returned", zap.Int64("order_id", orderID), zap.Int("count", cards.Len()))
	return order, nil
}

// UpdateOrderStatus applies an explicit status change
func (s *InventoryService) UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) (*models.Order, error) {
	req := models.OrderStatusRequest{Status: status}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	order, err := s.mutateOrder(ctx, id, func(o *models.Order) error {
		if !o.CanTransitionTo(status) {
			return fmt.Errorf("%w: %s to %s", models.ErrInvalidStatusTransition, o.Status, status)
		}
		o.Status = status
		o.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order status changed", zap.Int64("order_id", id), zap.String("status", string(status)))
	return order, nil
}

// DeleteOrder removes an order whose pending set is empty
func (s *InventoryService) DeleteOrder(ctx context.Context, id int64) error {
	err := s.orderRepo.WithOrderLock(ctx, id, func(ctx context.Context) error {
		order, err := s.orderRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := order.CanDelete(); err != nil {
			return err
		}
		return s.orderRepo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("order deleted", zap.Int64("order_id", id))
	return nil
}

// mutateOrder reloads the order under its row lock, applies fn and saves it
func (s *InventoryService) mutateOrder(ctx context.Context, orderID int64, fn func(o *models.Order) error) (*models.Order, error) {
	var result *models.Order

	err := s.orderRepo.WithOrderLock(ctx, orderID, func(ctx context.Context) error {
		order, err := s.orderRepo.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := fn(order); err != nil {
			return err
		}
		if err := s.orderRepo.Save(ctx, order); err != nil {
			return err
		}
		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *InventoryService) logRejection(op string, orderID int64, cards models.CardSet, err error) {
	var cardErr *models.CardError
	if errors.As(err, &cardErr) {
		s.logger.Debug("card batch rejected",
			zap.String("op", op),
			zap.Int64("order_id", orderID),
			zap.Stringer("cards", cards),
			zap.Stringer("offending", cardErr.Cards),
			zap.Error(err),
		)
		return
	}
	s.logger.Warn("card operation failed",
		zap.String("op", op),
		zap.Int64("order_id", orderID),
		zap.Error(err),
	)
}
