package services

import (
	"context"
	"fmt"
	"time"

	"bingo-sales-platform/internal/models"

	"go.uber.org/zap"
)

// SellerService handles seller registration and status
type SellerService struct {
	sellerRepo SellerRepository
	orderRepo  OrderRepository
	logger     *zap.Logger
	now        func() time.Time
}

// NewSellerService creates a new seller service
func NewSellerService(sellerRepo SellerRepository, orderRepo OrderRepository, logger *zap.Logger) *SellerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SellerService{
		sellerRepo: sellerRepo,
		orderRepo:  orderRepo,
		logger:     logger.Named("sellers"),
		now:        time.Now,
	}
}

func (s *SellerService) CreateSeller(ctx context.Context, req *models.SellerCreateRequest) (*models.Seller, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	seller := &models.Seller{
		OwnerID:   req.OwnerID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.sellerRepo.Create(ctx, seller); err != nil {
		return nil, fmt.Errorf("failed to create seller: %w", err)
	}

	s.logger.Info("seller created", zap.Int64("seller_id", seller.ID))
	return seller, nil
}

func (s *SellerService) GetSeller(ctx context.Context, id int64) (*models.Seller, error) {
	return s.sellerRepo.GetByID(ctx, id)
}

func (s *SellerService) ListSellers(ctx context.Context, activeOnly bool) ([]*models.Seller, error) {
	sellers, err := s.sellerRepo.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list sellers: %w", err)
	}
	return sellers, nil
}

func (s *SellerService) UpdateSeller(ctx context.Context, id int64, req *models.SellerUpdateRequest) (*models.Seller, error) {
	var result *models.Seller

	err := s.sellerRepo.WithSellerLock(ctx, id, func(ctx context.Context) error {
		current, err := s.sellerRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		updated, err := req.Apply(current)
		if err != nil {
			return err
		}

		updated.UpdatedAt = s.now().UTC()
		if err := s.sellerRepo.Update(ctx, updated); err != nil {
			return err
		}
		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeactivateSeller marks the seller inactive.
// It fails with ErrSellerHasOpenOrders while an open order still has pending cards.
func (s *SellerService) DeactivateSeller(ctx context.Context, id int64) (*models.Seller, error) {
	var result *models.Seller

	err := s.sellerRepo.WithSellerLock(ctx, id, func(ctx context.Context) error {
		seller, err := s.sellerRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !seller.Active {
			result = seller
			return nil
		}

		open, err := s.orderRepo.List(ctx, models.OrderFilter{SellerID: id, Status: models.OrderOpen})
		if err != nil {
			return fmt.Errorf("failed to load seller orders: %w", err)
		}
		blocking := 0
		for _, o := range open {
			if o.HasPendingCards() {
				blocking++
			}
		}
		if blocking > 0 {
			return fmt.Errorf("%w: %d open orders hold pending cards", models.ErrSellerHasOpenOrders, blocking)
		}

		seller.Active = false
		seller.UpdatedAt = s.now().UTC()
		if err := s.sellerRepo.Update(ctx, seller); err != nil {
			return err
		}
		result = seller
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("seller deactivated", zap.Int64("seller_id", id))
	return result, nil
}

func (s *SellerService) ActivateSeller(ctx context.Context, id int64) (*models.Seller, error) {
	var result *models.Seller

	err := s.sellerRepo.WithSellerLock(ctx, id, func(ctx context.Context) error {
		seller, err := s.sellerRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !seller.Active {
			seller.Active = true
			seller.UpdatedAt = s.now().UTC()
			if err := s.sellerRepo.Update(ctx, seller); err != nil {
				return err
			}
		}
		result = seller
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
