package services

import (
	"context"

	"bingo-sales-platform/internal/models"
)

// EventRepository interface for event data operations
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	List(ctx context.Context, activeOnly bool) ([]*models.Event, error)
	Update(ctx context.Context, event *models.Event) error
}

// SellerRepository interface for seller data operations
type SellerRepository interface {
	Create(ctx context.Context, seller *models.Seller) error
	GetByID(ctx context.Context, id int64) (*models.Seller, error)
	List(ctx context.Context, activeOnly bool) ([]*models.Seller, error)
	Update(ctx context.Context, seller *models.Seller) error
	WithSellerLock(ctx context.Context, sellerID int64, fn func(ctx context.Context) error) error
}

// OrderRepository interface for order data operations.
//
// The lock methods run fn as one unit of work; reads and writes made with the
// ctx passed to fn take part in it. Nested lock calls join the outer unit.
type OrderRepository interface {
	WithEventLock(ctx context.Context, eventID int64, fn func(ctx context.Context) error) error
	WithOrderLock(ctx context.Context, orderID int64, fn func(ctx context.Context) error) error
	ReadSnapshot(ctx context.Context, fn func(ctx context.Context) error) error

	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	ListByEvent(ctx context.Context, eventID int64) ([]*models.Order, error)
	List(ctx context.Context, filter models.OrderFilter) ([]*models.Order, error)
	Save(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id int64) error
	CountOpenBySeller(ctx context.Context, sellerID int64) (int, error)
}

// EventServiceInterface defines the interface for event services
type EventServiceInterface interface {
	CreateEvent(ctx context.Context, req *models.EventCreateRequest) (*models.Event, error)
	GetEvent(ctx context.Context, id int64) (*models.Event, error)
	ListEvents(ctx context.Context, activeOnly bool) ([]*models.Event, error)
	UpdateEvent(ctx context.Context, id int64, req *models.EventUpdateRequest) (*models.Event, error)
	SetEventActive(ctx context.Context, id int64, active bool) (*models.Event, error)
}

// SellerServiceInterface defines the interface for seller services
type SellerServiceInterface interface {
	CreateSeller(ctx context.Context, req *models.SellerCreateRequest) (*models.Seller, error)
	GetSeller(ctx context.Context, id int64) (*models.Seller, error)
	ListSellers(ctx context.Context, activeOnly bool) ([]*models.Seller, error)
	UpdateSeller(ctx context.Context, id int64, req *models.SellerUpdateRequest) (*models.Seller, error)
	DeactivateSeller(ctx context.Context, id int64) (*models.Seller, error)
	ActivateSeller(ctx context.Context, id int64) (*models.Seller, error)
}

// InventoryServiceInterface defines the interface for order and card operations
type InventoryServiceInterface interface {
	CreateOrder(ctx context.Context, req *models.OrderCreateRequest) (*models.Order, error)
	GetOrder(ctx context.Context, id int64) (*models.Order, error)
	ListOrders(ctx context.Context, filter models.OrderFilter) ([]*models.Order, error)
	ListAvailableCards(ctx context.Context, eventID int64) (models.CardSet, error)
	Withdraw(ctx context.Context, orderID int64, cards models.CardSet) (*models.Order, error)
	Sell(ctx context.Context, orderID int64, cards models.CardSet) (*models.Order, error)
	Return(ctx context.Context, orderID int64, cards models.CardSet) (*models.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
	UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) (*models.Order, error)
}

// ReportServiceInterface defines the interface for reporting services
type ReportServiceInterface interface {
	EventStockSummary(ctx context.Context, eventID int64) (*StockSummary, error)
	EventFinancialSummary(ctx context.Context, eventID int64) (*FinancialSummary, error)
	SellerPerformance(ctx context.Context, sellerID int64, eventID *int64) (*SellerPerformance, error)
	Ranking(ctx context.Context, eventID *int64) ([]SellerPerformance, error)
	Overview(ctx context.Context) (*Overview, error)
}

// AuthServiceInterface defines the interface for token services
type AuthServiceInterface interface {
	IssueToken(user *models.User) (string, error)
	ValidateToken(token string) (*models.User, error)
}
