package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"bingo-sales-platform/internal/models"
	"bingo-sales-platform/internal/services"
)

type mockEventService struct {
	mock.Mock
}

func (m *mockEventService) CreateEvent(ctx context.Context, req *models.EventCreateRequest) (*models.Event, error) {
	args := m.Called(ctx, req)
	return eventOrNil(args.Get(0)), args.Error(1)
}

func (m *mockEventService) GetEvent(ctx context.Context, id int64) (*models.Event, error) {
	args := m.Called(ctx, id)
	return eventOrNil(args.Get(0)), args.Error(1)
}

func (m *mockEventService) ListEvents(ctx context.Context, activeOnly bool) ([]*models.Event, error) {
	args := m.Called(ctx, activeOnly)
	events, _ := args.Get(0).([]*models.Event)
	return events, args.Error(1)
}

func (m *mockEventService) UpdateEvent(ctx context.Context, id int64, req *models.EventUpdateRequest) (*models.Event, error) {
	args := m.Called(ctx, id, req)
	return eventOrNil(args.Get(0)), args.Error(1)
}

func (m *mockEventService) SetEventActive(ctx context.Context, id int64, active bool) (*models.Event, error) {
	args := m.Called(ctx, id, active)
	return eventOrNil(args.Get(0)), args.Error(1)
}

func eventOrNil(v interface{}) *models.Event {
	e, _ := v.(*models.Event)
	return e
}

type mockSellerService struct {
	mock.Mock
}

func (m *mockSellerService) CreateSeller(ctx context.Context, req *models.SellerCreateRequest) (*models.Seller, error) {
	args := m.Called(ctx, req)
	return sellerOrNil(args.Get(0)), args.Error(1)
}

func (m *mockSellerService) GetSeller(ctx context.Context, id int64) (*models.Seller, error) {
	args := m.Called(ctx, id)
	return sellerOrNil(args.Get(0)), args.Error(1)
}

func (m *mockSellerService) ListSellers(ctx context.Context, activeOnly bool) ([]*models.Seller, error) {
	args := m.Called(ctx, activeOnly)
	sellers, _ := args.Get(0).([]*models.Seller)
	return sellers, args.Error(1)
}

func (m *mockSellerService) UpdateSeller(ctx context.Context, id int64, req *models.SellerUpdateRequest) (*models.Seller, error) {
	args := m.Called(ctx, id, req)
	return sellerOrNil(args.Get(0)), args.Error(1)
}

func (m *mockSellerService) DeactivateSeller(ctx context.Context, id int64) (*models.Seller, error) {
	args := m.Called(ctx, id)
	return sellerOrNil(args.Get(0)), args.Error(1)
}

func (m *mockSellerService) ActivateSeller(ctx context.Context, id int64) (*models.Seller, error) {
	args := m.Called(ctx, id)
	return sellerOrNil(args.Get(0)), args.Error(1)
}

func sellerOrNil(v interface{}) *models.Seller {
	s, _ := v.(*models.Seller)
	return s
}

type mockInventoryService struct {
	mock.Mock
}

func (m *mockInventoryService) CreateOrder(ctx context.Context, req *models.OrderCreateRequest) (*models.Order, error) {
	args := m.Called(ctx, req)
	return orderOrNil(args.Get(0)), args.Error(1)
}

func (m *mockInventoryService) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	args := m.Called(ctx, id)
	return orderOrNil(args.Get(0)), args.Error(1)
}

func (m *mockInventoryService) ListOrders(ctx context.Context, filter models.OrderFilter) ([]*models.Order, error) {
	args := m.Called(ctx, filter)
	orders, _ := args.Get(0).([]*models.Order)
	return orders, args.Error(1)
}

func (m *mockInventoryService) ListAvailableCards(ctx context.Context, eventID int64) (models.CardSet, error) {
	args := m.Called(ctx, eventID)
	cards, _ := args.Get(0).(models.CardSet)
	return cards, args.Error(1)
}

func (m *mockInventoryService) Withdraw(ctx context.Context, orderID int64, cards models.CardSet) (*models.Order, error) {
	args := m.Called(ctx, orderID, cards)
	return orderOrNil(args.Get(0)), args.Error(1)
}

func (m *mockInventoryService) Sell(ctx context.Context, orderID int64, cards models.CardSet) (*models.Order, error) {
	args := m.Called(ctx, orderID, cards)
	return orderOrNil(args.Get(0)), args.Error(1)
}

func (m *mockInventoryService) Return(ctx context.Context, orderID int64, cards models.CardSet) (*models.Order, error) {
	args := m.Called(ctx, orderID, cards)
	return orderOrNil(args.Get(0)), args.Error(1)
}

func (m *mockInventoryService) DeleteOrder(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockInventoryService) UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) (*models.Order, error) {
	args := m.Called(ctx, id, status)
	return orderOrNil(args.Get(0)), args.Error(1)
}

func orderOrNil(v interface{}) *models.Order {
	o, _ := v.(*models.Order)
	return o
}

type mockReportService struct {
	mock.Mock
}

func (m *mockReportService) EventStockSummary(ctx context.Context, eventID int64) (*services.StockSummary, error) {
	args := m.Called(ctx, eventID)
	s, _ := args.Get(0).(*services.StockSummary)
	return s, args.Error(1)
}

func (m *mockReportService) EventFinancialSummary(ctx context.Context, eventID int64) (*services.FinancialSummary, error) {
	args := m.Called(ctx, eventID)
	f, _ := args.Get(0).(*services.FinancialSummary)
	return f, args.Error(1)
}

func (m *mockReportService) SellerPerformance(ctx context.Context, sellerID int64, eventID *int64) (*services.SellerPerformance, error) {
	args := m.Called(ctx, sellerID, eventID)
	p, _ := args.Get(0).(*services.SellerPerformance)
	return p, args.Error(1)
}

func (m *mockReportService) Ranking(ctx context.Context, eventID *int64) ([]services.SellerPerformance, error) {
	args := m.Called(ctx, eventID)
	r, _ := args.Get(0).([]services.SellerPerformance)
	return r, args.Error(1)
}

func (m *mockReportService) Overview(ctx context.Context) (*services.Overview, error) {
	args := m.Called(ctx)
	o, _ := args.Get(0).(*services.Overview)
	return o, args.Error(1)
}
