package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"bingo-sales-platform/internal/middleware"
	"bingo-sales-platform/internal/models"
	"bingo-sales-platform/internal/services"
)

// OrderHandler serves orders and the withdraw/sell/return card operations
type OrderHandler struct {
	inventoryService services.InventoryServiceInterface
	logger           *zap.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(inventoryService services.InventoryServiceInterface, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		inventoryService: inventoryService,
		logger:           handlerLogger(logger, "orders"),
	}
}

// ListOrders handles GET /api/orders?event_id=&seller_id=&status=.
// Sellers always see only their own orders.
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	eventID, err := queryID(r, "event_id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	sellerID, err := queryID(r, "seller_id")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	filter := models.OrderFilter{
		EventID:  eventID,
		SellerID: sellerID,
		Status:   models.OrderStatus(r.URL.Query().Get("status")),
	}
	if filter.Status != "" {
		req := models.OrderStatusRequest{Status: filter.Status}
		if err := req.Validate(); err != nil {
			writeError(w, r, h.logger, err)
			return
		}
	}

	user := middleware.GetUserFromContext(r.Context())
	if !user.IsAdmin() {
		if user == nil {
			writeError(w, r, h.logger, models.ErrUnauthorized)
			return
		}
		filter.SellerID = user.SellerID
	}

	orders, err := h.inventoryService.ListOrders(r.Context(), filter)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// CreateOrder handles POST /api/orders
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req models.OrderCreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	order, err := h.inventoryService.CreateOrder(r.Context(), &req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

// GetOrder handles GET /api/orders/{orderID}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.authorizedOrder(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// DeleteOrder handles DELETE /api/orders/{orderID}
func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "orderID")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.inventoryService.DeleteOrder(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Withdraw handles POST /api/orders/{orderID}/withdraw
func (h *OrderHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.cardOperation(w, r, h.inventoryService.Withdraw)
}

// Sell handles POST /api/orders/{orderID}/sell
func (h *OrderHandler) Sell(w http.ResponseWriter, r *http.Request) {
	h.cardOperation(w, r, h.inventoryService.Sell)
}

// Return handles POST /api/orders/{orderID}/return
func (h *OrderHandler) Return(w http.ResponseWriter, r *http.Request) {
	h.cardOperation(w, r, h.inventoryService.Return)
}

// UpdateStatus handles POST /api/orders/{orderID}/status
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "orderID")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req models.OrderStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	order, err := h.inventoryService.UpdateOrderStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

type cardOp func(ctx context.Context, orderID int64, cards models.CardSet) (*models.Order, error)

func (h *OrderHandler) cardOperation(w http.ResponseWriter, r *http.Request, op cardOp) {
	order, err := h.authorizedOrder(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req models.CardBatchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	updated, err := op(r.Context(), order.ID, req.CardSet())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// authorizedOrder loads the order named in the URL and checks the caller may act on it
func (h *OrderHandler) authorizedOrder(r *http.Request) (*models.Order, error) {
	id, err := urlID(r, "orderID")
	if err != nil {
		return nil, err
	}

	order, err := h.inventoryService.GetOrder(r.Context(), id)
	if err != nil {
		return nil, err
	}

	if !middleware.GetUserFromContext(r.Context()).CanActAsSeller(order.SellerID) {
		return nil, models.ErrForbidden
	}
	return order, nil
}
