package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"bingo-sales-platform/internal/middleware"
	"bingo-sales-platform/internal/models"
	"bingo-sales-platform/internal/services"
)

// SellerHandler serves the seller registry
type SellerHandler struct {
	sellerService services.SellerServiceInterface
	logger        *zap.Logger
}

// NewSellerHandler creates a new seller handler
func NewSellerHandler(sellerService services.SellerServiceInterface, logger *zap.Logger) *SellerHandler {
	return &SellerHandler{
		sellerService: sellerService,
		logger:        handlerLogger(logger, "sellers"),
	}
}

// ListSellers handles GET /api/sellers?active=
func (h *SellerHandler) ListSellers(w http.ResponseWriter, r *http.Request) {
	activeOnly, err := queryBool(r, "active")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	sellers, err := h.sellerService.ListSellers(r.Context(), activeOnly)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, sellers)
}

// CreateSeller handles POST /api/sellers
func (h *SellerHandler) CreateSeller(w http.ResponseWriter, r *http.Request) {
	var req models.SellerCreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	seller, err := h.sellerService.CreateSeller(r.Context(), &req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, seller)
}

// GetSeller handles GET /api/sellers/{sellerID}. Sellers may only read themselves.
func (h *SellerHandler) GetSeller(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "sellerID")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if !middleware.GetUserFromContext(r.Context()).CanActAsSeller(id) {
		writeError(w, r, h.logger, models.ErrForbidden)
		return
	}

	seller, err := h.sellerService.GetSeller(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, seller)
}

// UpdateSeller handles PUT /api/sellers/{sellerID}
func (h *SellerHandler) UpdateSeller(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "sellerID")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req models.SellerUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	seller, err := h.sellerService.UpdateSeller(r.Context(), id, &req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, seller)
}

// DeactivateSeller handles POST /api/sellers/{sellerID}/deactivate
func (h *SellerHandler) DeactivateSeller(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "sellerID")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	seller, err := h.sellerService.DeactivateSeller(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, seller)
}

// ActivateSeller handles POST /api/sellers/{sellerID}/activate
func (h *SellerHandler) ActivateSeller(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r, "sellerID")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	seller, err := h.sellerService.ActivateSeller(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, seller)
}
