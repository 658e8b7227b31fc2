package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"bingo-sales-platform/internal/models"
)

func TestSellerHandler_GetSeller(t *testing.T) {
	sellerService := new(mockSellerService)
	h := NewSellerHandler(sellerService, nil)
	sellerService.On("GetSeller", mock.Anything, int64(1)).Return(&models.Seller{ID: 1, Name: "Ana", Active: true}, nil)

	t.Run("own record", func(t *testing.T) {
		rr := serve(t, http.MethodGet, "/api/sellers/{sellerID}", "/api/sellers/1", h.GetSeller, sellerUser, nil)
		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("other seller", func(t *testing.T) {
		rr := serve(t, http.MethodGet, "/api/sellers/{sellerID}", "/api/sellers/2", h.GetSeller, sellerUser, nil)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	sellerService.AssertNumberOfCalls(t, "GetSeller", 1)
}

func TestSellerHandler_CreateSeller(t *testing.T) {
	sellerService := new(mockSellerService)
	h := NewSellerHandler(sellerService, nil)
	sellerService.On("CreateSeller", mock.Anything, &models.SellerCreateRequest{Name: "Ana", Email: "ana@example.com"}).
		Return(&models.Seller{ID: 1, Name: "Ana", Email: "ana@example.com", Active: true}, nil)
	sellerService.On("CreateSeller", mock.Anything, &models.SellerCreateRequest{Name: "Bea", Email: "ana@example.com"}).
		Return(nil, models.ErrDuplicateEntry)

	rr := serve(t, http.MethodPost, "/api/sellers", "/api/sellers", h.CreateSeller, adminUser,
		map[string]string{"name": "Ana", "email": "ana@example.com"})
	assert.Equal(t, http.StatusCreated, rr.Code)

	rr = serve(t, http.MethodPost, "/api/sellers", "/api/sellers", h.CreateSeller, adminUser,
		map[string]string{"name": "Bea", "email": "ana@example.com"})
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "duplicate_entry", decodeError(t, rr).Code)
}

func TestSellerHandler_DeactivateSeller_OpenOrders(t *testing.T) {
	sellerService := new(mockSellerService)
	h := NewSellerHandler(sellerService, nil)
	sellerService.On("DeactivateSeller", mock.Anything, int64(1)).Return(nil, models.ErrSellerHasOpenOrders)

	rr := serve(t, http.MethodPost, "/api/sellers/{sellerID}/deactivate", "/api/sellers/1/deactivate", h.DeactivateSeller, adminUser, nil)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, "seller_has_open_orders", decodeError(t, rr).Code)
}

func TestSellerHandler_UpdateSeller(t *testing.T) {
	sellerService := new(mockSellerService)
	h := NewSellerHandler(sellerService, nil)
	sellerService.On("UpdateSeller", mock.Anything, int64(1), mock.MatchedBy(func(req *models.SellerUpdateRequest) bool {
		return req.Phone != nil && *req.Phone == "555-0100" && req.Name == nil
	})).Return(&models.Seller{ID: 1, Name: "Ana", Phone: "555-0100"}, nil)

	rr := serve(t, http.MethodPut, "/api/sellers/{sellerID}", "/api/sellers/1", h.UpdateSeller, adminUser,
		map[string]string{"phone": "555-0100"})

	assert.Equal(t, http.StatusOK, rr.Code)
	sellerService.AssertExpectations(t)
}
