package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"bingo-sales-platform/internal/models"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: bad", models.ErrInvalidInput), http.StatusBadRequest, "invalid_input"},
		{models.ErrEventNotFound, http.StatusNotFound, "event_not_found"},
		{models.ErrSellerNotFound, http.StatusNotFound, "seller_not_found"},
		{fmt.Errorf("get order: %w", models.ErrOrderNotFound), http.StatusNotFound, "order_not_found"},
		{&models.CardError{Kind: models.ErrCardsUnavailable, Cards: models.NewCardSet(3)}, http.StatusConflict, "cards_unavailable"},
		{&models.CardError{Kind: models.ErrCardsAlreadyHeldBySameOrder}, http.StatusConflict, "cards_already_withdrawn"},
		{&models.CardError{Kind: models.ErrCardsNotPending}, http.StatusConflict, "cards_not_pending"},
		{&models.CardError{Kind: models.ErrCardsNotReturnable}, http.StatusConflict, "cards_not_returnable"},
		{&models.CardError{Kind: models.ErrCardsOutOfRange}, http.StatusUnprocessableEntity, "cards_out_of_range"},
		{&models.PendingCardsError{OrderID: 1, Count: 2}, http.StatusConflict, "order_has_pending_cards"},
		{models.ErrEventRangeInvalid, http.StatusUnprocessableEntity, "event_range_invalid"},
		{models.ErrEventInactive, http.StatusConflict, "event_inactive"},
		{models.ErrSellerInactive, http.StatusConflict, "seller_inactive"},
		{models.ErrSellerHasOpenOrders, http.StatusConflict, "seller_has_open_orders"},
		{models.ErrSellerOrderLimit, http.StatusConflict, "seller_order_limit"},
		{models.ErrInvalidStatusTransition, http.StatusConflict, "invalid_status_transition"},
		{models.ErrDuplicateEntry, http.StatusConflict, "duplicate_entry"},
		{models.ErrForbidden, http.StatusForbidden, "forbidden"},
		{&models.InconsistencyError{EventID: 1, Detail: "x"}, http.StatusInternalServerError, "internal_inconsistency"},
		{errors.New("connection reset"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			status, code := errorStatus(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestWriteError_CardsAndPendingCount(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/orders/2/withdraw", nil)

	rr := httptest.NewRecorder()
	writeError(rr, req, zap.NewNop(), &models.CardError{Kind: models.ErrCardsUnavailable, Cards: models.NewCardSet(4, 3)})
	resp := decodeError(t, rr)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, []int{3, 4}, resp.Cards)
	assert.Nil(t, resp.PendingCount)

	rr = httptest.NewRecorder()
	writeError(rr, req, zap.NewNop(), &models.PendingCardsError{OrderID: 2, Count: 5})
	resp = decodeError(t, rr)
	if assert.NotNil(t, resp.PendingCount) {
		assert.Equal(t, 5, *resp.PendingCount)
	}
	assert.Empty(t, resp.Cards)
}

func TestWriteError_HidesServerDetails(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	logger := zap.New(core)
	req := httptest.NewRequest(http.MethodGet, "/api/events/1/stock", nil)

	rr := httptest.NewRecorder()
	writeError(rr, req, logger, &models.InconsistencyError{EventID: 1, Detail: "available count is -2"})
	resp := decodeError(t, rr)
	assert.Equal(t, "internal_inconsistency", resp.Code)
	assert.NotContains(t, resp.Error, "-2")

	rr = httptest.NewRecorder()
	writeError(rr, req, logger, errors.New("pq: password authentication failed"))
	resp = decodeError(t, rr)
	assert.Equal(t, "internal_error", resp.Code)
	assert.NotContains(t, resp.Error, "pq")

	assert.Equal(t, 2, logs.Len())
}

func TestDecodeJSON_RejectsUnknownFields(t *testing.T) {
	rr := serve(t, http.MethodPost, "/", "/", func(w http.ResponseWriter, r *http.Request) {
		var req models.CardBatchRequest
		err := decodeJSON(w, r, &req)
		assert.ErrorIs(t, err, models.ErrInvalidInput)
		w.WriteHeader(http.StatusNoContent)
	}, nil, `{"cards":[1],"extra":true}`)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}
