package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"bingo-sales-platform/internal/middleware"
	"bingo-sales-platform/internal/models"
)

const maxBodyBytes = 1 << 20

// errorResponse is the body of every failed API call
type errorResponse struct {
	Error        string `json:"error"`
	Code         string `json:"code"`
	Cards        []int  `json:"cards,omitempty"`
	PendingCount *int   `json:"pending_count,omitempty"`
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// decodeJSON reads a JSON request body into dst, rejecting unknown fields
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", models.ErrInvalidInput, err)
	}
	return nil
}

// errorStatus maps domain errors to an HTTP status and a stable error code
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrInternalInconsistency):
		return http.StatusInternalServerError, "internal_inconsistency"
	case errors.Is(err, models.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, models.ErrEventNotFound):
		return http.StatusNotFound, "event_not_found"
	case errors.Is(err, models.ErrSellerNotFound):
		return http.StatusNotFound, "seller_not_found"
	case errors.Is(err, models.ErrOrderNotFound):
		return http.StatusNotFound, "order_not_found"
	case errors.Is(err, models.ErrEventRangeInvalid):
		return http.StatusUnprocessableEntity, "event_range_invalid"
	case errors.Is(err, models.ErrCardsOutOfRange):
		return http.StatusUnprocessableEntity, "cards_out_of_range"
	case errors.Is(err, models.ErrCardsUnavailable):
		return http.StatusConflict, "cards_unavailable"
	case errors.Is(err, models.ErrCardsAlreadyHeldBySameOrder):
		return http.StatusConflict, "cards_already_withdrawn"
	case errors.Is(err, models.ErrCardsNotPending):
		return http.StatusConflict, "cards_not_pending"
	case errors.Is(err, models.ErrCardsNotReturnable):
		return http.StatusConflict, "cards_not_returnable"
	case errors.Is(err, models.ErrOrderHasPendingCards):
		return http.StatusConflict, "order_has_pending_cards"
	case errors.Is(err, models.ErrEventInactive):
		return http.StatusConflict, "event_inactive"
	case errors.Is(err, models.ErrSellerInactive):
		return http.StatusConflict, "seller_inactive"
	case errors.Is(err, models.ErrSellerHasOpenOrders):
		return http.StatusConflict, "seller_has_open_orders"
	case errors.Is(err, models.ErrSellerOrderLimit):
		return http.StatusConflict, "seller_order_limit"
	case errors.Is(err, models.ErrInvalidStatusTransition):
		return http.StatusConflict, "invalid_status_transition"
	case errors.Is(err, models.ErrDuplicateEntry):
		return http.StatusConflict, "duplicate_entry"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// writeError translates err into a JSON error response.
// Server-side failures are logged and their details hidden from the caller.
func writeError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	status, code := errorStatus(err)
	resp := errorResponse{Error: err.Error(), Code: code}

	if cards := models.CardsOf(err); cards != nil {
		resp.Cards = cards.Ints()
	}
	var pendingErr *models.PendingCardsError
	if errors.As(err, &pendingErr) {
		count := pendingErr.Count
		resp.PendingCount = &count
	}

	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.String("code", code),
			zap.Error(err),
		)
		if code == "internal_error" {
			resp.Error = "something went wrong"
		} else {
			resp.Error = "stored data is inconsistent, an operator has been notified"
		}
	}

	writeJSON(w, status, resp)
}

// urlID parses a positive integer URL parameter
func urlID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", models.ErrInvalidInput, name)
	}
	return id, nil
}

// queryID parses an optional positive integer query parameter; zero means absent
func queryID(r *http.Request, name string) (int64, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", models.ErrInvalidInput, name)
	}
	return id, nil
}

// queryBool parses an optional boolean query parameter
func queryBool(r *http.Request, name string) (bool, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%w: %s must be true or false", models.ErrInvalidInput, name)
	}
	return b, nil
}

func handlerLogger(logger *zap.Logger, name string) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger.Named(name)
}
