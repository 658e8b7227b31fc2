package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"bingo-sales-platform/internal/middleware"
	"bingo-sales-platform/internal/models"
)

var (
	adminUser  = &models.User{Subject: "admin", Role: models.UserRoleAdmin}
	sellerUser = &models.User{Subject: "seller-1", Role: models.UserRoleSeller, SellerID: 1}
)

// serve routes a single request through a chi router so URL params resolve
func serve(t *testing.T, method, pattern, path string, handler http.HandlerFunc, user *models.User, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}

	r := chi.NewRouter()
	r.MethodFunc(method, pattern, handler)

	req := httptest.NewRequest(method, path, &buf)
	if user != nil {
		req = req.WithContext(middleware.SetUserContext(req.Context(), user))
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), dst))
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	decodeBody(t, rr, &resp)
	return resp
}
