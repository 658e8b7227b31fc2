package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeDB struct {
	err error
}

func (f fakeDB) Health(ctx context.Context) error {
	return f.err
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		db         HealthChecker
		wantStatus int
		wantBody   string
	}{
		{name: "memory store", db: nil, wantStatus: http.StatusOK, wantBody: `{"status":"ok","storage":"memory"}`},
		{name: "postgres up", db: fakeDB{}, wantStatus: http.StatusOK, wantBody: `{"status":"ok","storage":"postgres"}`},
		{name: "postgres down", db: fakeDB{err: errors.New("dial tcp: refused")}, wantStatus: http.StatusServiceUnavailable,
			wantBody: `{"status":"unavailable","storage":"postgres"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.db, nil)
			rr := serve(t, http.MethodGet, "/healthz", "/healthz", h.Health, nil, nil)
			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.JSONEq(t, tt.wantBody, rr.Body.String())
		})
	}
}
