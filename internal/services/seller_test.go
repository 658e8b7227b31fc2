package services

import (
	"context"
	"errors"
	"testing"

	"bingo-sales-platform/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSellerService_Deactivate(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, 0)
	event := env.createEvent(t, 1, 10, "1.00")
	seller := env.createSeller(t, "Ana")
	order := env.createOrder(t, event.ID, seller.ID)

	_, err := env.inventory.Withdraw(ctx, order.ID, models.NewCardSet(1, 2))
	require.NoError(t, err)

	_, err = env.sellers.DeactivateSeller(ctx, seller.ID)
	assert.True(t, errors.Is(err, models.ErrSellerHasOpenOrders))

	_, err = env.inventory.Sell(ctx, order.ID, models.NewCardSet(1))
	require.NoError(t, err)
	_, err = env.inventory.Return(ctx, order.ID, models.NewCardSet(2))
	require.NoError(t, err)

	deactivated, err := env.sellers.DeactivateSeller(ctx, seller.ID)
	require.NoError(t, err)
	assert.False(t, deactivated.Active)

	_, err = env.inventory.Withdraw(ctx, order.ID, models.NewCardSet(3))
	assert.True(t, errors.Is(err, models.ErrSellerInactive))

	active, err := env.sellers.ListSellers(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, active)

	reactivated, err := env.sellers.ActivateSeller(ctx, seller.ID)
	require.NoError(t, err)
	assert.True(t, reactivated.Active)
}

func TestSellerService_CreateAndUpdate(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, 0)

	seller, err := env.sellers.CreateSeller(ctx, &models.SellerCreateRequest{Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)

	_, err = env.sellers.CreateSeller(ctx, &models.SellerCreateRequest{Name: "Other", Email: "ana@example.com"})
	assert.True(t, errors.Is(err, models.ErrDuplicateEntry))

	_, err = env.sellers.CreateSeller(ctx, &models.SellerCreateRequest{Name: ""})
	assert.True(t, errors.Is(err, models.ErrInvalidInput))

	updated, err := env.sellers.UpdateSeller(ctx, seller.ID, &models.SellerUpdateRequest{Phone: strPtr("+34 600 000 000")})
	require.NoError(t, err)
	assert.Equal(t, "+34 600 000 000", updated.Phone)
	assert.Equal(t, "ana@example.com", updated.Email)

	_, err = env.sellers.UpdateSeller(ctx, seller.ID, &models.SellerUpdateRequest{Email: strPtr("not-an-email")})
	assert.True(t, errors.Is(err, models.ErrInvalidInput))

	_, err = env.sellers.GetSeller(ctx, 999)
	assert.True(t, errors.Is(err, models.ErrSellerNotFound))
}
