package models

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testEvent() *Event {
	return &Event{ID: 1, Name: "Bingo", RangeStart: 1, RangeEnd: 10, CardCount: 10, PriceCents: 500, Active: true}
}

func testOrder(id, sellerID int64) *Order {
	o := NewOrder(1, sellerID, 3, testNow)
	o.ID = id
	return o
}

func TestOrder_Withdraw(t *testing.T) {
	event := testEvent()
	o1 := testOrder(1, 1)
	o2 := testOrder(2, 2)
	orders := []*Order{o1, o2}

	require.NoError(t, o1.Withdraw(event, NewCardSet(3, 1, 2), orders, testNow))
	assert.Equal(t, NewCardSet(1, 2, 3), o1.Withdrawn)
	assert.Equal(t, NewCardSet(1, 2, 3), o1.Pending)

	err := o2.Withdraw(event, NewCardSet(3, 4), orders, testNow)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCardsUnavailable))
	assert.Equal(t, NewCardSet(3), CardsOf(err))
	assert.True(t, o2.Withdrawn.IsEmpty(), "rejected batch must not mutate the order")
	assert.True(t, o2.Pending.IsEmpty())
}

func TestOrder_Withdraw_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		cards     CardSet
		setup     func(o *Order)
		wantErr   error
		wantCards CardSet
	}{
		{
			name:    "empty set",
			cards:   NewCardSet(),
			wantErr: ErrInvalidInput,
		},
		{
			name:      "outside range",
			cards:     NewCardSet(0, 5, 11),
			wantErr:   ErrCardsOutOfRange,
			wantCards: NewCardSet(0, 11),
		},
		{
			name:  "already held by same order",
			cards: NewCardSet(2, 4),
			setup: func(o *Order) {
				o.Withdrawn = NewCardSet(2)
				o.Pending = NewCardSet(2)
			},
			wantErr:   ErrCardsAlreadyHeldBySameOrder,
			wantCards: NewCardSet(2),
		},
		{
			name:  "sold card cannot be withdrawn again",
			cards: NewCardSet(7),
			setup: func(o *Order) {
				o.Withdrawn = NewCardSet(7)
				o.Sold = NewCardSet(7)
			},
			wantErr:   ErrCardsAlreadyHeldBySameOrder,
			wantCards: NewCardSet(7),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := testOrder(1, 1)
			if tt.setup != nil {
				tt.setup(o)
			}
			before := o.Clone()

			err := o.Withdraw(testEvent(), tt.cards, []*Order{o}, testNow)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.wantCards != nil {
				assert.Equal(t, tt.wantCards, CardsOf(err))
			}
			assert.Equal(t, before, o)
		})
	}
}

func TestOrder_Withdraw_WrongEvent(t *testing.T) {
	o := testOrder(1, 1)
	other := testEvent()
	other.ID = 99

	err := o.Withdraw(other, NewCardSet(1), nil, testNow)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestOrder_Withdraw_InputOrderIrrelevant(t *testing.T) {
	a := testOrder(1, 1)
	b := testOrder(1, 1)

	require.NoError(t, a.Withdraw(testEvent(), NewCardSet(5, 1, 3, 3), nil, testNow))
	require.NoError(t, b.Withdraw(testEvent(), NewCardSet(3, 5, 1), nil, testNow))
	assert.Equal(t, a, b)
}

func TestOrder_Sell(t *testing.T) {
	o := testOrder(1, 1)
	require.NoError(t, o.Withdraw(testEvent(), NewCardSet(1, 2, 3), nil, testNow))

	later := testNow.Add(time.Hour)
	require.NoError(t, o.Sell(NewCardSet(1, 2), later))
	assert.Equal(t, NewCardSet(3), o.Pending)
	assert.Equal(t, NewCardSet(1, 2), o.Sold)
	assert.Equal(t, NewCardSet(1, 2, 3), o.Withdrawn)
	assert.Equal(t, later, o.UpdatedAt)

	err := o.Sell(NewCardSet(2), later)
	assert.ErrorIs(t, err, ErrCardsNotPending)
	assert.Equal(t, NewCardSet(2), CardsOf(err))

	err = o.Sell(NewCardSet(3, 9), later)
	assert.ErrorIs(t, err, ErrCardsNotPending)
	assert.Equal(t, NewCardSet(9), CardsOf(err))
	assert.Equal(t, NewCardSet(3), o.Pending, "partial batch must not be applied")

	assert.ErrorIs(t, o.Sell(CardSet{}, later), ErrInvalidInput)
}

func TestOrder_Return(t *testing.T) {
	o := testOrder(1, 1)
	require.NoError(t, o.Withdraw(testEvent(), NewCardSet(1, 2, 3), nil, testNow))
	require.NoError(t, o.Sell(NewCardSet(1), testNow))

	err := o.Return(NewCardSet(1), testNow)
	assert.ErrorIs(t, err, ErrCardsNotReturnable)
	assert.Equal(t, NewCardSet(1), CardsOf(err))

	err = o.Return(NewCardSet(8), testNow)
	assert.ErrorIs(t, err, ErrCardsNotReturnable)

	require.NoError(t, o.Return(NewCardSet(3), testNow))
	assert.Equal(t, NewCardSet(2), o.Pending)
	assert.Equal(t, NewCardSet(3), o.Returned)
	assert.Equal(t, NewCardSet(1, 2, 3), o.Withdrawn, "returned cards stay in withdrawn")
	assert.Equal(t, NewCardSet(1, 2), o.Held())
}

func TestOrder_ReturnThenWithdrawAgain(t *testing.T) {
	event := testEvent()
	o := testOrder(1, 1)

	require.NoError(t, o.Withdraw(event, NewCardSet(4), nil, testNow))
	require.NoError(t, o.Return(NewCardSet(4), testNow))
	require.NoError(t, o.Withdraw(event, NewCardSet(4), nil, testNow))

	assert.Equal(t, NewCardSet(4), o.Pending)
	assert.True(t, o.Returned.IsEmpty())
	assert.Equal(t, NewCardSet(4), o.Withdrawn)
	assert.NoError(t, o.CheckInvariants())
}

func TestOrder_CanDelete(t *testing.T) {
	o := testOrder(7, 1)
	assert.NoError(t, o.CanDelete())

	require.NoError(t, o.Withdraw(testEvent(), NewCardSet(1, 2), nil, testNow))
	err := o.CanDelete()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOrderHasPendingCards)

	var pendingErr *PendingCardsError
	require.True(t, errors.As(err, &pendingErr))
	assert.Equal(t, 2, pendingErr.Count)
	assert.Equal(t, int64(7), pendingErr.OrderID)

	require.NoError(t, o.Sell(NewCardSet(1), testNow))
	require.NoError(t, o.Return(NewCardSet(2), testNow))
	assert.NoError(t, o.CanDelete())
}

func TestOrder_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{OrderOpen, OrderClosed, true},
		{OrderOpen, OrderCancelled, true},
		{OrderOpen, OrderOpen, false},
		{OrderClosed, OrderOpen, false},
		{OrderClosed, OrderCancelled, false},
		{OrderCancelled, OrderClosed, false},
	}

	for _, tt := range tests {
		o := &Order{Status: tt.from}
		assert.Equal(t, tt.want, o.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestOrder_CheckInvariants(t *testing.T) {
	o := &Order{ID: 3, EventID: 1, Withdrawn: NewCardSet(1, 2), Pending: NewCardSet(1), Sold: NewCardSet(1)}
	err := o.CheckInvariants()
	assert.ErrorIs(t, err, ErrInternalInconsistency)

	o = &Order{ID: 3, EventID: 1, Withdrawn: NewCardSet(1), Returned: NewCardSet(5)}
	assert.ErrorIs(t, o.CheckInvariants(), ErrInternalInconsistency)
}

func TestOrderCreateRequest_Validate(t *testing.T) {
	assert.NoError(t, (&OrderCreateRequest{EventID: 1, SellerID: 2, QuantityRequested: 10}).Validate())
	assert.ErrorIs(t, (&OrderCreateRequest{SellerID: 2}).Validate(), ErrInvalidInput)
	assert.ErrorIs(t, (&OrderCreateRequest{EventID: 1}).Validate(), ErrInvalidInput)
	assert.ErrorIs(t, (&OrderCreateRequest{EventID: 1, SellerID: 2, QuantityRequested: -1}).Validate(), ErrInvalidInput)
}

// Random sequences of operations across several orders must never break the
// per-order invariants or let two orders hold the same card.
func TestInventory_RandomOperationsKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	event := &Event{ID: 1, RangeStart: 1, RangeEnd: 30, CardCount: 30, Active: true}

	orders := make([]*Order, 4)
	for i := range orders {
		orders[i] = testOrder(int64(i+1), int64(i+1))
	}

	randomCards := func() CardSet {
		n := rng.Intn(4) + 1
		cards := make([]int, n)
		for i := range cards {
			cards[i] = rng.Intn(32)
		}
		return NewCardSet(cards...)
	}

	for step := 0; step < 2000; step++ {
		o := orders[rng.Intn(len(orders))]
		before := o.Clone()

		var err error
		switch rng.Intn(3) {
		case 0:
			err = o.Withdraw(event, randomCards(), orders, testNow)
		case 1:
			err = o.Sell(randomCards(), testNow)
		default:
			err = o.Return(randomCards(), testNow)
		}
		if err != nil {
			require.Equal(t, before, o, "step %d: failed operation mutated the order", step)
		}

		for _, each := range orders {
			require.NoError(t, each.CheckInvariants(), "step %d", step)
		}
		require.NoError(t, CheckEventHolds(event.ID, orders), "step %d", step)
	}
}
