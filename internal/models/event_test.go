package models

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCardRange(t *testing.T) {
	tests := []struct {
		name       string
		start, end int
		count      int
		wantErr    bool
	}{
		{name: "valid range", start: 1, end: 10, count: 10},
		{name: "two cards", start: 5, end: 6, count: 2},
		{name: "single card range", start: 1, end: 1, count: 1, wantErr: true},
		{name: "inverted range", start: 10, end: 1, count: 10, wantErr: true},
		{name: "count mismatch", start: 1, end: 10, count: 9, wantErr: true},
		{name: "negative start", start: -5, end: 10, count: 16, wantErr: true},
		{name: "largest pool", start: 1, end: MaxCardsPerEvent, count: MaxCardsPerEvent},
		{name: "pool too large", start: 0, end: MaxCardsPerEvent, count: MaxCardsPerEvent + 1, wantErr: true},
		{name: "two billion cards", start: 0, end: 2_000_000_000, count: 2_000_000_001, wantErr: true},
		{name: "end at max int", start: 0, end: math.MaxInt, count: 0, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCardRange(tt.start, tt.end, tt.count)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrEventRangeInvalid)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestEventCreateRequest_Validate(t *testing.T) {
	valid := EventCreateRequest{
		Name:       "Spring bingo",
		RangeStart: 1,
		RangeEnd:   100,
		CardCount:  100,
		Price:      "5.00",
		EventDate:  time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC),
	}
	assert.NoError(t, valid.Validate())

	noName := valid
	noName.Name = "  "
	assert.ErrorIs(t, noName.Validate(), ErrInvalidInput)

	badRange := valid
	badRange.CardCount = 99
	assert.ErrorIs(t, badRange.Validate(), ErrEventRangeInvalid)

	badPrice := valid
	badPrice.Price = "5.001"
	assert.ErrorIs(t, badPrice.Validate(), ErrInvalidInput)

	noDate := valid
	noDate.EventDate = time.Time{}
	assert.ErrorIs(t, noDate.Validate(), ErrInvalidInput)
}

func TestEventUpdateRequest_Apply(t *testing.T) {
	event := &Event{ID: 1, Name: "Bingo", RangeStart: 1, RangeEnd: 10, CardCount: 10, PriceCents: 500}

	end := 20
	updated, err := (&EventUpdateRequest{RangeEnd: &end}).Apply(event)
	require.NoError(t, err)
	assert.Equal(t, 20, updated.RangeEnd)
	assert.Equal(t, 20, updated.CardCount, "count follows the range when not given")
	assert.Equal(t, 10, event.RangeEnd, "original is untouched")

	count := 15
	_, err = (&EventUpdateRequest{RangeEnd: &end, CardCount: &count}).Apply(event)
	assert.ErrorIs(t, err, ErrEventRangeInvalid)

	price := "7.5"
	updated, err = (&EventUpdateRequest{Price: &price}).Apply(event)
	require.NoError(t, err)
	assert.Equal(t, int64(750), updated.PriceCents)
	assert.False(t, event.RangeChanged(updated))
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "5.00", want: 500},
		{in: "5", want: 500},
		{in: "0.1", want: 10},
		{in: " 12.34 ", want: 1234},
		{in: "0", want: 0},
		{in: "1.005", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "", wantErr: true},
		{in: "92233720368.54", want: MaxPriceCents},
		{in: "92233720368.55", wantErr: true},
		{in: "100000000000000000000", wantErr: true},
		{in: "92233720368547758.08", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParsePrice(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestEvent_Validate_PriceBound(t *testing.T) {
	event := &Event{Name: "Bingo", RangeStart: 1, RangeEnd: 10, CardCount: 10, PriceCents: MaxPriceCents}
	require.NoError(t, event.Validate())

	event.PriceCents = MaxPriceCents + 1
	assert.ErrorIs(t, event.Validate(), ErrInvalidInput)
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "10.00", FormatCents(1000))
	assert.Equal(t, "0.05", FormatCents(5))
	assert.Equal(t, "1234.50", FormatCents(123450))
}

func TestEvent_Pool(t *testing.T) {
	event := &Event{RangeStart: 3, RangeEnd: 6, CardCount: 4}
	assert.Equal(t, NewCardSet(3, 4, 5, 6), event.Pool())
	assert.True(t, event.InRange(6))
	assert.False(t, event.InRange(7))
}
