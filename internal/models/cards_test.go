package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCardSet(t *testing.T) {
	assert.Equal(t, CardSet{1, 2, 5}, NewCardSet(5, 1, 2, 5, 1))
	assert.Equal(t, CardSet{}, NewCardSet())
	assert.True(t, NewCardSet().IsEmpty())
}

func TestCardSet_Operations(t *testing.T) {
	a := NewCardSet(1, 2, 3, 7)
	b := NewCardSet(3, 4, 7, 9)

	assert.Equal(t, CardSet{1, 2, 3, 4, 7, 9}, a.Union(b))
	assert.Equal(t, CardSet{1, 2}, a.Difference(b))
	assert.Equal(t, CardSet{3, 7}, a.Intersect(b))
	assert.True(t, a.Contains(7))
	assert.False(t, a.Contains(4))
	assert.True(t, a.Equal(NewCardSet(7, 3, 2, 1)))
	assert.Equal(t, CardSet{1, 2, 3, 7}, a, "operations must not modify the receiver")
}

func TestCardSet_OutsideRange(t *testing.T) {
	assert.Equal(t, CardSet{0, 12}, NewCardSet(0, 1, 10, 12).OutsideRange(1, 10))
	assert.True(t, NewCardSet(1, 10).OutsideRange(1, 10).IsEmpty())
}

func TestCardRange(t *testing.T) {
	assert.Equal(t, CardSet{4, 5, 6}, CardRange(4, 6))
	assert.True(t, CardRange(6, 4).IsEmpty())
}

func TestCardSet_String(t *testing.T) {
	assert.Equal(t, "[1,4]", NewCardSet(4, 1).String())
}
