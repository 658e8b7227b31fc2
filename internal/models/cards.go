package models

import (
	"fmt"
	"sort"
	"strings"
)

// CardSet is a sorted, duplicate-free set of card numbers.
// The zero value is an empty set. Operations never modify their receiver.
type CardSet []int

// NewCardSet builds a set from card numbers in any order, dropping duplicates
func NewCardSet(cards ...int) CardSet {
	if len(cards) == 0 {
		return CardSet{}
	}

	set := make(CardSet, len(cards))
	copy(set, cards)
	sort.Ints(set)

	out := set[:1]
	for _, c := range set[1:] {
		if c != out[len(out)-1] {
			out = append(out, c)
		}
	}
	return out
}

// CardRange returns every card number in [start, end]
func CardRange(start, end int) CardSet {
	if end < start {
		return CardSet{}
	}
	set := make(CardSet, 0, end-start+1)
	for c := start; c <= end; c++ {
		set = append(set, c)
	}
	return set
}

// Len returns the number of cards in the set
func (s CardSet) Len() int {
	return len(s)
}

// IsEmpty reports whether the set has no cards
func (s CardSet) IsEmpty() bool {
	return len(s) == 0
}

// Contains reports whether card is in the set
func (s CardSet) Contains(card int) bool {
	i := sort.SearchInts(s, card)
	return i < len(s) && s[i] == card
}

// Union returns the cards present in either set
func (s CardSet) Union(other CardSet) CardSet {
	out := make(CardSet, 0, len(s)+len(other))
	i, j := 0, 0
	for i < len(s) && j < len(other) {
		switch {
		case s[i] < other[j]:
			out = append(out, s[i])
			i++
		case s[i] > other[j]:
			out = append(out, other[j])
			j++
		default:
			out = append(out, s[i])
			i++
			j++
		}
	}
	out = append(out, s[i:]...)
	out = append(out, other[j:]...)
	return out
}

// Difference returns the cards of s that are not in other
func (s CardSet) Difference(other CardSet) CardSet {
	out := make(CardSet, 0, len(s))
	j := 0
	for _, c := range s {
		for j < len(other) && other[j] < c {
			j++
		}
		if j < len(other) && other[j] == c {
			continue
		}
		out = append(out, c)
	}
	return out
}

// Intersect returns the cards present in both sets
func (s CardSet) Intersect(other CardSet) CardSet {
	out := make(CardSet, 0)
	i, j := 0, 0
	for i < len(s) && j < len(other) {
		switch {
		case s[i] < other[j]:
			i++
		case s[i] > other[j]:
			j++
		default:
			out = append(out, s[i])
			i++
			j++
		}
	}
	return out
}

// Equal reports whether both sets hold the same cards
func (s CardSet) Equal(other CardSet) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// OutsideRange returns the cards not within [start, end]
func (s CardSet) OutsideRange(start, end int) CardSet {
	out := make(CardSet, 0)
	for _, c := range s {
		if c < start || c > end {
			out = append(out, c)
		}
	}
	return out
}

// Clone returns an independent copy of the set
func (s CardSet) Clone() CardSet {
	out := make(CardSet, len(s))
	copy(out, s)
	return out
}

// Ints returns the cards as a plain slice
func (s CardSet) Ints() []int {
	return []int(s.Clone())
}

func (s CardSet) String() string {
	parts := make([]string, len(s))
	for i, c := range s {
		parts[i] = fmt.Sprint(c)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
