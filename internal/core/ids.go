package core

import (
	"math/rand/v2"
	"strconv"
)

// Identifier prefixes.
const (
	PrefixUser        = "UI"
	PrefixTransaction = "TI"
	PrefixBudget      = "BI"
	PrefixGoal        = "GI"
	PrefixReport      = "RI"
)

// NewID returns "<prefix>-<n>". User ids draw from 10000-909999, all other
// records from 1000-900999. Collisions are not checked.
func NewID(prefix string) string {
	lo, span := 1000, 900000
	if prefix == PrefixUser {
		lo = 10000
	}
	return prefix + "-" + strconv.Itoa(lo+rand.IntN(span))
}
