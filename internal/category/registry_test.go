package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalize(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		expected string
	}{
		{"lowercases and trims", "  Cafe/Bakery ", "cafe/bakery"},
		{"collapses slash spacing", "cafe / bakery", "cafe/bakery"},
		{"folds fullwidth slash", "cafe／bakery", "cafe/bakery"},
		{"no-op on canonical input", "restaurant/bar", "restaurant/bar"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Canonicalize(tt.in))
		})
	}
}

func TestResolve_AppliesAliases(t *testing.T) {
	assert.Equal(t, "retail/convenience", Resolve("Mart"))
	assert.Equal(t, "cafe/bakery", Resolve("cafe / dessert"))
	assert.Equal(t, "restaurant/bar", Resolve("diner"))
	assert.Equal(t, "services", Resolve("office/coworking"))
	// Unknown spellings pass through canonicalized.
	assert.Equal(t, "laundromat", Resolve("Laundromat"))
}

func TestIsAllowed(t *testing.T) {
	assert.True(t, IsAllowed("cafe/bakery"))
	assert.True(t, IsAllowed("Cafe / Bakery"))
	assert.False(t, IsAllowed("laundromat"))
}

func TestAllowedTargets_ExcludesOther(t *testing.T) {
	targets := AllowedTargets()
	assert.Len(t, targets, len(Categories)-1)
	assert.NotContains(t, targets, Other)
}

func TestBucketsToCategories(t *testing.T) {
	in := map[string]int64{
		"Food Service":      12,
		"retail":            7,
		"finance/insurance": 2,
		"real estate":       3,
		"manufacturing":     4,
		"unknown sector":    1,
	}

	out := BucketsToCategories(in)

	assert.Equal(t, int64(12), out["restaurant/bar"])
	assert.Equal(t, int64(7), out["retail/convenience"])
	// Buckets mapping to the same category merge.
	assert.Equal(t, int64(5), out["realestate/finance"])
	// Manufacturing and unknowns land in the catch-all.
	assert.Equal(t, int64(5), out[Other])
}

func TestGuessFromGroups(t *testing.T) {
	counts := map[string]int64{
		GroupCafe: 9,
		GroupFood: 4,
	}
	assert.Equal(t, "cafe/bakery", GuessFromGroups(counts, AllowedTargets()))

	// Guess outside the allowed list falls back to the first allowed entry.
	assert.Equal(t, "restaurant/bar", GuessFromGroups(counts, []string{"restaurant/bar"}))

	// No signal at all still yields a deterministic category.
	assert.Equal(t, "restaurant/bar", GuessFromGroups(nil, AllowedTargets()))
}
