package identity_test

import (
	"testing"

	identity "github.com/idforge/go-identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func applyDelta[T any, K comparable](current []T, delta identity.Delta[T], keyOf func(T) K) map[K]struct{} {
	result := map[K]struct{}{}
	removed := map[K]struct{}{}
	for _, item := range delta.ToRemove {
		removed[keyOf(item)] = struct{}{}
	}
	for _, item := range current {
		if _, gone := removed[keyOf(item)]; !gone {
			result[keyOf(item)] = struct{}{}
		}
	}
	for _, item := range delta.ToAdd {
		result[keyOf(item)] = struct{}{}
	}
	return result
}

func TestDiffRoles(t *testing.T) {
	t.Run("computes add and remove sets", func(t *testing.T) {
		delta := identity.DiffRoles(
			[]string{"viewer", "admin"},
			[]string{"editor", "viewer"},
		)

		assert.Equal(t, []string{"editor"}, delta.ToAdd)
		assert.Equal(t, []string{"admin"}, delta.ToRemove)
	})

	t.Run("identical sets yield an empty delta", func(t *testing.T) {
		sets := [][]string{
			nil,
			{},
			{"admin"},
			{"admin", "editor", "viewer"},
		}

		for _, s := range sets {
			delta := identity.DiffRoles(s, s)
			assert.True(t, delta.IsZero())
		}
	})

	t.Run("applying the delta yields the desired set", func(t *testing.T) {
		cases := []struct {
			current []string
			desired []string
		}{
			{nil, []string{"a", "b"}},
			{[]string{"a", "b"}, nil},
			{[]string{"a", "b", "c"}, []string{"b", "c", "d"}},
			{[]string{"x"}, []string{"x"}},
			{[]string{"a", "a", "b"}, []string{"b", "b", "c"}},
		}

		keyOf := func(s string) string { return s }

		for _, tc := range cases {
			delta := identity.DiffRoles(tc.current, tc.desired)
			got := applyDelta(tc.current, delta, keyOf)

			want := map[string]struct{}{}
			for _, s := range tc.desired {
				want[s] = struct{}{}
			}
			assert.Equal(t, want, got, "current=%v desired=%v", tc.current, tc.desired)
		}
	})

	t.Run("inputs are not mutated", func(t *testing.T) {
		current := []string{"a", "b"}
		desired := []string{"b", "c"}

		identity.DiffRoles(current, desired)

		assert.Equal(t, []string{"a", "b"}, current)
		assert.Equal(t, []string{"b", "c"}, desired)
	})
}

func TestDiffClaims(t *testing.T) {
	t.Run("keyed on claim type", func(t *testing.T) {
		delta := identity.DiffClaims(
			[]identity.Claim{{Type: "scope", Value: "read"}, {Type: "region", Value: "eu"}},
			[]identity.Claim{{Type: "scope", Value: "read"}, {Type: "tier", Value: "gold"}},
		)

		require.Len(t, delta.ToAdd, 1)
		assert.Equal(t, "tier", delta.ToAdd[0].Type)
		require.Len(t, delta.ToRemove, 1)
		assert.Equal(t, "region", delta.ToRemove[0].Type)
	})

	t.Run("value divergence under a present type is not reconciled", func(t *testing.T) {
		delta := identity.DiffClaims(
			[]identity.Claim{{Type: "scope", Value: "read"}},
			[]identity.Claim{{Type: "scope", Value: "write"}},
		)

		assert.True(t, delta.IsZero())
	})

	t.Run("duplicate desired types count once", func(t *testing.T) {
		delta := identity.DiffClaims(
			nil,
			[]identity.Claim{{Type: "scope", Value: "read"}, {Type: "scope", Value: "write"}},
		)

		require.Len(t, delta.ToAdd, 1)
		assert.Equal(t, "read", delta.ToAdd[0].Value)
	})
}
