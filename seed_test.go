package identity_test

import (
	"context"
	"testing"

	identity "github.com/idforge/go-identity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedAssignments(t *testing.T) {
	ctx := context.Background()

	fixtures := func() ([]identity.SeedRole, []identity.SeedPrincipal) {
		roles := []identity.SeedRole{
			{Name: "admin", Claims: []identity.Claim{{Type: "scope", Value: "all"}}},
			{Name: "viewer"},
		}
		principals := []identity.SeedPrincipal{
			{
				Username: "alice",
				Password: "s3cret",
				Roles:    []string{"admin"},
				Claims:   []identity.Claim{{Type: "tier", Value: "gold"}},
			},
		}
		return roles, principals
	}

	seedStore := func() *memStore {
		store := newMemStore()
		store.addRole(&identity.Role{ID: uuid.New(), Name: "admin"})
		store.addRole(&identity.Role{ID: uuid.New(), Name: "viewer"})
		store.addPrincipal(&identity.Principal{ID: uuid.New(), Username: "alice"}, "s3cret")
		return store
	}

	t.Run("applies fixture assignments", func(t *testing.T) {
		store := seedStore()
		roles, principals := fixtures()

		require.NoError(t, identity.SeedAssignments(ctx, store, roles, principals))

		admin, err := store.FindRoleByName(ctx, "admin")
		require.NoError(t, err)
		adminClaims, err := store.ClaimsOfRole(ctx, admin)
		require.NoError(t, err)
		assert.Len(t, adminClaims, 1)

		alice, err := store.FindPrincipalByUsername(ctx, "alice")
		require.NoError(t, err)
		aliceRoles, err := store.RolesOf(ctx, alice)
		require.NoError(t, err)
		assert.Equal(t, []string{"admin"}, aliceRoles)
		aliceClaims, err := store.ClaimsOf(ctx, alice)
		require.NoError(t, err)
		assert.Len(t, aliceClaims, 1)
	})

	t.Run("re-seeding performs no writes", func(t *testing.T) {
		store := seedStore()
		roles, principals := fixtures()

		require.NoError(t, identity.SeedAssignments(ctx, store, roles, principals))
		writesAfterFirst := store.writeCount()
		assert.Greater(t, writesAfterFirst, 0)

		require.NoError(t, identity.SeedAssignments(ctx, store, roles, principals))
		assert.Equal(t, writesAfterFirst, store.writeCount())
	})

	t.Run("only missing links are written over partial state", func(t *testing.T) {
		store := seedStore()
		alice, err := store.FindPrincipalByUsername(ctx, "alice")
		require.NoError(t, err)
		require.NoError(t, store.AddRoles(ctx, alice, []string{"admin"}))

		roles, principals := fixtures()
		require.NoError(t, identity.SeedAssignments(ctx, store, roles, principals))

		aliceRoles, err := store.RolesOf(ctx, alice)
		require.NoError(t, err)
		assert.Equal(t, []string{"admin"}, aliceRoles)
	})

	t.Run("assignments already present are left untouched", func(t *testing.T) {
		store := seedStore()
		alice, err := store.FindPrincipalByUsername(ctx, "alice")
		require.NoError(t, err)
		require.NoError(t, store.AddClaims(ctx, alice, []identity.Claim{{Type: "region", Value: "eu"}}))

		roles, principals := fixtures()
		require.NoError(t, identity.SeedAssignments(ctx, store, roles, principals))

		aliceClaims, err := store.ClaimsOf(ctx, alice)
		require.NoError(t, err)

		types := make([]string, len(aliceClaims))
		for i, c := range aliceClaims {
			types[i] = c.Type
		}
		assert.ElementsMatch(t, []string{"region", "tier"}, types)
	})
}
