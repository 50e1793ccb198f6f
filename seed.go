package identity

import (
	"context"

	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// SeedPrincipal describes a bootstrap user fixture.
type SeedPrincipal struct {
	Username string
	Email    string
	Password string
	Roles    []string
	Claims   []Claim
}

// SeedRole describes a bootstrap role fixture.
type SeedRole struct {
	Name   string
	Claims []Claim
}

// Seed provisions fixture roles and principals. Records are created through
// GetOrCreate and assignments are applied as deltas against the current
// store state, so re-seeding an existing database is a no-op: fixture ids
// derive from the username/role name and links already present are left
// untouched. Intended for local bootstrap and tests, not production data
// entry.
func Seed(ctx context.Context, repo RepositoryManager, store IdentityStore, roles []SeedRole, principals []SeedPrincipal) error {
	for _, fixture := range roles {
		role := &Role{
			ID:   seedID(fixture.Name),
			Name: fixture.Name,
		}
		if _, err := repo.Roles().GetOrCreate(ctx, role); err != nil {
			return WrapStoreFailure(err, "failed to seed role "+fixture.Name)
		}
	}

	for _, fixture := range principals {
		hash, err := HashPassword(fixture.Password)
		if err != nil {
			return err
		}

		principal := &Principal{
			ID:           seedID(fixture.Username),
			Username:     fixture.Username,
			Email:        fixture.Email,
			PasswordHash: hash,
		}
		if _, err := repo.Principals().GetOrCreate(ctx, principal); err != nil {
			return WrapStoreFailure(err, "failed to seed principal "+fixture.Username)
		}
	}

	return SeedAssignments(ctx, store, roles, principals)
}

// SeedAssignments applies fixture role and claim assignments additively:
// only links missing from the current store state are written, and nothing
// is removed. Applying the same fixtures twice performs no writes on the
// second pass. Records must already exist; Seed handles creation.
func SeedAssignments(ctx context.Context, store IdentityStore, roles []SeedRole, principals []SeedPrincipal) error {
	for _, fixture := range roles {
		role, err := store.FindRoleByName(ctx, fixture.Name)
		if err != nil {
			return WrapStoreFailure(err, "failed to resolve seeded role "+fixture.Name)
		}

		current, err := store.ClaimsOfRole(ctx, role)
		if err != nil {
			return WrapStoreFailure(err, "failed to load claims of role "+fixture.Name)
		}

		if missing := DiffClaims(current, fixture.Claims).ToAdd; len(missing) > 0 {
			if err := store.AddRoleClaims(ctx, role, missing); err != nil {
				return WrapStoreFailure(err, "failed to seed claims of role "+fixture.Name)
			}
		}
	}

	for _, fixture := range principals {
		principal, err := store.FindPrincipalByUsername(ctx, fixture.Username)
		if err != nil {
			return WrapStoreFailure(err, "failed to resolve seeded principal "+fixture.Username)
		}

		currentRoles, err := store.RolesOf(ctx, principal)
		if err != nil {
			return WrapStoreFailure(err, "failed to load roles of principal "+fixture.Username)
		}

		if missing := DiffRoles(currentRoles, fixture.Roles).ToAdd; len(missing) > 0 {
			if err := store.AddRoles(ctx, principal, missing); err != nil {
				return err
			}
		}

		currentClaims, err := store.ClaimsOf(ctx, principal)
		if err != nil {
			return WrapStoreFailure(err, "failed to load claims of principal "+fixture.Username)
		}

		if missing := DiffClaims(currentClaims, fixture.Claims).ToAdd; len(missing) > 0 {
			if err := store.AddClaims(ctx, principal, missing); err != nil {
				return WrapStoreFailure(err, "failed to seed claims of principal "+fixture.Username)
			}
		}
	}

	return nil
}

func seedID(identifier string) uuid.UUID {
	if id, err := hashid.NewUUID(identifier); err == nil {
		return id
	}
	return uuid.New()
}
