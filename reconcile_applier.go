package identity

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
)

// Reconciler drives the three administrative reconciliation call sites:
// user/role assignment, user claims, role claims. Each call loads the current
// set from the store, computes the delta, and applies removals before
// additions so replacing an item under a unique key cannot transiently
// violate a store constraint.
//
// The store calls are not wrapped in a cross-call transaction. When a
// mutation fails after earlier ones succeeded, the error reports what was
// applied; callers are expected to re-submit the same desired set, which is
// idempotent (an up-to-date assignment computes an empty delta and performs
// no writes).
type Reconciler struct {
	store  IdentityStore
	logger Logger
}

// NewReconciler returns a reconciler applying deltas against the given store.
func NewReconciler(store IdentityStore) *Reconciler {
	return &Reconciler{
		store:  store,
		logger: defLogger{},
	}
}

func (r *Reconciler) WithLogger(logger Logger) *Reconciler {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// ReconcileRoles makes the principal's role assignments equal to desired.
// Returns the delta that was applied.
func (r *Reconciler) ReconcileRoles(ctx context.Context, username string, desired []string) (Delta[string], error) {
	principal, err := r.findPrincipal(ctx, username)
	if err != nil {
		return Delta[string]{}, err
	}

	current, err := r.store.RolesOf(ctx, principal)
	if err != nil {
		return Delta[string]{}, WrapStoreFailure(err, "failed to load current roles")
	}

	delta := DiffRoles(current, desired)
	if delta.IsZero() {
		return delta, nil
	}

	if len(delta.ToRemove) > 0 {
		if err := r.store.RemoveRoles(ctx, principal, delta.ToRemove); err != nil {
			return delta, WrapStoreFailure(err, "failed to remove roles")
		}
	}

	if len(delta.ToAdd) > 0 {
		if err := r.store.AddRoles(ctx, principal, delta.ToAdd); err != nil {
			return delta, r.partial(err, map[string]any{
				"username": username,
				"removed":  delta.ToRemove,
				"pending":  delta.ToAdd,
			})
		}
	}

	r.logger.Info("reconciled roles", "username", username, "added", len(delta.ToAdd), "removed", len(delta.ToRemove))
	return delta, nil
}

// ReconcileUserClaims makes the principal's direct claims equal to desired,
// keyed by claim type.
func (r *Reconciler) ReconcileUserClaims(ctx context.Context, username string, desired []Claim) (Delta[Claim], error) {
	principal, err := r.findPrincipal(ctx, username)
	if err != nil {
		return Delta[Claim]{}, err
	}

	current, err := r.store.ClaimsOf(ctx, principal)
	if err != nil {
		return Delta[Claim]{}, WrapStoreFailure(err, "failed to load current claims")
	}

	delta := DiffClaims(current, desired)
	if delta.IsZero() {
		return delta, nil
	}

	if len(delta.ToRemove) > 0 {
		if err := r.store.RemoveClaims(ctx, principal, delta.ToRemove); err != nil {
			return delta, WrapStoreFailure(err, "failed to remove claims")
		}
	}

	if len(delta.ToAdd) > 0 {
		if err := r.store.AddClaims(ctx, principal, delta.ToAdd); err != nil {
			return delta, r.partial(err, map[string]any{
				"username": username,
				"removed":  claimTypes(delta.ToRemove),
				"pending":  claimTypes(delta.ToAdd),
			})
		}
	}

	r.logger.Info("reconciled user claims", "username", username, "added", len(delta.ToAdd), "removed", len(delta.ToRemove))
	return delta, nil
}

// ReconcileRoleClaims makes the role's claims equal to desired, keyed by
// claim type. The role is addressed by its stable id, matching the admin
// surface.
func (r *Reconciler) ReconcileRoleClaims(ctx context.Context, roleID string, desired []Claim) (Delta[Claim], error) {
	role, err := r.store.FindRoleByID(ctx, roleID)
	if err != nil {
		if IsNotFound(err) {
			return Delta[Claim]{}, ErrRoleNotFound
		}
		return Delta[Claim]{}, WrapStoreFailure(err, "failed to look up role")
	}

	current, err := r.store.ClaimsOfRole(ctx, role)
	if err != nil {
		return Delta[Claim]{}, WrapStoreFailure(err, "failed to load current role claims")
	}

	delta := DiffClaims(current, desired)
	if delta.IsZero() {
		return delta, nil
	}

	if len(delta.ToRemove) > 0 {
		if err := r.store.RemoveRoleClaims(ctx, role, delta.ToRemove); err != nil {
			return delta, WrapStoreFailure(err, "failed to remove role claims")
		}
	}

	if len(delta.ToAdd) > 0 {
		if err := r.store.AddRoleClaims(ctx, role, delta.ToAdd); err != nil {
			return delta, r.partial(err, map[string]any{
				"role_id": roleID,
				"removed": claimTypes(delta.ToRemove),
				"pending": claimTypes(delta.ToAdd),
			})
		}
	}

	r.logger.Info("reconciled role claims", "role_id", roleID, "added", len(delta.ToAdd), "removed", len(delta.ToRemove))
	return delta, nil
}

func (r *Reconciler) findPrincipal(ctx context.Context, username string) (*Principal, error) {
	principal, err := r.store.FindPrincipalByUsername(ctx, username)
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrPrincipalNotFound
		}
		return nil, WrapStoreFailure(err, "failed to look up principal")
	}
	return principal, nil
}

func (r *Reconciler) partial(err error, metadata map[string]any) *goerrors.Error {
	r.logger.Error("reconciliation partially applied", "error", err, "metadata", metadata)
	return WrapPartiallyApplied(err, metadata)
}

func claimTypes(claims []Claim) []string {
	types := make([]string, len(claims))
	for i, c := range claims {
		types[i] = c.Type
	}
	return types
}
