// Package identity provides identity administration primitives: password
// login with signed JWT issuance, and set reconciliation of role and claim
// assignments against a pluggable identity store.
//
// Token issuance:
//   - Issuer verifies a credential pair against the IdentityStore and mints a
//     time-bounded HS256 token. The embedded claim set is assembled by
//     ClaimSetBuilder in a fixed order (subject name, fresh token id, direct
//     claims, per-role membership and role claims, login timestamp) so issued
//     tokens are reproducible under test.
//   - Unknown usernames and failed password checks are indistinguishable to
//     callers; both surface ErrInvalidCredentials.
//
// Reconciliation:
//   - Diff computes the minimal add/remove delta between a current and a
//     desired assignment set, keyed by a caller-supplied key function.
//   - Reconciler drives the three administrative call sites (user roles, user
//     claims, role claims), removing before adding so type/name uniqueness
//     constraints in the store cannot be transiently violated. Store calls are
//     not transactional across the delta; partial failures are reported, not
//     compensated.
//
// The package ships a Bun-backed IdentityStore (BunStore) together with
// embedded migrations, but every component only depends on the IdentityStore
// interface, so hosts can supply their own store.
package identity
