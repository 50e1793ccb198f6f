package identity

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunStore is the Bun-backed reference implementation of IdentityStore.
// Assignments live in link tables (principal_roles, principal_claims,
// role_claims) with per-key uniqueness enforced by the schema.
type BunStore struct {
	db     *bun.DB
	repo   RepositoryManager
	logger Logger
}

var _ IdentityStore = (*BunStore)(nil)

func NewBunStore(db *bun.DB) *BunStore {
	return &BunStore{
		db:     db,
		repo:   NewRepositoryManager(db),
		logger: defLogger{},
	}
}

func (s *BunStore) WithLogger(logger Logger) *BunStore {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Repositories exposes the underlying repository manager for host wiring.
func (s *BunStore) Repositories() RepositoryManager {
	return s.repo
}

func (s *BunStore) FindPrincipalByUsername(ctx context.Context, username string) (*Principal, error) {
	principal, err := s.repo.Principals().GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	roles, err := s.RolesOf(ctx, principal)
	if err != nil {
		return nil, err
	}
	principal.Roles = roles

	return principal, nil
}

// VerifyPassword compares the plaintext against the stored bcrypt hash. The
// comparison is delegated wholesale; a mismatch is (false, nil), not an
// error.
func (s *BunStore) VerifyPassword(ctx context.Context, principal *Principal, password string) (bool, error) {
	if principal == nil {
		return false, goerrors.New("principal is required", goerrors.CategoryBadInput)
	}

	if err := ComparePasswordAndHash(password, principal.PasswordHash); err != nil {
		if goerrors.Is(err, ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

func (s *BunStore) RolesOf(ctx context.Context, principal *Principal) ([]string, error) {
	if principal == nil {
		return nil, goerrors.New("principal is required", goerrors.CategoryBadInput)
	}

	var names []string
	err := s.db.NewSelect().
		ColumnExpr("rol.name").
		TableExpr("roles AS rol").
		Join("JOIN principal_roles AS prl ON prl.role_id = rol.id").
		Where("prl.principal_id = ?", principal.ID).
		OrderExpr("rol.name ASC").
		Scan(ctx, &names)

	return names, err
}

func (s *BunStore) ClaimsOf(ctx context.Context, principal *Principal) ([]Claim, error) {
	if principal == nil {
		return nil, goerrors.New("principal is required", goerrors.CategoryBadInput)
	}

	var records []PrincipalClaim
	err := s.db.NewSelect().
		Model(&records).
		Where("?TableAlias.principal_id = ?", principal.ID).
		OrderExpr("?TableAlias.claim_type ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	claims := make([]Claim, len(records))
	for i, rec := range records {
		claims[i] = Claim{Type: rec.Type, Value: rec.Value, ValueType: rec.ValueType}
	}

	return claims, nil
}

func (s *BunStore) FindRoleByName(ctx context.Context, name string) (*Role, error) {
	return s.repo.Roles().GetByName(ctx, name)
}

func (s *BunStore) FindRoleByID(ctx context.Context, id string) (*Role, error) {
	roleID, err := uuid.Parse(id)
	if err != nil {
		return nil, repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"id": id,
			})
	}

	record := &Role{}
	err = s.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", roleID).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"id": id,
				})
		}
		return nil, err
	}

	return record, nil
}

func (s *BunStore) ClaimsOfRole(ctx context.Context, role *Role) ([]Claim, error) {
	if role == nil {
		return nil, goerrors.New("role is required", goerrors.CategoryBadInput)
	}

	var records []RoleClaim
	err := s.db.NewSelect().
		Model(&records).
		Where("?TableAlias.role_id = ?", role.ID).
		OrderExpr("?TableAlias.claim_type ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	claims := make([]Claim, len(records))
	for i, rec := range records {
		claims[i] = Claim{Type: rec.Type, Value: rec.Value, ValueType: rec.ValueType}
	}

	return claims, nil
}

func (s *BunStore) AddRoles(ctx context.Context, principal *Principal, names []string) error {
	if len(names) == 0 {
		return nil
	}

	links := make([]PrincipalRole, 0, len(names))
	for _, name := range names {
		role, err := s.FindRoleByName(ctx, name)
		if err != nil {
			if repository.IsRecordNotFound(err) {
				return goerrors.Wrap(err, ErrRoleNotFound.Category, ErrRoleNotFound.Message).
					WithTextCode(ErrRoleNotFound.TextCode).
					WithMetadata(map[string]any{"name": name})
			}
			return err
		}
		links = append(links, PrincipalRole{
			ID:          uuid.New(),
			PrincipalID: principal.ID,
			RoleID:      role.ID,
		})
	}

	_, err := s.db.NewInsert().Model(&links).Exec(ctx)
	return err
}

func (s *BunStore) RemoveRoles(ctx context.Context, principal *Principal, names []string) error {
	if len(names) == 0 {
		return nil
	}

	_, err := s.db.NewDelete().
		Model((*PrincipalRole)(nil)).
		Where("principal_id = ?", principal.ID).
		Where("role_id IN (SELECT id FROM roles WHERE name IN (?))", bun.In(names)).
		Exec(ctx)

	return err
}

func (s *BunStore) AddClaims(ctx context.Context, principal *Principal, claims []Claim) error {
	if len(claims) == 0 {
		return nil
	}

	records := make([]PrincipalClaim, len(claims))
	for i, c := range claims {
		records[i] = PrincipalClaim{
			ID:          uuid.New(),
			PrincipalID: principal.ID,
			Type:        c.Type,
			Value:       c.Value,
			ValueType:   c.ValueType,
		}
	}

	_, err := s.db.NewInsert().Model(&records).Exec(ctx)
	return err
}

func (s *BunStore) RemoveClaims(ctx context.Context, principal *Principal, claims []Claim) error {
	if len(claims) == 0 {
		return nil
	}

	_, err := s.db.NewDelete().
		Model((*PrincipalClaim)(nil)).
		Where("principal_id = ?", principal.ID).
		Where("claim_type IN (?)", bun.In(claimTypes(claims))).
		Exec(ctx)

	return err
}

func (s *BunStore) AddRoleClaims(ctx context.Context, role *Role, claims []Claim) error {
	if len(claims) == 0 {
		return nil
	}

	records := make([]RoleClaim, len(claims))
	for i, c := range claims {
		records[i] = RoleClaim{
			ID:        uuid.New(),
			RoleID:    role.ID,
			Type:      c.Type,
			Value:     c.Value,
			ValueType: c.ValueType,
		}
	}

	_, err := s.db.NewInsert().Model(&records).Exec(ctx)
	return err
}

func (s *BunStore) RemoveRoleClaims(ctx context.Context, role *Role, claims []Claim) error {
	if len(claims) == 0 {
		return nil
	}

	_, err := s.db.NewDelete().
		Model((*RoleClaim)(nil)).
		Where("role_id = ?", role.ID).
		Where("claim_type IN (?)", bun.In(claimTypes(claims))).
		Exec(ctx)

	return err
}
