package identity

import (
	"context"
	"strings"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Roles is the role repository. Lookups by name fall back to the normalized
// form so "Site Admin" and "SITEADMIN" address the same role.
type Roles interface {
	repository.Repository[*Role]

	GetByName(ctx context.Context, name string, criteria ...repository.SelectCriteria) (*Role, error)
	GetByNameTx(ctx context.Context, tx bun.IDB, name string, criteria ...repository.SelectCriteria) (*Role, error)
}

type roles struct {
	repository.Repository[*Role]
	db *bun.DB
}

var _ Roles = (*roles)(nil)

func NewRolesRepository(db *bun.DB) Roles {
	repo := repository.NewRepository[*Role](db, repository.ModelHandlers[*Role]{
		NewRecord: func() *Role { return &Role{} },
		GetID: func(r *Role) uuid.UUID {
			if r == nil {
				return uuid.Nil
			}
			return r.ID
		},
		SetID: func(r *Role, id uuid.UUID) {
			if r != nil {
				r.ID = id
			}
		},
		GetIdentifier: func() string {
			return "name"
		},
	})

	return &roles{
		Repository: repo,
		db:         db,
	}
}

func (a *roles) Create(ctx context.Context, record *Role, criteria ...repository.InsertCriteria) (*Role, error) {
	return a.CreateTx(ctx, a.db, record, criteria...)
}

func (a *roles) CreateTx(ctx context.Context, tx bun.IDB, record *Role, criteria ...repository.InsertCriteria) (*Role, error) {
	prepareRoleDefaults(record)
	return a.Repository.CreateTx(ctx, tx, record, criteria...)
}

func (a *roles) GetByName(ctx context.Context, name string, criteria ...repository.SelectCriteria) (*Role, error) {
	return a.GetByNameTx(ctx, a.db, name, criteria...)
}

func (a *roles) GetByNameTx(ctx context.Context, tx bun.IDB, name string, criteria ...repository.SelectCriteria) (*Role, error) {
	name = strings.TrimSpace(name)

	record := &Role{}
	q := tx.NewSelect().Model(record)

	for _, c := range criteria {
		q.Apply(c)
	}

	err := q.
		Where("?TableAlias.name = ? OR ?TableAlias.normalized_name = ?", name, NormalizeRoleName(name)).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"name": name,
				})
		}
		return nil, err
	}

	return record, nil
}

func prepareRoleDefaults(record *Role) {
	if record == nil {
		return
	}
	if record.NormalizedName == "" {
		record.NormalizedName = NormalizeRoleName(record.Name)
	}
}
