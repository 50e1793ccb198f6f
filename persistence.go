package identity

import (
	"context"
	"database/sql"
	"io/fs"

	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// SetupPersistence opens a SQLite-backed Bun client, registers the identity
// models, and applies the embedded migrations. Hosts with their own database
// can instead run SetupPersistenceWithDB against an existing connection and
// dialect.
func SetupPersistence(ctx context.Context, cfg persistence.Config) (*bun.DB, error) {
	db, err := sql.Open(sqliteshim.ShimName, cfg.GetServer())
	if err != nil {
		return nil, WrapStoreFailure(err, "failed to open database")
	}

	return SetupPersistenceWithDB(ctx, cfg, db)
}

// SetupPersistenceWithDB wires an existing connection: model registration,
// migration, and the resulting *bun.DB handle.
func SetupPersistenceWithDB(ctx context.Context, cfg persistence.Config, db *sql.DB) (*bun.DB, error) {
	persistence.RegisterModel((*Principal)(nil))
	persistence.RegisterModel((*Role)(nil))
	persistence.RegisterModel((*PrincipalRole)(nil))
	persistence.RegisterModel((*PrincipalClaim)(nil))
	persistence.RegisterModel((*RoleClaim)(nil))

	client, err := persistence.New(cfg, db, sqlitedialect.New())
	if err != nil {
		return nil, WrapStoreFailure(err, "failed to initialize persistence client")
	}

	migrations, err := fs.Sub(GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return nil, WrapStoreFailure(err, "failed to load embedded migrations")
	}

	client.RegisterDialectMigrations(
		migrations,
		persistence.WithDialectSourceLabel("data/sql/migrations"),
		persistence.WithValidationTargets("postgres", "sqlite"),
	)

	if err := client.Migrate(ctx); err != nil {
		return nil, WrapStoreFailure(err, "failed to run migrations")
	}

	return client.DB(), nil
}
