package postgresql

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

const migrationsTable = "spend_broadcaster_schema_migrations"

//go:embed migrations/*.sql
var migrations embed.FS

// MigrateUp applies all embedded migrations which have not been applied yet.
func MigrateUp(dbInfo string) error {
	db, err := sql.Open(postgresDriverName, dbInfo)
	if err != nil {
		return fmt.Errorf("failed to create db connection: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()

	driver, err := migratepostgres.WithInstance(db, &migratepostgres.Config{
		MigrationsTable: migrationsTable,
	})
	if err != nil {
		return fmt.Errorf("failed to create driver: %w", err)
	}

	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to initialize migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
