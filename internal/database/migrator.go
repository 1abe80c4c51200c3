package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/deppfellow/gastro-routes/internal/config"
	"github.com/jackc/pgx/v5"
	tern "github.com/jackc/tern/v2/migrate"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var migrations embed.FS

// versionTable stores the applied migration version.
const versionTable = "schema_version"

// MigrationResult reports what a Migrate call did.
type MigrationResult struct {
	From int32
	To   int32

	// ActivityColumns lists the columns of the activities table after
	// migrating, in ordinal order.
	ActivityColumns []string

	// ActivityCount is the number of rows in activities.
	ActivityCount int64
}

// Migrate applies all pending migrations on a dedicated connection.
func Migrate(ctx context.Context, logger *zerolog.Logger, cfg *config.Config) (*MigrationResult, error) {
	conn, err := pgx.Connect(ctx, cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("connecting for migrations: %w", err)
	}
	defer conn.Close(ctx)

	m, err := tern.NewMigrator(ctx, conn, versionTable)
	if err != nil {
		return nil, fmt.Errorf("constructing database migrator: %w", err)
	}

	subtree, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("retrieving database migrations subtree: %w", err)
	}

	if err := m.LoadMigrations(subtree); err != nil {
		return nil, fmt.Errorf("loading database migrations: %w", err)
	}

	from, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("retrieving current database migration version: %w", err)
	}

	m.OnStart = func(sequence int32, name, direction, _ string) {
		logger.Info().
			Int32("sequence", sequence).
			Str("name", name).
			Str("direction", direction).
			Msg("applying migration")
	}

	if err := m.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	to := int32(len(m.Migrations))
	if from == to {
		logger.Info().Msgf("database schema up to date, version %d", to)
	} else {
		logger.Info().Msgf("migrated database schema, from %d to %d", from, to)
	}

	columns, err := tableColumns(ctx, conn, "activities")
	if err != nil {
		return nil, err
	}

	var count int64
	if err := conn.QueryRow(ctx, "SELECT COUNT(*) FROM activities").Scan(&count); err != nil {
		return nil, fmt.Errorf("counting activities: %w", err)
	}

	return &MigrationResult{From: from, To: to, ActivityColumns: columns, ActivityCount: count}, nil
}

func tableColumns(ctx context.Context, conn *pgx.Conn, table string) ([]string, error) {
	rows, err := conn.Query(ctx, `
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = $1
		ORDER BY ordinal_position`, table)
	if err != nil {
		return nil, fmt.Errorf("listing columns of %s: %w", table, err)
	}

	columns, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("listing columns of %s: %w", table, err)
	}

	return columns, nil
}
