package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATOR
// ══════════════════════════════════════════════════════════════════════════════

// Migration is one versioned schema change.
type Migration struct {
	Version   int
	Name      string
	UpSQL     string
	DownSQL   string
	AppliedAt time.Time
	IsApplied bool
}

// Migrator applies the embedded migrations in version order.
type Migrator struct {
	conn       *Connection
	migrations []Migration
	tableName  string
}

// NewMigrator creates a migrator with the embedded migrations.
func NewMigrator(conn *Connection) *Migrator {
	return &Migrator{
		conn:       conn,
		migrations: GetMigrations(),
		tableName:  "schema_migrations",
	}
}

func (m *Migrator) ensureTable(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)
	`, m.tableName)

	if _, err := m.conn.Pool().Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

func (m *Migrator) applied(ctx context.Context) (map[int]time.Time, error) {
	rows, err := m.conn.Pool().Query(ctx, fmt.Sprintf("SELECT version, applied_at FROM %s ORDER BY version", m.tableName))
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]time.Time)
	for rows.Next() {
		var version int
		var appliedAt time.Time
		if err := rows.Scan(&version, &appliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan migration row: %w", err)
		}
		applied[version] = appliedAt
	}
	return applied, rows.Err()
}

// Migrate applies all pending migrations, each in its own transaction.
func (m *Migrator) Migrate(ctx context.Context) error {
	if err := m.ensureTable(ctx); err != nil {
		return err
	}

	applied, err := m.applied(ctx)
	if err != nil {
		return err
	}

	for _, mig := range m.migrations {
		if _, ok := applied[mig.Version]; ok {
			continue
		}

		err := m.conn.WithTx(ctx, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, mig.UpSQL); err != nil {
				return fmt.Errorf("failed to execute migration %d: %w", mig.Version, err)
			}
			_, err := tx.Exec(ctx, fmt.Sprintf("INSERT INTO %s (version, name) VALUES ($1, $2)", m.tableName), mig.Version, mig.Name)
			return err
		})
		if err != nil {
			return fmt.Errorf("%w: version %d: %v", ErrMigrationFailed, mig.Version, err)
		}
	}
	return nil
}

// Rollback reverts the last applied migration.
func (m *Migrator) Rollback(ctx context.Context) error {
	if err := m.ensureTable(ctx); err != nil {
		return err
	}

	applied, err := m.applied(ctx)
	if err != nil {
		return err
	}

	var last int
	for v := range applied {
		if v > last {
			last = v
		}
	}
	if last == 0 {
		return nil
	}

	var migration *Migration
	for i := range m.migrations {
		if m.migrations[i].Version == last {
			migration = &m.migrations[i]
			break
		}
	}
	if migration == nil || migration.DownSQL == "" {
		return fmt.Errorf("%w: missing down SQL for migration %d", ErrMigrationFailed, last)
	}

	return m.conn.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, migration.DownSQL); err != nil {
			return fmt.Errorf("failed to rollback migration %d: %w", last, err)
		}
		_, err := tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE version = $1", m.tableName), last)
		return err
	})
}

// Status reports which migrations are applied.
func (m *Migrator) Status(ctx context.Context) ([]Migration, error) {
	if err := m.ensureTable(ctx); err != nil {
		return nil, err
	}

	applied, err := m.applied(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]Migration, len(m.migrations))
	copy(result, m.migrations)
	for i := range result {
		if at, ok := applied[result[i].Version]; ok {
			result[i].IsApplied = true
			result[i].AppliedAt = at
		}
	}
	return result, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// EMBEDDED MIGRATIONS
// ══════════════════════════════════════════════════════════════════════════════

// GetMigrations returns all embedded migrations.
func GetMigrations() []Migration {
	return []Migration{
		{Version: 1, Name: "create_propositions", UpSQL: migration001Up, DownSQL: migration001Down},
		{Version: 2, Name: "create_emplacements_documents", UpSQL: migration002Up, DownSQL: migration002Down},
		{Version: 3, Name: "create_historique", UpSQL: migration003Up, DownSQL: migration003Down},
	}
}

const migration001Up = `
CREATE TABLE IF NOT EXISTS propositions (
    uuid UUID PRIMARY KEY,
    reference BIGSERIAL UNIQUE,
    matricule_candidat VARCHAR(32) NOT NULL,
    statut VARCHAR(40) NOT NULL,
    contexte VARCHAR(20) NOT NULL,
    sigle_formation VARCHAR(32) NOT NULL,
    annee_formation INTEGER NOT NULL,
    soumise_le TIMESTAMP WITH TIME ZONE,
    cree_le TIMESTAMP WITH TIME ZONE NOT NULL,
    modifiee_le TIMESTAMP WITH TIME ZONE NOT NULL,
    version INTEGER NOT NULL DEFAULT 1,
    data JSONB NOT NULL,

    CONSTRAINT valid_contexte CHECK (contexte IN ('GENERALE', 'CONTINUE', 'DOCTORAT')),
    CONSTRAINT valid_version CHECK (version > 0)
);

CREATE INDEX IF NOT EXISTS idx_propositions_matricule ON propositions(matricule_candidat);
CREATE INDEX IF NOT EXISTS idx_propositions_statut ON propositions(statut);
CREATE INDEX IF NOT EXISTS idx_propositions_cree_le ON propositions(cree_le DESC, uuid);
`

const migration001Down = `
DROP TABLE IF EXISTS propositions;
`

const migration002Up = `
CREATE TABLE IF NOT EXISTS emplacements_documents (
    uuid_proposition UUID NOT NULL REFERENCES propositions(uuid) ON DELETE CASCADE,
    identifiant TEXT NOT NULL,
    statut TEXT NOT NULL DEFAULT '',
    uuids_documents TEXT[] NOT NULL DEFAULT '{}',
    data JSONB NOT NULL DEFAULT '{}'::jsonb,
    modifie_le TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    PRIMARY KEY (uuid_proposition, identifiant)
);

CREATE INDEX IF NOT EXISTS idx_emplacements_statut ON emplacements_documents(uuid_proposition, statut);
`

const migration002Down = `
DROP TABLE IF EXISTS emplacements_documents;
`

const migration003Up = `
CREATE TABLE IF NOT EXISTS historique (
    id BIGSERIAL PRIMARY KEY,
    uuid_proposition UUID NOT NULL,
    evenement VARCHAR(64) NOT NULL,
    auteur VARCHAR(64) NOT NULL DEFAULT '',
    message TEXT NOT NULL DEFAULT '',
    statut TEXT NOT NULL DEFAULT '',
    horodatage TIMESTAMP WITH TIME ZONE NOT NULL,
    donnees JSONB
);

CREATE INDEX IF NOT EXISTS idx_historique_proposition ON historique(uuid_proposition, horodatage DESC);
`

const migration003Down = `
DROP TABLE IF EXISTS historique;
`
