package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// A migration upgrades the schema by one version. Statements run in order
// inside one transaction together with the version bump.
type migration struct {
	version int
	note    string
	stmts   []string
	// addColumn is applied only when the column is missing; new databases
	// already carry it from schemaSQL.
	addColumn *columnDef
}

type columnDef struct {
	table, name, decl string
}

// migrations is append-only.
var migrations = []migration{
	{version: 1, note: "base schema"},
	{
		version: 2,
		note:    "history index on owner and recency",
		stmts:   []string{`CREATE INDEX IF NOT EXISTS idx_documents_user_created ON documents(user_id, created_at DESC)`},
	},
	{
		version:   3,
		note:      "generation elapsed time",
		addColumn: &columnDef{table: "generation_log", name: "elapsed_ms", decl: "INTEGER DEFAULT 0"},
	},
	{
		version: 4,
		note:    "upper-case stored citation formats",
		stmts:   []string{`UPDATE documents SET citation_format = UPPER(TRIM(citation_format)) WHERE citation_format <> UPPER(TRIM(citation_format))`},
	},
}

// Migrate brings the schema to the latest version.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		description TEXT,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("creating schema_version: %w", err)
	}

	current, err := s.SchemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		slog.Info("store: migrating", "version", m.version, "note", m.note)
		if err := s.inTx(ctx, func(tx *sql.Tx) error { return m.run(ctx, tx) }); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.note, err)
		}
	}
	return nil
}

func (m migration) run(ctx context.Context, tx *sql.Tx) error {
	if c := m.addColumn; c != nil {
		ok, err := hasColumn(ctx, tx, c.table, c.name)
		if err != nil {
			return err
		}
		if !ok {
			if _, err := tx.ExecContext(ctx, fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", c.table, c.name, c.decl)); err != nil {
				return err
			}
		}
	}
	for _, stmt := range m.stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	_, err := tx.ExecContext(ctx,
		"INSERT INTO schema_version (version, description) VALUES (?, ?)", m.version, m.note)
	return err
}

func hasColumn(ctx context.Context, tx *sql.Tx, table, column string) (bool, error) {
	rows, err := tx.QueryContext(ctx, "SELECT name FROM pragma_table_info(?)", table)
	if err != nil {
		return false, err
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

// SchemaVersion returns the highest applied migration.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	err := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&v)
	return v, err
}
