package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/chris-regnier/moodiary/internal/storage"
)

// migration is one schema step. Steps are applied in order, once, and
// recorded in schema_migrations.
type migration struct {
	version int
	name    string
	apply   func(ctx context.Context, tx *sql.Tx) error
}

var migrations = []migration{
	{1, "base tables", func(ctx context.Context, tx *sql.Tx) error {
		return execEach(ctx, tx,
			`CREATE TABLE IF NOT EXISTS diary_entries (
				id         INTEGER PRIMARY KEY AUTOINCREMENT,
				entry_date TEXT,
				entry_text TEXT
			)`,
			`CREATE TABLE IF NOT EXISTS diary_images (
				id       INTEGER PRIMARY KEY AUTOINCREMENT,
				entry_id INTEGER REFERENCES diary_entries(id) ON DELETE CASCADE,
				image    BLOB
			)`,
		)
	}},
	{2, "entry mood", func(ctx context.Context, tx *sql.Tx) error {
		return addColumn(ctx, tx, "diary_entries", "mood_emoji", "TEXT NOT NULL DEFAULT ''")
	}},
	{3, "entry stickers", func(ctx context.Context, tx *sql.Tx) error {
		return addColumn(ctx, tx, "diary_entries", "stickers", "BLOB")
	}},
	{4, "entry timestamps", func(ctx context.Context, tx *sql.Tx) error {
		if err := addColumn(ctx, tx, "diary_entries", "created_at", "TEXT NOT NULL DEFAULT ''"); err != nil {
			return err
		}
		return addColumn(ctx, tx, "diary_entries", "updated_at", "TEXT NOT NULL DEFAULT ''")
	}},
	{5, "lookup indexes", func(ctx context.Context, tx *sql.Tx) error {
		return execEach(ctx, tx,
			"CREATE INDEX IF NOT EXISTS idx_diary_entries_date ON diary_entries(entry_date)",
			"CREATE INDEX IF NOT EXISTS idx_diary_images_entry ON diary_images(entry_id)",
		)
	}},
}

// migrate brings the schema up to date. It is safe to run on every start
// and on databases created by older versions of the app.
func (s *Store) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TEXT NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("%w: creating schema_migrations: %v", storage.ErrStorage, err)
	}

	applied := map[int]bool{}
	rows, err := s.db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return fmt.Errorf("%w: reading schema_migrations: %v", storage.ErrStorage, err)
	}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			rows.Close()
			return fmt.Errorf("%w: scanning schema_migrations: %v", storage.ErrStorage, err)
		}
		applied[v] = true
	}
	rows.Close()

	for _, m := range migrations {
		if applied[m.version] {
			continue
		}
		if err := s.applyMigration(ctx, m); err != nil {
			return err
		}
		s.log.Info().Int("version", m.version).Str("name", m.name).Msg("applied schema migration")
	}
	return nil
}

func (s *Store) applyMigration(ctx context.Context, m migration) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: beginning migration %d: %v", storage.ErrStorage, m.version, err)
	}
	defer tx.Rollback()

	if err := m.apply(ctx, tx); err != nil {
		return fmt.Errorf("%w: migration %d (%s): %v", storage.ErrStorage, m.version, m.name, err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, ?)",
		m.version, m.name, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("%w: recording migration %d: %v", storage.ErrStorage, m.version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing migration %d: %v", storage.ErrStorage, m.version, err)
	}
	return nil
}

// execEach runs one statement per call; libsql only executes the first
// statement of a multi-statement string.
func execEach(ctx context.Context, tx *sql.Tx, stmts ...string) error {
	for _, q := range stmts {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

// addColumn adds a column unless the table already has it.
func addColumn(ctx context.Context, tx *sql.Tx, table, column, decl string) error {
	exists, err := columnExists(ctx, tx, table, column)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	_, err = tx.ExecContext(ctx, fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, decl))
	return err
}

func columnExists(ctx context.Context, tx *sql.Tx, table, column string) (bool, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?", table, column,
	).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
