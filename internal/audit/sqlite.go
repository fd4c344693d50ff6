package audit

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// #region sqlite-struct
// SQLiteBackend stores one row per record in an append-only table.
type SQLiteBackend struct {
	db     *sql.DB
	path   string
	logger *zap.Logger
}

// #endregion sqlite-struct

// #region constructor
// OpenSQLite opens (or creates) the database at path and migrates it to the
// latest schema.
func OpenSQLite(ctx context.Context, path string, logger *zap.Logger) (*SQLiteBackend, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma busy_timeout: %w", err)
	}
	b := &SQLiteBackend{db: db, path: path, logger: logger}
	if err := b.migrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return b, nil
}

// migrateUp applies the embedded migrations. The migrate instance is not
// closed because that would close the shared *sql.DB.
func (b *SQLiteBackend) migrateUp() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	driver, err := sqlite.WithInstance(b.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("create sqlite driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	m.Log = &migrateLogger{logger: b.logger}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

type migrateLogger struct {
	logger *zap.Logger
}

func (l *migrateLogger) Printf(format string, v ...interface{}) {
	l.logger.Sugar().Debugf("[migrate] "+format, v...)
}

func (l *migrateLogger) Verbose() bool {
	return false
}

// #endregion constructor

// #region append
// Append inserts r in its own transaction.
func (b *SQLiteBackend) Append(ctx context.Context, r Record) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO audit_records (sequence, timestamp, input_fingerprint, score, stage, previous_hash, record_hash)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		int64(r.Sequence), FormatTimestamp(r.Timestamp), r.InputFingerprint, r.Score, r.Stage, r.PreviousHash, r.RecordHash,
	)
	if err != nil {
		return fmt.Errorf("insert record %d: %w", r.Sequence, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// #endregion append

// #region load
// Load returns every stored record ordered by sequence.
func (b *SQLiteBackend) Load(ctx context.Context) ([]Record, error) {
	rows, err := b.db.QueryContext(ctx,
		`SELECT sequence, timestamp, input_fingerprint, score, stage, previous_hash, record_hash
		 FROM audit_records ORDER BY sequence ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			r   Record
			seq int64
			ts  string
		)
		if err := rows.Scan(&seq, &ts, &r.InputFingerprint, &r.Score, &r.Stage, &r.PreviousHash, &r.RecordHash); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		t, err := ParseTimestamp(ts)
		if err != nil {
			return nil, fmt.Errorf("record %d: parse timestamp %q: %w", seq, ts, err)
		}
		r.Sequence = uint64(seq)
		r.Timestamp = t
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}

// #endregion load

// #region close
// Path returns the database file path.
func (b *SQLiteBackend) Path() string { return b.path }

// Close closes the underlying database connection.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}

// #endregion close
