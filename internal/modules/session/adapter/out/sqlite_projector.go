package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"oryx/internal/modules/session/domain"

	_ "modernc.org/sqlite"
)

// SQLiteSessionProjector mirrors the JSON history into SQLite so that label
// breakdowns can be answered with SQL. The JSON log stays the source of truth;
// the projection is disposable and rebuilt by Reset + Project.
type SQLiteSessionProjector struct {
	path string
	db   *sql.DB
}

// NewSQLiteSessionProjector defers opening dbPath until the projection is
// first used, so commands that never touch it leave no database behind.
func NewSQLiteSessionProjector(dbPath string) *SQLiteSessionProjector {
	return &SQLiteSessionProjector{path: dbPath}
}

func (s *SQLiteSessionProjector) conn(ctx context.Context) (*sql.DB, error) {
	if s.db != nil {
		return s.db, nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	s.db = db
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS sessions (
  seq INTEGER PRIMARY KEY,
  title TEXT NOT NULL,
  date TEXT NOT NULL,
  time TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS session_labels (
  session_seq INTEGER NOT NULL,
  position INTEGER NOT NULL,
  label TEXT NOT NULL,
  PRIMARY KEY (session_seq, position)
);
CREATE INDEX IF NOT EXISTS idx_session_labels_label ON session_labels(label);
CREATE INDEX IF NOT EXISTS idx_sessions_date ON sessions(date);
`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create session tables: %w", err)
	}
	return nil
}

func (s *SQLiteSessionProjector) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteSessionProjector) Reset(ctx context.Context) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM session_labels`); err != nil {
		return fmt.Errorf("reset session labels: %w", err)
	}
	if _, err := db.ExecContext(ctx, `DELETE FROM sessions`); err != nil {
		return fmt.Errorf("reset sessions: %w", err)
	}
	return nil
}

// Project appends sessions in the given order.
func (s *SQLiteSessionProjector) Project(ctx context.Context, sessions []domain.Session) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}
	txn, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin projection: %w", err)
	}
	defer func() { _ = txn.Rollback() }()

	for _, session := range sessions {
		res, err := txn.ExecContext(ctx, `INSERT INTO sessions (title, date, time) VALUES (?, ?, ?)`, session.Title, session.Date, session.Time)
		if err != nil {
			return fmt.Errorf("insert session: %w", err)
		}
		seq, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("session seq: %w", err)
		}
		for position, label := range session.Labels {
			if label == "" {
				continue
			}
			if _, err := txn.ExecContext(ctx, `INSERT INTO session_labels (session_seq, position, label) VALUES (?, ?, ?)`, seq, position, label); err != nil {
				return fmt.Errorf("insert session label: %w", err)
			}
		}
	}
	if err := txn.Commit(); err != nil {
		return fmt.Errorf("commit projection: %w", err)
	}
	return nil
}

func (s *SQLiteSessionProjector) LabelCounts(ctx context.Context, today string) ([]domain.LabelCount, error) {
	const query = `
SELECT l.label,
       COUNT(DISTINCT s.seq),
       COUNT(DISTINCT CASE WHEN s.date = ? THEN s.seq END)
FROM session_labels l
JOIN sessions s ON s.seq = l.session_seq
GROUP BY l.label
ORDER BY 2 DESC, l.label ASC;
`
	db, err := s.conn(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, query, today)
	if err != nil {
		return nil, fmt.Errorf("query label counts: %w", err)
	}
	defer rows.Close()

	out := []domain.LabelCount{}
	for rows.Next() {
		var item domain.LabelCount
		if err := rows.Scan(&item.Label, &item.Count, &item.TodayCount); err != nil {
			return nil, fmt.Errorf("scan label count: %w", err)
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate label counts: %w", err)
	}
	return out, nil
}
