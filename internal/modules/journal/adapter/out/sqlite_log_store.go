package out

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"lockin/internal/modules/journal/domain"
	journalout "lockin/internal/modules/journal/port/out"
	apperrors "lockin/internal/platform/errors"

	_ "modernc.org/sqlite"
)

const timeLayout = time.RFC3339Nano

// SQLiteLogStore keeps the completion log of one variant in a shared
// database. Entries are scoped by logKey so variants never see each other.
type SQLiteLogStore struct {
	db     *sql.DB
	logKey string
}

func NewSQLiteLogStore(dbPath, logKey string) (*SQLiteLogStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, errors.Wrap(err, "create db dir")
	}
	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	store := &SQLiteLogStore{db: db, logKey: logKey}
	if err := store.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

var _ journalout.LogStore = (*SQLiteLogStore)(nil)

func (s *SQLiteLogStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteLogStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS session_logs (
  log_key TEXT NOT NULL,
  session_id TEXT NOT NULL,
  intake_id TEXT NOT NULL DEFAULT '',
  flow_kind TEXT NOT NULL DEFAULT '',
  target TEXT NOT NULL DEFAULT '',
  started_at TEXT NOT NULL,
  ended_at TEXT NOT NULL,
  length_minutes INTEGER NOT NULL,
  completed INTEGER NOT NULL,
  completion_percent INTEGER,
  xp_awarded INTEGER,
  reflection TEXT,
  insights TEXT,
  PRIMARY KEY (log_key, session_id)
);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return errors.Wrap(err, "create session_logs table")
	}
	return nil
}

func (s *SQLiteLogStore) Upsert(ctx context.Context, entry domain.Entry) error {
	reflection, err := encodeOptional(entry.Reflection)
	if err != nil {
		return errors.Wrap(err, "encode reflection")
	}
	insights, err := encodeOptional(entry.Insights)
	if err != nil {
		return errors.Wrap(err, "encode insights")
	}
	const stmt = `
INSERT INTO session_logs (log_key, session_id, intake_id, flow_kind, target, started_at, ended_at, length_minutes, completed, completion_percent, xp_awarded, reflection, insights)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(log_key, session_id) DO UPDATE SET
  intake_id=excluded.intake_id,
  flow_kind=excluded.flow_kind,
  target=excluded.target,
  started_at=excluded.started_at,
  ended_at=excluded.ended_at,
  length_minutes=excluded.length_minutes,
  completed=excluded.completed,
  completion_percent=excluded.completion_percent,
  xp_awarded=excluded.xp_awarded,
  reflection=excluded.reflection,
  insights=excluded.insights;
`
	_, err = s.db.ExecContext(ctx, stmt,
		s.logKey,
		entry.SessionID,
		entry.IntakeID,
		entry.FlowKind,
		entry.Target,
		entry.StartedAt.UTC().Format(timeLayout),
		entry.EndedAt.UTC().Format(timeLayout),
		entry.LengthMinutes,
		entry.Completed,
		nullInt(entry.CompletionPercent),
		nullInt(entry.XPAwarded),
		reflection,
		insights,
	)
	if err != nil {
		return errors.Wrapf(err, "upsert log entry %s", entry.SessionID)
	}
	return nil
}

const selectColumns = `session_id, intake_id, flow_kind, target, started_at, ended_at, length_minutes, completed, completion_percent, xp_awarded, reflection, insights`

func (s *SQLiteLogStore) Get(ctx context.Context, sessionID string) (domain.Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM session_logs WHERE log_key = ? AND session_id = ?`, s.logKey, sessionID)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Entry{}, errors.Wrapf(apperrors.ErrNotFound, "log entry %s", sessionID)
	}
	if err != nil {
		return domain.Entry{}, errors.Wrapf(err, "get log entry %s", sessionID)
	}
	return entry, nil
}

// List returns the newest entries first. A limit of zero means all.
func (s *SQLiteLogStore) List(ctx context.Context, limit int) ([]domain.Entry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM session_logs WHERE log_key = ? ORDER BY rowid DESC LIMIT ?`, s.logKey, limit)
	if err != nil {
		return nil, errors.Wrap(err, "list log entries")
	}
	defer rows.Close()

	var out []domain.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan log entry")
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate log entries")
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (domain.Entry, error) {
	var (
		entry                domain.Entry
		startedAt, endedAt   string
		percent, xp          sql.NullInt64
		reflection, insights sql.NullString
	)
	if err := row.Scan(
		&entry.SessionID,
		&entry.IntakeID,
		&entry.FlowKind,
		&entry.Target,
		&startedAt,
		&endedAt,
		&entry.LengthMinutes,
		&entry.Completed,
		&percent,
		&xp,
		&reflection,
		&insights,
	); err != nil {
		return domain.Entry{}, err
	}
	var err error
	if entry.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
		return domain.Entry{}, errors.Wrap(err, "parse started_at")
	}
	if entry.EndedAt, err = time.Parse(timeLayout, endedAt); err != nil {
		return domain.Entry{}, errors.Wrap(err, "parse ended_at")
	}
	entry.CompletionPercent = intPtr(percent)
	entry.XPAwarded = intPtr(xp)
	if reflection.Valid {
		entry.Reflection = &domain.Reflection{}
		if err := json.Unmarshal([]byte(reflection.String), entry.Reflection); err != nil {
			return domain.Entry{}, errors.Wrap(err, "decode reflection")
		}
	}
	if insights.Valid {
		entry.Insights = &domain.Insights{}
		if err := json.Unmarshal([]byte(insights.String), entry.Insights); err != nil {
			return domain.Entry{}, errors.Wrap(err, "decode insights")
		}
	}
	return entry, nil
}

func encodeOptional[T any](v *T) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(raw), Valid: true}, nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}
