// Package store persists transcript lines per video lesson in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/vibecode-law/vibecode-law-sub004/internal/subtitles"
	"github.com/vibecode-law/vibecode-law-sub004/pkg/model"
)

var ErrLessonNotFound = errors.New("no transcript lines for lesson")

// timeLayout has a fixed width so created_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Import records one transcript import for a lesson.
type Import struct {
	ID        string    `json:"id"`
	LessonID  string    `json:"lesson_id"`
	Title     string    `json:"title"`
	Source    string    `json:"source"`
	LineCount int       `json:"line_count"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is a SQLite-backed transcript line store.
type Store struct {
	db     *sql.DB
	mu     sync.Mutex // serialises write transactions
	dbPath string
	now    func() time.Time
}

// Open initializes the SQLite database at path, creating its directory.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one connection: SQLite has a single writer, and ":memory:" is per connection
	db.SetMaxOpenConns(1)

	s := &Store{db: db, dbPath: path, now: time.Now}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// initialize creates the required tables.
func (s *Store) initialize() error {
	schema := `
	PRAGMA foreign_keys = ON;
	PRAGMA busy_timeout = 5000;

	CREATE TABLE IF NOT EXISTS transcript_imports (
		id TEXT PRIMARY KEY,
		lesson_id TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL DEFAULT '',
		line_count INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_imports_lesson ON transcript_imports(lesson_id, created_at);

	CREATE TABLE IF NOT EXISTS transcript_lines (
		lesson_id TEXT NOT NULL,
		line_order INTEGER NOT NULL,
		start_seconds TEXT NOT NULL,
		end_seconds TEXT NOT NULL,
		text TEXT NOT NULL,
		import_id TEXT NOT NULL REFERENCES transcript_imports(id) ON DELETE CASCADE,
		PRIMARY KEY (lesson_id, line_order)
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file.
func (s *Store) Path() string {
	return s.dbPath
}

// ReplaceLesson stores tr as the transcript of tr.LessonID, replacing the lines
// of any earlier import. Import history is kept.
func (s *Store) ReplaceLesson(ctx context.Context, tr subtitles.Transcript, source string) (Import, error) {
	if tr.LessonID == "" {
		return Import{}, fmt.Errorf("replace lesson: empty lesson id")
	}

	imp := Import{
		ID:        uuid.NewString(),
		LessonID:  tr.LessonID,
		Title:     tr.Title,
		Source:    source,
		LineCount: len(tr.Lines),
		CreatedAt: s.now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Import{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO transcript_imports (id, lesson_id, title, source, line_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		imp.ID, imp.LessonID, imp.Title, imp.Source, imp.LineCount, imp.CreatedAt.Format(timeLayout),
	); err != nil {
		return Import{}, fmt.Errorf("insert import: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM transcript_lines WHERE lesson_id = ?`, tr.LessonID); err != nil {
		return Import{}, fmt.Errorf("delete old lines: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO transcript_lines (lesson_id, line_order, start_seconds, end_seconds, text, import_id)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return Import{}, fmt.Errorf("prepare insert line: %w", err)
	}
	defer stmt.Close()

	for _, l := range tr.Lines {
		if _, err := stmt.ExecContext(ctx, tr.LessonID, l.Order, l.Start.String(), l.End.String(), l.Text, imp.ID); err != nil {
			return Import{}, fmt.Errorf("insert line %d: %w", l.Order, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Import{}, fmt.Errorf("commit: %w", err)
	}
	return imp, nil
}

// Lines returns the lesson's lines by order.
func (s *Store) Lines(ctx context.Context, lessonID string) ([]subtitles.Line, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT line_order, start_seconds, end_seconds, text FROM transcript_lines
		 WHERE lesson_id = ? ORDER BY line_order`, lessonID)
	if err != nil {
		return nil, fmt.Errorf("query lines: %w", err)
	}
	defer rows.Close()

	var lines []subtitles.Line
	for rows.Next() {
		var (
			l          subtitles.Line
			start, end string
		)
		if err := rows.Scan(&l.Order, &start, &end, &l.Text); err != nil {
			return nil, fmt.Errorf("scan line: %w", err)
		}
		if l.Start, err = model.ParseSeconds(start); err != nil {
			return nil, fmt.Errorf("line %d start: %w", l.Order, err)
		}
		if l.End, err = model.ParseSeconds(end); err != nil {
			return nil, fmt.Errorf("line %d end: %w", l.Order, err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lines: %w", err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%s: %w", lessonID, ErrLessonNotFound)
	}
	return lines, nil
}

// Transcript rebuilds the stored transcript, titled by the latest import.
func (s *Store) Transcript(ctx context.Context, lessonID string) (subtitles.Transcript, error) {
	lines, err := s.Lines(ctx, lessonID)
	if err != nil {
		return subtitles.Transcript{}, err
	}
	var title string
	imports, err := s.Imports(ctx, lessonID)
	if err != nil {
		return subtitles.Transcript{}, err
	}
	if len(imports) > 0 {
		title = imports[0].Title
	}
	return subtitles.NewTranscript(title, lessonID, lines), nil
}

// Imports lists the lesson's imports, newest first.
func (s *Store) Imports(ctx context.Context, lessonID string) ([]Import, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, lesson_id, title, source, line_count, created_at FROM transcript_imports
		 WHERE lesson_id = ? ORDER BY created_at DESC, rowid DESC`, lessonID)
	if err != nil {
		return nil, fmt.Errorf("query imports: %w", err)
	}
	defer rows.Close()

	var out []Import
	for rows.Next() {
		var (
			imp     Import
			created string
		)
		if err := rows.Scan(&imp.ID, &imp.LessonID, &imp.Title, &imp.Source, &imp.LineCount, &created); err != nil {
			return nil, fmt.Errorf("scan import: %w", err)
		}
		if imp.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
			return nil, fmt.Errorf("import %s created_at: %w", imp.ID, err)
		}
		out = append(out, imp)
	}
	return out, rows.Err()
}
