// Package index records analysis runs in a SQLite history database.
package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/suykerbuyk/recap/internal/analysis"
	"github.com/suykerbuyk/recap/internal/logging"
)

// DBName is the history database file inside the state directory.
const DBName = "history.db"

// timeLayout is fixed-width UTC so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Entry is one recorded run.
type Entry struct {
	RunID       string                  `json:"run_id" yaml:"run_id"`
	Project     string                  `json:"project" yaml:"project"`
	Root        string                  `json:"root" yaml:"root"`
	Head        string                  `json:"head,omitempty" yaml:"head,omitempty"`
	LookBack    int                     `json:"lookback" yaml:"lookback"`
	Detail      string                  `json:"detail" yaml:"detail"`
	Kind        string                  `json:"kind" yaml:"kind"`
	Tag         string                  `json:"tag,omitempty" yaml:"tag,omitempty"`
	Headline    string                  `json:"headline" yaml:"headline"`
	CreatedAt   time.Time               `json:"created_at" yaml:"created_at"`
	Analysis    analysis.ChangeAnalysis `json:"analysis" yaml:"analysis"`
	Narrative   string                  `json:"narrative" yaml:"narrative"`
	NarratedBy  string                  `json:"narrated_by" yaml:"narrated_by"`
	ArchivePath string                  `json:"archive_path,omitempty" yaml:"archive_path,omitempty"`
}

// Index is the run history store.
type Index struct {
	conn   *sql.DB
	path   string
	logger *zap.Logger
}

// Open opens or creates stateDir/history.db.
func Open(stateDir string, logger *zap.Logger) (*Index, error) {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create state dir")
	}

	dbPath := filepath.Join(stateDir, DBName)
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "open history database")
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, errors.Wrapf(err, "set pragma %q", pragma)
		}
	}

	idx := &Index{conn: conn, path: dbPath, logger: logging.OrNop(logger)}
	if err := idx.initializeSchema(); err != nil {
		_ = conn.Close()
		return nil, errors.Wrap(err, "initialize history schema")
	}
	return idx, nil
}

func (idx *Index) initializeSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			project TEXT NOT NULL,
			root TEXT NOT NULL,
			head TEXT NOT NULL DEFAULT '',
			lookback INTEGER NOT NULL,
			detail TEXT NOT NULL,
			kind TEXT NOT NULL,
			tag TEXT NOT NULL DEFAULT '',
			headline TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			analysis TEXT NOT NULL,
			narrative TEXT NOT NULL,
			narrated_by TEXT NOT NULL,
			archive_path TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_runs_project_created ON runs(project, created_at);
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);
		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`
	_, err := idx.conn.Exec(schema)
	return err
}

// Path returns the database file path.
func (idx *Index) Path() string {
	return idx.path
}

// Close closes the database connection.
func (idx *Index) Close() error {
	if idx.conn != nil {
		return idx.conn.Close()
	}
	return nil
}

// Add inserts or replaces a run.
func (idx *Index) Add(ctx context.Context, e Entry) error {
	if e.RunID == "" {
		return errors.New("entry has no run id")
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	data, err := json.Marshal(e.Analysis)
	if err != nil {
		return errors.Wrap(err, "marshal analysis")
	}

	_, err = idx.conn.ExecContext(ctx, `
		INSERT OR REPLACE INTO runs
			(run_id, project, root, head, lookback, detail, kind, tag, headline,
			 created_at, analysis, narrative, narrated_by, archive_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RunID, e.Project, e.Root, e.Head, e.LookBack, e.Detail, e.Kind, e.Tag, e.Headline,
		e.CreatedAt.UTC().Format(timeLayout), string(data), e.Narrative, e.NarratedBy, e.ArchivePath,
	)
	if err != nil {
		return errors.Wrapf(err, "insert run %s", e.RunID)
	}
	idx.logger.Debug("recorded run", zap.String("run_id", e.RunID), zap.String("project", e.Project))
	return nil
}

const selectColumns = `SELECT run_id, project, root, head, lookback, detail, kind, tag, headline,
	created_at, analysis, narrative, narrated_by, archive_path FROM runs`

// Get returns the run with runID, or nil when there is none.
func (idx *Index) Get(ctx context.Context, runID string) (*Entry, error) {
	row := idx.conn.QueryRowContext(ctx, selectColumns+` WHERE run_id = ?`, runID)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Find resolves a full run id or a unique prefix of one. It returns nil
// when nothing matches and an error when the prefix is ambiguous.
func (idx *Index) Find(ctx context.Context, idOrPrefix string) (*Entry, error) {
	idOrPrefix = strings.TrimSpace(idOrPrefix)
	if idOrPrefix == "" {
		return nil, errors.New("empty run id")
	}
	if e, err := idx.Get(ctx, idOrPrefix); e != nil || err != nil {
		return e, err
	}

	escaped := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(idOrPrefix)
	rows, err := idx.conn.QueryContext(ctx,
		selectColumns+` WHERE run_id LIKE ? ESCAPE '\' ORDER BY created_at DESC LIMIT 2`, escaped+"%")
	if err != nil {
		return nil, errors.Wrap(err, "query run prefix")
	}
	defer rows.Close()

	var matches []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate runs")
	}
	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return matches[0], nil
	default:
		return nil, errors.Newf("run id prefix %q is ambiguous", idOrPrefix)
	}
}

// Recent returns up to limit runs, newest first. An empty project means
// every project.
func (idx *Index) Recent(ctx context.Context, project string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	query := selectColumns + ` ORDER BY created_at DESC, rowid DESC LIMIT ?`
	args := []any{limit}
	if project != "" {
		query = selectColumns + ` WHERE project = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`
		args = []any{project, limit}
	}

	rows, err := idx.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query recent runs")
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, errors.Wrap(rows.Err(), "iterate runs")
}

// LastHead returns the HEAD recorded by the newest run of project, or "".
func (idx *Index) LastHead(ctx context.Context, project string) (string, error) {
	var head string
	err := idx.conn.QueryRowContext(ctx,
		`SELECT head FROM runs WHERE project = ? ORDER BY created_at DESC, rowid DESC LIMIT 1`,
		project,
	).Scan(&head)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "query last head")
	}
	return head, nil
}

// Count returns the number of recorded runs.
func (idx *Index) Count(ctx context.Context) (int, error) {
	var n int
	if err := idx.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "count runs")
	}
	return n, nil
}

// Prune deletes runs created before cutoff and returns their archive
// paths so the caller can remove the files.
func (idx *Index) Prune(ctx context.Context, cutoff time.Time) ([]string, error) {
	ts := cutoff.UTC().Format(timeLayout)

	rows, err := idx.conn.QueryContext(ctx,
		`SELECT archive_path FROM runs WHERE created_at < ? AND archive_path != ''`, ts)
	if err != nil {
		return nil, errors.Wrap(err, "query prunable runs")
	}
	var archives []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			rows.Close()
			return nil, errors.Wrap(err, "scan archive path")
		}
		archives = append(archives, p)
	}
	rows.Close()

	res, err := idx.conn.ExecContext(ctx, `DELETE FROM runs WHERE created_at < ?`, ts)
	if err != nil {
		return nil, errors.Wrap(err, "prune runs")
	}
	n, _ := res.RowsAffected()
	idx.logger.Debug("pruned runs", zap.Int64("count", n), zap.Time("cutoff", cutoff))
	return archives, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*Entry, error) {
	var e Entry
	var createdAt, data string
	err := s.Scan(
		&e.RunID, &e.Project, &e.Root, &e.Head, &e.LookBack, &e.Detail, &e.Kind, &e.Tag, &e.Headline,
		&createdAt, &data, &e.Narrative, &e.NarratedBy, &e.ArchivePath,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, errors.Wrap(err, "scan run")
	}
	if t, err := time.Parse(timeLayout, createdAt); err == nil {
		e.CreatedAt = t
	}
	e.Analysis = analysis.Empty()
	if err := json.Unmarshal([]byte(data), &e.Analysis); err != nil {
		return nil, errors.Wrapf(err, "decode analysis of run %s", e.RunID)
	}
	return &e, nil
}
