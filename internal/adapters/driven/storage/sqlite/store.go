package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/quillon-labs/worknorm/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/quillon-labs/worknorm/internal/core/domain"
	"github.com/quillon-labs/worknorm/internal/core/ports/driven"
	"github.com/quillon-labs/worknorm/internal/logger"
	"github.com/quillon-labs/worknorm/internal/normalise/names"
)

// Store is a SQLite-backed works store. It hands out RunSinks for the
// pipeline and answers the works/runs queries the CLI needs.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (creating if necessary) the database at dbPath and brings
// the schema up to date. If dbPath is empty, defaults to
// ~/.worknorm/data/works.db.
func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".worknorm", "data", "works.db")
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Works ====================

// workColumns is the column list shared by the upsert and the queries. The
// scan helpers depend on this order.
const workColumns = `doi, source, title, abstract, work_type, publication_date, updated_date,
	publication_venue, ids, authors, institutions, funders, awards, relations`

// GetWork returns the work stored under doi, or domain.ErrNotFound.
func (s *Store) GetWork(ctx context.Context, doi string) (*domain.Work, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+workColumns+`
		FROM works
		WHERE doi = ?
	`, doi)
	return scanWork(row)
}

// CountWorks returns how many works are stored, filtered to one source when
// source is non-empty.
func (s *Store) CountWorks(ctx context.Context, source domain.Source) (int64, error) {
	var (
		count int64
		row   *sql.Row
	)
	if source == "" {
		row = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM works")
	} else {
		row = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM works WHERE source = ?", string(source))
	}
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting works: %w", err)
	}
	return count, nil
}

// scanWork scans a single work row.
func scanWork(row *sql.Row) (*domain.Work, error) {
	var (
		w                  domain.Work
		source             string
		pubDate, updDate   sql.NullTime
		ids, authors       string
		institutions       string
		funders, awards    string
		relations          string
	)

	err := row.Scan(&w.DOI, &source, &w.Title, &w.Abstract, &w.WorkType,
		&pubDate, &updDate, &w.PublicationVenue,
		&ids, &authors, &institutions, &funders, &awards, &relations)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning work: %w", err)
	}

	w.Source = domain.Source(source)
	if pubDate.Valid {
		t := pubDate.Time.UTC()
		w.PublicationDate = &t
	}
	if updDate.Valid {
		t := updDate.Time.UTC()
		w.UpdatedDate = &t
	}

	for _, col := range []struct {
		name string
		data string
		dst  any
	}{
		{"ids", ids, &w.IDs},
		{"authors", authors, &w.Authors},
		{"institutions", institutions, &w.Institutions},
		{"funders", funders, &w.Funders},
		{"awards", awards, &w.Awards},
		{"relations", relations, &w.Relations},
	} {
		if err := json.Unmarshal([]byte(col.data), col.dst); err != nil {
			return nil, fmt.Errorf("unmarshalling %s: %w", col.name, err)
		}
	}

	return &w, nil
}

// ==================== Runs ====================

// FinishRun records the pipeline counters on the run row. The RunSink only
// sees the works it wrote; callers pass the pipeline summary here after the
// run ends so files, skips and line errors land in the runs table too.
func (s *Store) FinishRun(ctx context.Context, summary *domain.TransformSummary) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET finished_at = ?, files = ?, records = ?, skipped = ?, line_errors = ?
		WHERE run_id = ?
	`, summary.Finished, summary.FilesDone, summary.RecordsOut,
		summary.RecordsSkipped, summary.LineErrors, summary.RunID)
	if err != nil {
		return fmt.Errorf("updating run row: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first. A limit below one
// means no limit.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]domain.Run, error) {
	if limit < 1 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, source, started_at, finished_at, files, records, skipped, line_errors
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.Run
	for rows.Next() {
		var (
			run      domain.Run
			source   string
			finished sql.NullTime
		)
		if err := rows.Scan(&run.ID, &source, &run.Started, &finished,
			&run.Files, &run.Records, &run.Skipped, &run.LineErrors); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		run.Source = domain.Source(source)
		run.Started = run.Started.UTC()
		if finished.Valid {
			t := finished.Time.UTC()
			run.Finished = &t
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	return runs, nil
}

// ==================== Run Sink ====================

var _ driven.WorkSink = (*RunSink)(nil)

// upsertWorkSQL inserts a work or, when the DOI is already present,
// replaces everything except created_at. Later runs win.
const upsertWorkSQL = `
	INSERT INTO works (
		doi, source, title, abstract, work_type, publication_date, updated_date,
		publication_venue, ids, authors, institutions, funders, awards, relations,
		author_sort, run_id, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(doi) DO UPDATE SET
		source = excluded.source,
		title = excluded.title,
		abstract = excluded.abstract,
		work_type = excluded.work_type,
		publication_date = excluded.publication_date,
		updated_date = excluded.updated_date,
		publication_venue = excluded.publication_venue,
		ids = excluded.ids,
		authors = excluded.authors,
		institutions = excluded.institutions,
		funders = excluded.funders,
		awards = excluded.awards,
		relations = excluded.relations,
		author_sort = excluded.author_sort,
		run_id = excluded.run_id,
		updated_at = excluded.updated_at
`

// RunSink writes works for one pipeline run. Batches from concurrent
// workers serialise on an internal mutex so transactions never interleave.
type RunSink struct {
	store *Store
	runID string

	mu      sync.Mutex
	records int64
	closed  bool
}

// NewRunSink inserts a row for the run identified by runID and returns the
// sink the pipeline writes through.
func (s *Store) NewRunSink(ctx context.Context, source domain.Source, runID string) (*RunSink, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (run_id, source, started_at) VALUES (?, ?, ?)
	`, runID, string(source), time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("inserting run row: %w", err)
	}

	return &RunSink{store: s, runID: runID}, nil
}

// Write upserts a batch of works in a single transaction.
func (r *RunSink) Write(ctx context.Context, works []domain.Work) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return domain.ErrStoreClosed
	}

	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertWorkSQL)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i := range works {
		if err := upsertWork(ctx, stmt, &works[i], r.runID, now); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing batch: %w", err)
	}
	r.records += int64(len(works))
	return nil
}

// Close stamps the run row with its end time and the number of works this
// sink wrote. Closing an already-closed sink is a no-op.
func (r *RunSink) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true

	_, err := r.store.db.Exec(`
		UPDATE runs SET finished_at = ?, records = ? WHERE run_id = ?
	`, time.Now().UTC(), r.records, r.runID)
	if err != nil {
		return fmt.Errorf("finalising run row: %w", err)
	}

	logger.Info("Wrote %d works to %s", r.records, r.store.path)
	return nil
}

// upsertWork executes the prepared upsert for one work.
func upsertWork(ctx context.Context, stmt *sql.Stmt, w *domain.Work, runID string, now time.Time) error {
	if err := w.Validate(); err != nil {
		return fmt.Errorf("validating work: %w", err)
	}

	cols := make([]string, 0, 6)
	for _, field := range []struct {
		name string
		v    any
	}{
		{"ids", w.IDs},
		{"authors", w.Authors},
		{"institutions", w.Institutions},
		{"funders", w.Funders},
		{"awards", w.Awards},
		{"relations", w.Relations},
	} {
		data, err := json.Marshal(field.v)
		if err != nil {
			return fmt.Errorf("marshalling %s for %s: %w", field.name, w.DOI, err)
		}
		cols = append(cols, string(data))
	}

	_, err := stmt.ExecContext(ctx,
		w.DOI, string(w.Source), w.Title, w.Abstract, w.WorkType,
		w.PublicationDate, w.UpdatedDate, w.PublicationVenue,
		cols[0], cols[1], cols[2], cols[3], cols[4], cols[5],
		authorSort(w.Authors), runID, now, now)
	if err != nil {
		return fmt.Errorf("upserting work %s: %w", w.DOI, err)
	}
	return nil
}

// authorSort derives the works table ordering key from the first author.
func authorSort(authors []domain.Author) string {
	if len(authors) == 0 {
		return ""
	}
	a := authors[0]
	return names.SortKey(names.ParsedName{
		FirstInitial:   a.FirstInitial,
		GivenName:      a.GivenName,
		MiddleInitials: a.MiddleInitials,
		MiddleNames:    a.MiddleNames,
		Surname:        a.Surname,
		Full:           a.Full,
	})
}
