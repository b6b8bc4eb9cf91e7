package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store is a SQLite-backed Catalog implementation.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// ErrShowNotFound reports a lookup for an unknown show ID.
var ErrShowNotFound = errors.New("show not found")

// Open opens (creating if necessary) the catalog database at path.
func Open(path string) (*Store, error) {
	path = filepath.Clean(strings.TrimSpace(path))
	if path == "" || path == "." {
		return nil, errors.New("catalog database path must be set")
	}
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open catalog database: %w", err)
	}
	store := &Store{db: db, path: path}
	if err := store.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

func (s *Store) ensureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply catalog schema: %w", err)
	}
	return nil
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}

// Show returns the show with the given ID.
func (s *Store) Show(ctx context.Context, id int64) (*Show, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, title FROM shows WHERE id = ?`, id)
	var show Show
	if err := row.Scan(&show.ID, &show.Title); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %d", ErrShowNotFound, id)
		}
		return nil, fmt.Errorf("load show %d: %w", id, err)
	}
	return &show, nil
}

// AllShows returns every show known to the catalog, ordered by ID.
func (s *Store) AllShows(ctx context.Context) ([]*Show, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title FROM shows ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list shows: %w", err)
	}
	defer rows.Close()

	var shows []*Show
	for rows.Next() {
		var show Show
		if err := rows.Scan(&show.ID, &show.Title); err != nil {
			return nil, fmt.Errorf("scan show: %w", err)
		}
		shows = append(shows, &show)
	}
	return shows, rows.Err()
}

// FileMappings returns the show's mappings with their candidate locations,
// ordered by (season, episode, part index) so downstream disambiguation is
// deterministic.
func (s *Store) FileMappings(ctx context.Context, showID int64) ([]FileMapping, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT file_id, season, episode, end_episode, part_index, part_count,
               episode_title, cross_ref_count
        FROM mappings
        WHERE show_id = ?
        ORDER BY season, episode, part_index, file_id`, showID)
	if err != nil {
		return nil, fmt.Errorf("list mappings for show %d: %w", showID, err)
	}
	defer rows.Close()

	var mappings []FileMapping
	fileIDs := make([]int64, 0, 16)
	for rows.Next() {
		m := FileMapping{ShowID: showID}
		if err := rows.Scan(
			&m.FileID, &m.Coords.Season, &m.Coords.Episode, &m.Coords.EndEpisode,
			&m.PartIndex, &m.PartCount, &m.EpisodeTitle, &m.CrossRefCount,
		); err != nil {
			return nil, fmt.Errorf("scan mapping: %w", err)
		}
		mappings = append(mappings, m)
		fileIDs = append(fileIDs, m.FileID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(mappings) == 0 {
		return mappings, nil
	}

	locations, err := s.locationsByFile(ctx, fileIDs)
	if err != nil {
		return nil, err
	}
	for i := range mappings {
		mappings[i].Locations = locations[mappings[i].FileID]
	}
	return mappings, nil
}

func (s *Store) locationsByFile(ctx context.Context, fileIDs []int64) (map[int64][]FileLocation, error) {
	unique := make([]int64, 0, len(fileIDs))
	seen := make(map[int64]struct{}, len(fileIDs))
	for _, id := range fileIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	sort.Slice(unique, func(i, j int) bool { return unique[i] < unique[j] })

	placeholders := strings.TrimRight(strings.Repeat("?,", len(unique)), ",")
	args := make([]any, len(unique))
	for i, id := range unique {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, `
        SELECT file_id, absolute_path, relative_path, source_only
        FROM locations
        WHERE file_id IN (`+placeholders+`)
        ORDER BY id`, args...)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	result := make(map[int64][]FileLocation, len(unique))
	for rows.Next() {
		var (
			fileID     int64
			loc        FileLocation
			sourceOnly int
		)
		if err := rows.Scan(&fileID, &loc.AbsolutePath, &loc.RelativePath, &sourceOnly); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		loc.SourceOnly = sourceOnly != 0
		result[fileID] = append(result[fileID], loc)
	}
	return result, rows.Err()
}

// UpsertShow inserts or updates a show row. Write APIs exist for import
// tooling and test fixtures; the build engine only reads.
func (s *Store) UpsertShow(ctx context.Context, show Show) error {
	_, err := s.execWithRetry(ctx, `
        INSERT INTO shows (id, title) VALUES (?, ?)
        ON CONFLICT(id) DO UPDATE SET title = excluded.title`, show.ID, show.Title)
	if err != nil {
		return fmt.Errorf("upsert show %d: %w", show.ID, err)
	}
	return nil
}

// ReplaceMappings swaps a show's mapping set and the location rows of the
// referenced files in one transaction.
func (s *Store) ReplaceMappings(ctx context.Context, showID int64, mappings []FileMapping) error {
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin mapping replace: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx, `DELETE FROM mappings WHERE show_id = ?`, showID); err != nil {
			return fmt.Errorf("clear mappings for show %d: %w", showID, err)
		}
		for _, m := range mappings {
			// Every mapping is referenced by at least its own show.
			crossRefs := m.CrossRefCount
			if crossRefs < 1 {
				crossRefs = 1
			}
			if _, err := tx.ExecContext(ctx, `
                INSERT INTO mappings (show_id, file_id, season, episode, end_episode,
                                      part_index, part_count, episode_title, cross_ref_count)
                VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				showID, m.FileID, m.Coords.Season, m.Coords.Episode, m.Coords.EndEpisode,
				m.PartIndex, m.PartCount, m.EpisodeTitle, crossRefs,
			); err != nil {
				return fmt.Errorf("insert mapping for file %d: %w", m.FileID, err)
			}
			if _, err := tx.ExecContext(ctx, `DELETE FROM locations WHERE file_id = ?`, m.FileID); err != nil {
				return fmt.Errorf("clear locations for file %d: %w", m.FileID, err)
			}
			for _, loc := range m.Locations {
				sourceOnly := 0
				if loc.SourceOnly {
					sourceOnly = 1
				}
				if _, err := tx.ExecContext(ctx, `
                    INSERT INTO locations (file_id, absolute_path, relative_path, source_only)
                    VALUES (?, ?, ?, ?)`,
					m.FileID, loc.AbsolutePath, loc.RelativePath, sourceOnly,
				); err != nil {
					return fmt.Errorf("insert location for file %d: %w", m.FileID, err)
				}
			}
		}
		return tx.Commit()
	})
}

// DeleteShow removes a show and its mappings.
func (s *Store) DeleteShow(ctx context.Context, showID int64) error {
	_, err := s.execWithRetry(ctx, `DELETE FROM shows WHERE id = ?`, showID)
	if err != nil {
		return fmt.Errorf("delete show %d: %w", showID, err)
	}
	return nil
}
