package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/quidome/whereshot-go/pkg/analyze"
	"github.com/quidome/whereshot-go/pkg/estimate"
	"github.com/quidome/whereshot-go/pkg/geo"
)

//go:embed schema.sql
var schema string

// Run is one stored analysis invocation.
type Run struct {
	ID        string    `json:"id"`
	Root      string    `json:"root"`
	Files     int       `json:"files"`
	Failed    int       `json:"failed"`
	CreatedAt time.Time `json:"created_at"`
}

// Result is the stored outcome for one file of a run.
type Result struct {
	ID          string               `json:"id"`
	RunID       string               `json:"run_id"`
	Path        string               `json:"path"`
	SHA256      string               `json:"sha256,omitempty"`
	Estimated   *time.Time           `json:"estimated,omitempty"`
	Method      estimate.Method      `json:"method"`
	Confidence  float64              `json:"confidence"`
	Consistency estimate.Consistency `json:"consistency"`
	Position    *geo.Point           `json:"position,omitempty"`
	Altitude    *float64             `json:"altitude,omitempty"`
	Error       string               `json:"error,omitempty"`
	Report      analyze.Report       `json:"report"`
}

// Store keeps the history of analysis runs in SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// New opens the database at path and creates the schema if needed.
func New(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "store: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "store: exec %s", pragma)
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "store: init schema")
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun stores reports as a single run below root.
func (s *Store) SaveRun(ctx context.Context, root string, reports []analyze.Report) (*Run, error) {
	run := &Run{
		ID:        uuid.New().String(),
		Root:      root,
		Files:     len(reports),
		CreatedAt: s.now().UTC(),
	}
	for _, r := range reports {
		if r.Error != "" {
			run.Failed++
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, eris.Wrap(err, "store: begin")
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, root, files, failed, created_at) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Root, run.Files, run.Failed, run.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "store: insert run")
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO results (id, run_id, path, sha256, estimated, method, confidence, consistency, location, error, report)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "store: prepare result insert")
	}
	defer stmt.Close()

	for _, r := range reports {
		if err := insertResult(ctx, stmt, run.ID, r); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, eris.Wrap(err, "store: commit")
	}
	return run, nil
}

func insertResult(ctx context.Context, stmt *sql.Stmt, runID string, r analyze.Report) error {
	report, err := json.Marshal(r)
	if err != nil {
		return eris.Wrapf(err, "store: marshal report %s", r.Path)
	}

	var (
		estimated   sql.NullTime
		method      = estimate.MethodNone
		confidence  float64
		consistency = estimate.ConsistencyNone
		location    []byte
	)
	if res := r.Estimate; res != nil {
		if res.Estimated != nil {
			estimated = sql.NullTime{Time: *res.Estimated, Valid: true}
		}
		method = res.Method
		confidence = res.Confidence
		consistency = res.Analysis.Consistency
	}
	if gps, ok := r.Position(); ok {
		if location, err = geo.EncodeEWKB(gps.Point, gps.Altitude); err != nil {
			return err
		}
	}

	_, err = stmt.ExecContext(ctx,
		uuid.New().String(), runID, r.Path, r.SHA256, estimated,
		string(method), confidence, string(consistency), location, r.Error, string(report),
	)
	return eris.Wrapf(err, "store: insert result %s", r.Path)
}

// ListRuns returns the most recent runs first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, root, files, failed, created_at FROM runs ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, eris.Wrap(err, "store: list runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Root, &r.Files, &r.Failed, &r.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "store: scan run")
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "store: list runs")
}

// Results returns the stored results of a run ordered by path.
func (s *Store) Results(ctx context.Context, runID string) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, run_id, path, sha256, estimated, method, confidence, consistency, location, error, report
		 FROM results WHERE run_id = ? ORDER BY path`,
		runID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "store: list results")
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var (
			r         Result
			estimated sql.NullTime
			location  []byte
			report    string
		)
		if err := rows.Scan(&r.ID, &r.RunID, &r.Path, &r.SHA256, &estimated, &r.Method,
			&r.Confidence, &r.Consistency, &location, &r.Error, &report); err != nil {
			return nil, eris.Wrap(err, "store: scan result")
		}

		if estimated.Valid {
			t := estimated.Time
			r.Estimated = &t
		}
		if len(location) > 0 {
			p, alt, err := geo.DecodeEWKB(location)
			if err != nil {
				return nil, eris.Wrapf(err, "store: location of %s", r.Path)
			}
			r.Position, r.Altitude = &p, alt
		}
		if err := json.Unmarshal([]byte(report), &r.Report); err != nil {
			return nil, eris.Wrapf(err, "store: report of %s", r.Path)
		}
		results = append(results, r)
	}
	return results, eris.Wrap(rows.Err(), "store: list results")
}
