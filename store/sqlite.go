// Package store persists calibration results in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/maseology/hbv"
	"github.com/vmihailenco/msgpack/v5"

	_ "modernc.org/sqlite" // SQLite driver
)

// ErrNotFound is returned when no calibration matches a query
var ErrNotFound = errors.New("store: calibration not found")

// Record of a stored calibration
type Record struct {
	ID          uuid.UUID
	Batch       string
	Created     time.Time
	Calibration hbv.Calibration
}

// Store of calibration results
type Store struct {
	db *sql.DB
}

// Open creates or opens the database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer

	if err := InitSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close the database
func (s *Store) Close() error { return s.db.Close() }

func nullable(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: !math.IsNaN(v) && !math.IsInf(v, 0)}
}

func value(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

// Save stores a calibration under the batch and returns its record ID.
func (s *Store) Save(ctx context.Context, batch string, c *hbv.Calibration) (uuid.UUID, error) {
	blob, err := msgpack.Marshal(c.Params.Slice(c.Routing))
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to encode parameters: %w", err)
	}
	id := uuid.New()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO calibrations (id, batch, station, created_at, routing, objective, score, nse, kge, rmse, bias, evaluations, elapsed_ms, params)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id.String(), batch, c.Station, time.Now().UnixNano(), c.Routing, string(c.Objective),
		nullable(c.Score), nullable(c.NSE), nullable(c.KGE), nullable(c.RMSE), nullable(c.Bias),
		c.Evaluations, c.Elapsed.Milliseconds(), blob)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to insert calibration %s: %w", c.Station, err)
	}
	return id, nil
}

const selectRecord = `SELECT id, batch, station, created_at, routing, objective, score, nse, kge, rmse, bias, evaluations, elapsed_ms, params FROM calibrations`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*Record, error) {
	var (
		r                           Record
		id, objective               string
		created, elapsed            int64
		score, nse, kge, rmse, bias sql.NullFloat64
		blob                        []byte
	)
	c := &r.Calibration
	if err := row.Scan(&id, &r.Batch, &c.Station, &created, &c.Routing, &objective, &score, &nse, &kge, &rmse, &bias, &c.Evaluations, &elapsed, &blob); err != nil {
		return nil, err
	}
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid record id %q: %w", id, err)
	}
	var v []float64
	if err := msgpack.Unmarshal(blob, &v); err != nil {
		return nil, fmt.Errorf("failed to decode parameters of %s: %w", id, err)
	}
	if c.Params, err = hbv.FromSlice(v, c.Routing); err != nil {
		return nil, err
	}
	r.ID = uid
	r.Created = time.Unix(0, created)
	c.Objective = hbv.Objective(objective)
	c.Score, c.NSE, c.KGE, c.RMSE, c.Bias = value(score), value(nse), value(kge), value(rmse), value(bias)
	c.Elapsed = time.Duration(elapsed) * time.Millisecond
	return &r, nil
}

// Latest returns the most recent calibration of a station.
func (s *Store) Latest(ctx context.Context, station string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, selectRecord+` WHERE station = ? ORDER BY created_at DESC LIMIT 1`, station)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: station %s", ErrNotFound, station)
	}
	return r, err
}

// All returns every stored calibration ordered by station then time.
func (s *Store) All(ctx context.Context) ([]Record, error) {
	return s.query(ctx, selectRecord+` ORDER BY station, created_at`)
}

// Batch returns the calibrations of a batch ordered by station.
func (s *Store) Batch(ctx context.Context, batch string) ([]Record, error) {
	return s.query(ctx, selectRecord+` WHERE batch = ? ORDER BY station`, batch)
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query calibrations: %w", err)
	}
	defer rows.Close()
	var o []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		o = append(o, *r)
	}
	return o, rows.Err()
}
