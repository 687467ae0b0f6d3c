// Package store caches integrated yields and model parameter records in a
// SQLite file, keyed by the model parameter hash.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wildstyl3r/sremit/internal/model"
	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("not found in cache")

const schema = `
CREATE TABLE IF NOT EXISTS models (
	hash           TEXT PRIMARY KEY,
	model          TEXT NOT NULL,
	t0             REAL NOT NULL,
	r              REAL NOT NULL,
	h              REAL NOT NULL,
	a              REAL NOT NULL,
	gamma_s        REAL NOT NULL,
	temperature    REAL NOT NULL,
	chemistry      TEXT NOT NULL,
	mu_b           REAL NOT NULL,
	mu_i           REAL NOT NULL,
	mu_s           REAL NOT NULL,
	mu_c           REAL NOT NULL,
	lambda_q       REAL NOT NULL,
	lambda_i       REAL NOT NULL,
	lambda_s       REAL NOT NULL,
	lambda_c       REAL NOT NULL,
	gamma_q        REAL NOT NULL,
	gamma_s_thermo REAL NOT NULL,
	gamma_c        REAL NOT NULL,
	description    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS yields (
	hash           TEXT NOT NULL REFERENCES models(hash),
	pdg            INTEGER NOT NULL,
	finite_width   INTEGER NOT NULL,
	samples        INTEGER NOT NULL,
	multiplicity   REAL NOT NULL,
	std_error      REAL NOT NULL,
	max_weight     REAL NOT NULL,
	discarded      INTEGER NOT NULL DEFAULT 0,
	run_id         TEXT NOT NULL,
	created_at     INTEGER NOT NULL,
	PRIMARY KEY (hash, pdg, finite_width, samples)
);
`

type Store struct {
	db *sql.DB
}

// Open opens or creates the cache file at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("cache path is required")
	}
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	// one writer at a time
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// YieldKey identifies an integration: the same model, species, mass
// treatment and sample count reuse the cached result.
type YieldKey struct {
	Hash        string
	PDG         int
	FiniteWidth bool
	Samples     int
}

type YieldRecord struct {
	YieldKey
	Multiplicity float64
	StdError     float64
	MaxWeight    float64
	Discarded    int
	RunID        string
	CreatedAt    time.Time
}

// SaveModel stores the parameter record and its report. A record with the
// same hash only gets its report updated.
func (s *Store) SaveModel(ctx context.Context, r model.Record, description string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO models (
		   hash, model, t0, r, h, a, gamma_s, temperature, chemistry,
		   mu_b, mu_i, mu_s, mu_c,
		   lambda_q, lambda_i, lambda_s, lambda_c,
		   gamma_q, gamma_s_thermo, gamma_c, description
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(hash) DO UPDATE SET description = excluded.description`,
		r.Hash, r.Model, r.T0, r.R, r.H, r.A, r.GammaS, r.Temperature, r.Chemistry,
		r.MuB, r.MuI, r.MuS, r.MuC,
		r.LambdaQ, r.LambdaI, r.LambdaS, r.LambdaC,
		r.GammaQ, r.GammaSThermo, r.GammaC, description,
	)
	if err != nil {
		return fmt.Errorf("save model %s: %w", r.Hash, err)
	}
	return nil
}

// Model returns the parameter record stored under hash.
func (s *Store) Model(ctx context.Context, hash string) (model.Record, string, error) {
	var (
		r           model.Record
		description string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT hash, model, t0, r, h, a, gamma_s, temperature, chemistry,
		        mu_b, mu_i, mu_s, mu_c,
		        lambda_q, lambda_i, lambda_s, lambda_c,
		        gamma_q, gamma_s_thermo, gamma_c, description
		   FROM models WHERE hash = ?`, hash,
	).Scan(
		&r.Hash, &r.Model, &r.T0, &r.R, &r.H, &r.A, &r.GammaS, &r.Temperature, &r.Chemistry,
		&r.MuB, &r.MuI, &r.MuS, &r.MuC,
		&r.LambdaQ, &r.LambdaI, &r.LambdaS, &r.LambdaC,
		&r.GammaQ, &r.GammaSThermo, &r.GammaC, &description,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return r, "", fmt.Errorf("model %s: %w", hash, ErrNotFound)
	}
	if err != nil {
		return r, "", fmt.Errorf("load model %s: %w", hash, err)
	}
	return r, description, nil
}

// SaveYield stores an integration result. The model row must exist.
func (s *Store) SaveYield(ctx context.Context, y YieldRecord) error {
	createdAt := y.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO yields (
		   hash, pdg, finite_width, samples,
		   multiplicity, std_error, max_weight, discarded, run_id, created_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		y.Hash, y.PDG, y.FiniteWidth, y.Samples,
		y.Multiplicity, y.StdError, y.MaxWeight, y.Discarded, y.RunID, createdAt.UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save yield %s/%d: %w", y.Hash, y.PDG, err)
	}
	return nil
}

// Lookup returns the cached result for key, or ErrNotFound.
func (s *Store) Lookup(ctx context.Context, key YieldKey) (YieldRecord, error) {
	y := YieldRecord{YieldKey: key}
	var createdAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT multiplicity, std_error, max_weight, discarded, run_id, created_at
		   FROM yields
		  WHERE hash = ? AND pdg = ? AND finite_width = ? AND samples = ?`,
		key.Hash, key.PDG, key.FiniteWidth, key.Samples,
	).Scan(&y.Multiplicity, &y.StdError, &y.MaxWeight, &y.Discarded, &y.RunID, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return y, fmt.Errorf("yield %s/%d: %w", key.Hash, key.PDG, ErrNotFound)
	}
	if err != nil {
		return y, fmt.Errorf("lookup yield %s/%d: %w", key.Hash, key.PDG, err)
	}
	y.CreatedAt = time.UnixMilli(createdAt).UTC()
	return y, nil
}
