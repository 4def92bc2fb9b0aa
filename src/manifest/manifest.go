// Package manifest records the signatures written by a run in a SQLite database, so large batches can be searched without reloading every output.
package manifest

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/will-rowe/sigsub/src/minhash"
	"github.com/will-rowe/sigsub/src/pipeline"

	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS sigsub_manifest (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL,
	internal_location TEXT NOT NULL,
	source_location TEXT NOT NULL,
	md5 TEXT NOT NULL,
	md5short TEXT NOT NULL,
	ksize INTEGER NOT NULL,
	moltype TEXT NOT NULL,
	scaled INTEGER NOT NULL,
	n_hashes INTEGER NOT NULL,
	n_removed INTEGER NOT NULL,
	with_abundance INTEGER NOT NULL,
	resolution TEXT NOT NULL,
	name TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(run_id, internal_location)
);`

// Row is a single manifest entry
type Row struct {
	RunID            string
	InternalLocation string // the subtracted signature
	SourceLocation   string // the target it was made from
	MD5              string
	Ksize            uint32
	Moltype          string
	Scaled           uint64
	NumHashes        int
	NumRemoved       int
	WithAbundance    bool
	Resolution       string
	Name             string
}

// Manifest is a handle on a manifest database
type Manifest struct {
	db *sql.DB
}

// Open opens (creating if needed) the manifest database at path
func Open(ctx context.Context, path string) (*Manifest, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not create manifest table in %v: %w", path, err)
	}
	return &Manifest{db: db}, nil
}

// Close closes the database
func (m *Manifest) Close() error {
	return m.db.Close()
}

// RowsFromResults converts batch results into manifest rows
func RowsFromResults(runID string, t minhash.Template, results []*pipeline.UnitResult) []Row {
	rows := make([]Row, len(results))
	for i, r := range results {
		rows[i] = Row{
			RunID:            runID,
			InternalLocation: r.Output,
			SourceLocation:   r.Input,
			MD5:              r.MD5Sum,
			Ksize:            t.Ksize,
			Moltype:          t.HashFunction.String(),
			Scaled:           t.Scaled,
			NumHashes:        r.SizeAfter,
			NumRemoved:       r.Removed(),
			WithAbundance:    r.Abundance,
			Resolution:       r.Resolution.String(),
			Name:             r.Name,
		}
	}
	return rows
}

// Insert adds the rows in a single transaction, replacing any earlier rows for the same run and output
func (m *Manifest) Insert(ctx context.Context, rows []Row) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO sigsub_manifest(run_id, internal_location, source_location, md5, md5short,
		ksize, moltype, scaled, n_hashes, n_removed, with_abundance, resolution, name, created_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(run_id, internal_location)
		DO UPDATE SET md5=excluded.md5, md5short=excluded.md5short, n_hashes=excluded.n_hashes, n_removed=excluded.n_removed, created_at=CURRENT_TIMESTAMP`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, r := range rows {
		_, err := stmt.ExecContext(ctx, r.RunID, r.InternalLocation, r.SourceLocation, r.MD5, md5short(r.MD5),
			int64(r.Ksize), r.Moltype, int64(r.Scaled), r.NumHashes, r.NumRemoved, boolToInt(r.WithAbundance), r.Resolution, r.Name)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("could not record %v in manifest: %w", r.InternalLocation, err)
		}
	}
	return tx.Commit()
}

// Rows returns the manifest entries for a run, ordered by output location
func (m *Manifest) Rows(ctx context.Context, runID string) ([]Row, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT run_id, internal_location, source_location, md5, ksize, moltype, scaled,
		       n_hashes, n_removed, with_abundance, resolution, COALESCE(name, '')
		FROM sigsub_manifest
		WHERE run_id = ?
		ORDER BY internal_location`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Row
	for rows.Next() {
		var (
			r             Row
			ksize, scaled int64
		)
		err := rows.Scan(&r.RunID, &r.InternalLocation, &r.SourceLocation, &r.MD5, &ksize, &r.Moltype, &scaled,
			&r.NumHashes, &r.NumRemoved, &r.WithAbundance, &r.Resolution, &r.Name)
		if err != nil {
			return nil, err
		}
		r.Ksize, r.Scaled = uint32(ksize), uint64(scaled)
		entries = append(entries, r)
	}
	return entries, rows.Err()
}

// md5short is the first 8 characters of the checksum, as used by sourmash
func md5short(md5 string) string {
	if len(md5) > 8 {
		return md5[:8]
	}
	return md5
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
