// Package columnstore is the upstream data-source collaborator: a sqlite
// snapshot of per-column connectivity records and the known hex-coordinate
// universe per region and side. The rendering engine consumes it through the
// eyemap.ColumnSource interface and never touches SQL itself.
package columnstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"

	"github.com/floesche/eyemap.report/internal/eyemap"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store wraps the sqlite snapshot database.
type Store struct {
	*sql.DB
}

// Open opens (creating if needed) the snapshot database at path and brings
// the schema up to date.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	s := &Store{db}
	if err := s.migrateUp(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// migrateUp applies all pending embedded migrations.
func (s *Store) migrateUp() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}
	driver, err := migratesqlite.WithInstance(s.DB, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("migration driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("build migrator: %w", err)
	}
	// Note: we don't close m because it would close the underlying DB
	// connection.
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// ColumnRecords returns the raw column records for a neuron type, in the map
// form the validator expects.
func (s *Store) ColumnRecords(ctx context.Context, neuronType string) ([]map[string]any, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT column_id, region, side, hex1, hex2, total_synapses, neuron_count, status
		FROM columns
		WHERE neuron_type = ?
		ORDER BY region, side, hex1, hex2`, neuronType)
	if err != nil {
		return nil, fmt.Errorf("query columns for %q: %w", neuronType, err)
	}
	defer rows.Close()

	var records []map[string]any
	var ids []int64
	for rows.Next() {
		var (
			id                           int64
			region, side, status         string
			hex1, hex2, synapses, neurons int
		)
		if err := rows.Scan(&id, &region, &side, &hex1, &hex2, &synapses, &neurons, &status); err != nil {
			return nil, fmt.Errorf("scan column row: %w", err)
		}
		records = append(records, map[string]any{
			"hex1":           hex1,
			"hex2":           hex2,
			"region":         region,
			"side":           side,
			"total_synapses": synapses,
			"neuron_count":   neurons,
			"status":         status,
		})
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate column rows: %w", err)
	}

	for i, id := range ids {
		layers, err := s.layersFor(ctx, id)
		if err != nil {
			return nil, err
		}
		if len(layers) > 0 {
			records[i]["layers"] = layers
		}
	}
	return records, nil
}

func (s *Store) layersFor(ctx context.Context, columnID int64) ([]map[string]any, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT layer_index, synapse_count, neuron_count, value
		FROM column_layers
		WHERE column_id = ?
		ORDER BY layer_index`, columnID)
	if err != nil {
		return nil, fmt.Errorf("query layers for column %d: %w", columnID, err)
	}
	defer rows.Close()

	var layers []map[string]any
	for rows.Next() {
		var (
			idx, synapses, neurons int
			value                  float64
		)
		if err := rows.Scan(&idx, &synapses, &neurons, &value); err != nil {
			return nil, fmt.Errorf("scan layer row: %w", err)
		}
		layers = append(layers, map[string]any{
			"layer_index":   idx,
			"synapse_count": synapses,
			"neuron_count":  neurons,
			"value":         value,
		})
	}
	return layers, rows.Err()
}

// HexUniverse returns every known hex coordinate for a region and side.
func (s *Store) HexUniverse(ctx context.Context, region, side string) ([]eyemap.ColumnCoordinate, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT hex1, hex2 FROM hex_universe
		WHERE region = ? AND side = ?
		ORDER BY hex1, hex2`, region, side)
	if err != nil {
		return nil, fmt.Errorf("query hex universe %s/%s: %w", region, side, err)
	}
	defer rows.Close()

	var coords []eyemap.ColumnCoordinate
	for rows.Next() {
		c := eyemap.ColumnCoordinate{Region: region}
		if err := rows.Scan(&c.Hex1, &c.Hex2); err != nil {
			return nil, fmt.Errorf("scan universe row: %w", err)
		}
		coords = append(coords, c)
	}
	return coords, rows.Err()
}

// InsertColumn stores one column record with its layers. Used by the snapshot
// importer and by tests.
func (s *Store) InsertColumn(ctx context.Context, neuronType string, col eyemap.ColumnData) error {
	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO columns (neuron_type, region, side, hex1, hex2, total_synapses, neuron_count, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		neuronType, col.Region, col.Side, col.Coordinate.Hex1, col.Coordinate.Hex2,
		col.TotalSynapses, col.NeuronCount, string(col.Status))
	if err != nil {
		return fmt.Errorf("insert column %s: %w", col.Coordinate, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("column id: %w", err)
	}
	for _, l := range col.Layers {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO column_layers (column_id, layer_index, synapse_count, neuron_count, value)
			VALUES (?, ?, ?, ?, ?)`,
			id, l.LayerIndex, l.SynapseCount, l.NeuronCount, l.Value); err != nil {
			return fmt.Errorf("insert layer %d of column %s: %w", l.LayerIndex, col.Coordinate, err)
		}
	}
	return tx.Commit()
}

// InsertUniverse stores hex coordinates into the universe table, ignoring
// coordinates already present.
func (s *Store) InsertUniverse(ctx context.Context, region, side string, coords []eyemap.ColumnCoordinate) error {
	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}
	defer tx.Rollback()

	for _, c := range coords {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO hex_universe (region, side, hex1, hex2)
			VALUES (?, ?, ?, ?)`, region, side, c.Hex1, c.Hex2); err != nil {
			return fmt.Errorf("insert universe coord %s: %w", c, err)
		}
	}
	return tx.Commit()
}
