package repositories

import (
	"database/sql"
	"errors"
	"fleet-route-service/internal/adapters/distance"
	"fmt"
)

// Initialize the Postgres database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createNodesQuery := `
	CREATE TABLE IF NOT EXISTS nodes (
		node_id INTEGER PRIMARY KEY,
		lon DOUBLE PRECISION NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		demand_kg DOUBLE PRECISION NOT NULL CHECK (demand_kg >= 0),
		demand_m3 DOUBLE PRECISION NOT NULL CHECK (demand_m3 >= 0),
		service_seconds DOUBLE PRECISION NOT NULL DEFAULT 0
	);
	`

	createTravelQuery := `
	CREATE TABLE IF NOT EXISTS travel (
		origin_id INTEGER NOT NULL REFERENCES nodes(node_id) ON DELETE CASCADE,
		destination_id INTEGER NOT NULL REFERENCES nodes(node_id) ON DELETE CASCADE,
		distance DOUBLE PRECISION NOT NULL CHECK (distance >= 0),
		duration_seconds DOUBLE PRECISION NOT NULL DEFAULT 0,
		PRIMARY KEY (origin_id, destination_id)
	);
	`

	createVehicleClassesQuery := `
	CREATE TABLE IF NOT EXISTS vehicle_classes (
		class_id TEXT PRIMARY KEY,
		capacity_kg DOUBLE PRECISION NOT NULL,
		capacity_m3 DOUBLE PRECISION NOT NULL,
		fuel_rate DOUBLE PRECISION NOT NULL,
		available INTEGER NOT NULL
	);
	`

	createSettingsQuery := `
	CREATE TABLE IF NOT EXISTS settings (
		name TEXT PRIMARY KEY,
		value DOUBLE PRECISION NOT NULL
	);
	`

	createDistanceCacheQuery := `
	CREATE TABLE IF NOT EXISTS distance_cache (
		origin TEXT NOT NULL,
		destination TEXT NOT NULL,
		distance DOUBLE PRECISION NOT NULL,
		duration_seconds DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (origin, destination)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_distance_cache_destination_origin
	ON distance_cache(destination, origin);
	`

	statements := []string{
		createNodesQuery,
		createTravelQuery,
		createVehicleClassesQuery,
		createSettingsQuery,
		createDistanceCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Populate the database from a JSON instance file and a YAML fleet file.
// Existing rows are replaced.
func SeedFromFiles(db *sql.DB, instancePath, fleetPath string) error {
	if db == nil {
		return errors.New("seed: DB is nil")
	}

	inst, err := ReadInstanceFile(instancePath)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	fleet, err := ReadFleetFile(fleetPath)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	// Reject bad data before touching the database.
	if _, err := fleet.toDomain(); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if inst.Distances != nil {
		if _, err := distance.NewDenseMatrix(inst.Distances, inst.Durations); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, q := range []string{"DELETE FROM travel;", "DELETE FROM nodes;", "DELETE FROM vehicle_classes;"} {
		if _, err := tx.Exec(q); err != nil {
			return fmt.Errorf("seed: clear tables: %w", err)
		}
	}

	nodeStmt, err := tx.Prepare(`
	INSERT INTO nodes (node_id, lon, lat, demand_kg, demand_m3, service_seconds)
	VALUES ($1, $2, $3, $4, $5, $6);
	`)
	if err != nil {
		return fmt.Errorf("seed: prepare node insert: %w", err)
	}
	defer nodeStmt.Close()

	for _, n := range inst.Nodes {
		if _, err := nodeStmt.Exec(n.ID, n.Lon, n.Lat, n.DemandKg, n.DemandM3, n.ServiceSeconds); err != nil {
			return fmt.Errorf("seed: insert node_id=%d: %w", n.ID, err)
		}
	}

	if inst.Distances != nil {
		travelStmt, err := tx.Prepare(`
		INSERT INTO travel (origin_id, destination_id, distance, duration_seconds)
		VALUES ($1, $2, $3, $4);
		`)
		if err != nil {
			return fmt.Errorf("seed: prepare travel insert: %w", err)
		}
		defer travelStmt.Close()

		for i, row := range inst.Distances {
			for j, d := range row {
				if i == j {
					continue
				}
				dur := 0.0
				if inst.Durations != nil {
					dur = inst.Durations[i][j]
				}
				if _, err := travelStmt.Exec(i, j, d, dur); err != nil {
					return fmt.Errorf("seed: insert travel %d->%d: %w", i, j, err)
				}
			}
		}
	}

	classStmt, err := tx.Prepare(`
	INSERT INTO vehicle_classes (class_id, capacity_kg, capacity_m3, fuel_rate, available)
	VALUES ($1, $2, $3, $4, $5);
	`)
	if err != nil {
		return fmt.Errorf("seed: prepare class insert: %w", err)
	}
	defer classStmt.Close()

	for _, c := range fleet.Classes {
		if _, err := classStmt.Exec(c.ID, c.CapacityKg, c.CapacityM3, c.FuelRate, c.Available); err != nil {
			return fmt.Errorf("seed: insert class %q: %w", c.ID, err)
		}
	}

	if _, err := tx.Exec(`
	INSERT INTO settings (name, value) VALUES ('fuel_price', $1)
	ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value;
	`, fleet.FuelPrice); err != nil {
		return fmt.Errorf("seed: store fuel price: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed: commit tx: %w", err)
	}

	return nil
}
