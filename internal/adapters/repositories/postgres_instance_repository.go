package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fleet-route-service/internal/domain"
	"fleet-route-service/internal/platform/obs"
	"fleet-route-service/internal/ports"
	"fmt"
)

// Postgres-backed implementation of the InstanceRepository port.
// When the travel table does not cover every node pair, Matrix builds
// the distances from node coordinates instead.
type PostgresInstanceRepository struct {
	DB     *sql.DB
	Matrix ports.DistanceMatrixProvider
}

func NewPostgresInstanceRepository(db *sql.DB, matrix ports.DistanceMatrixProvider) *PostgresInstanceRepository {
	return &PostgresInstanceRepository{DB: db, Matrix: matrix}
}

func (p *PostgresInstanceRepository) LoadInstance(ctx context.Context) (_ *domain.Instance, err error) {
	defer obs.Time(ctx, "instance.postgres.LoadInstance")(&err)

	if p.DB == nil {
		return nil, errors.New("postgres instance repository: DB is nil")
	}

	records, err := p.nodeRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("load instance: %w", err)
	}
	fleet, err := p.fleet(ctx)
	if err != nil {
		return nil, fmt.Errorf("load instance: %w", err)
	}
	distances, durations, err := p.travel(ctx, len(records))
	if err != nil {
		return nil, fmt.Errorf("load instance: %w", err)
	}

	instance, err := assembleInstance(ctx, records, distances, durations, fleet, p.Matrix)
	if err != nil {
		return nil, fmt.Errorf("load instance: %w", err)
	}
	return instance, nil
}

func (p *PostgresInstanceRepository) ListNodes(ctx context.Context) (_ []domain.Node, err error) {
	defer obs.Time(ctx, "instance.postgres.ListNodes")(&err)

	if p.DB == nil {
		return nil, errors.New("postgres instance repository: DB is nil")
	}

	records, err := p.nodeRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("list nodes: %w", err)
	}
	nodes := make([]domain.Node, 0, len(records))
	for _, r := range records {
		nodes = append(nodes, r.toDomain())
	}
	return nodes, nil
}

func (p *PostgresInstanceRepository) nodeRecords(ctx context.Context) ([]NodeRecord, error) {
	query := `
	SELECT
		node_id,
		lon,
		lat,
		demand_kg,
		demand_m3,
		service_seconds
	FROM nodes
	ORDER BY node_id;
	`
	rows, err := p.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query nodes table: %w", err)
	}
	defer rows.Close()

	records := make([]NodeRecord, 0, 64)
	for rows.Next() {
		var r NodeRecord
		if err := rows.Scan(&r.ID, &r.Lon, &r.Lat, &r.DemandKg, &r.DemandM3, &r.ServiceSeconds); err != nil {
			return nil, fmt.Errorf("scan node row: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("node row iteration: %w", err)
	}
	return records, nil
}

func (p *PostgresInstanceRepository) fleet(ctx context.Context) (FleetFile, error) {
	rows, err := p.DB.QueryContext(ctx, `
	SELECT class_id, capacity_kg, capacity_m3, fuel_rate, available
	FROM vehicle_classes
	ORDER BY class_id;
	`)
	if err != nil {
		return FleetFile{}, fmt.Errorf("query vehicle_classes table: %w", err)
	}
	defer rows.Close()

	var f FleetFile
	for rows.Next() {
		var c ClassRecord
		if err := rows.Scan(&c.ID, &c.CapacityKg, &c.CapacityM3, &c.FuelRate, &c.Available); err != nil {
			return FleetFile{}, fmt.Errorf("scan vehicle class row: %w", err)
		}
		f.Classes = append(f.Classes, c)
	}
	if err := rows.Err(); err != nil {
		return FleetFile{}, fmt.Errorf("vehicle class row iteration: %w", err)
	}

	err = p.DB.QueryRowContext(ctx, `SELECT value FROM settings WHERE name = 'fuel_price';`).Scan(&f.FuelPrice)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return FleetFile{}, fmt.Errorf("query fuel price: %w", err)
	}
	return f, nil
}

// travel returns nil matrices unless every ordered pair of the n nodes
// has a row.
func (p *PostgresInstanceRepository) travel(ctx context.Context, n int) ([][]float64, [][]float64, error) {
	rows, err := p.DB.QueryContext(ctx, `
	SELECT origin_id, destination_id, distance, duration_seconds
	FROM travel;
	`)
	if err != nil {
		return nil, nil, fmt.Errorf("query travel table: %w", err)
	}
	defer rows.Close()

	dist := make([][]float64, n)
	dur := make([][]float64, n)
	for i := range n {
		dist[i] = make([]float64, n)
		dur[i] = make([]float64, n)
	}

	count := 0
	for rows.Next() {
		var from, to int
		var d, s float64
		if err := rows.Scan(&from, &to, &d, &s); err != nil {
			return nil, nil, fmt.Errorf("scan travel row: %w", err)
		}
		if from < 0 || from >= n || to < 0 || to >= n || from == to {
			continue
		}
		dist[from][to], dur[from][to] = d, s
		count++
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("travel row iteration: %w", err)
	}

	if count < n*(n-1) {
		return nil, nil, nil
	}
	return dist, dur, nil
}
