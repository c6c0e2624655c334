package postgres

import (
	"context"
	"database/sql"
	"errors"

	topology "tariff-engine/internal/topology/domain"
)

// NodeRepository reads the metering hierarchy from postgres.
type NodeRepository struct {
	db *sql.DB
}

// NewNodeRepository constructs a repository.
func NewNodeRepository(db *sql.DB) *NodeRepository {
	return &NodeRepository{db: db}
}

// GetNode loads a node by path.
func (r *NodeRepository) GetNode(ctx context.Context, path string) (*topology.MeteringNode, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("node repo: nil db")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT id, name, path, level, metering_type
FROM metering_nodes
WHERE path = $1`, path)

	node, err := scanNode(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, topology.ErrNodeNotFound
		}
		return nil, err
	}
	if err := r.loadLinkedMeters(ctx, node); err != nil {
		return nil, err
	}
	return node, nil
}

// GetChildren lists the direct children of a path.
func (r *NodeRepository) GetChildren(ctx context.Context, path string) ([]topology.MeteringNode, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("node repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, path, level, metering_type
FROM metering_nodes
WHERE parent_path = $1
ORDER BY path`, path)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var children []topology.MeteringNode
	for rows.Next() {
		node, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		children = append(children, *node)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range children {
		if err := r.loadLinkedMeters(ctx, &children[i]); err != nil {
			return nil, err
		}
	}
	return children, nil
}

// GetLinkedMeterAddress resolves a meter id to its source address. An
// unknown meter returns an empty address with no error.
func (r *NodeRepository) GetLinkedMeterAddress(ctx context.Context, meterID string) (string, error) {
	if r == nil || r.db == nil {
		return "", errors.New("node repo: nil db")
	}
	var address sql.NullString
	err := r.db.QueryRowContext(ctx, `
SELECT source_address
FROM meters
WHERE id = $1`, meterID).Scan(&address)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return address.String, nil
}

func (r *NodeRepository) loadLinkedMeters(ctx context.Context, node *topology.MeteringNode) error {
	if node.MeteringType != topology.MeteringTypeMetered {
		return nil
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT meter_id, operation
FROM node_meter_links
WHERE node_id = $1
ORDER BY position`, node.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var link topology.LinkedMeter
		var operation string
		if err := rows.Scan(&link.MeterID, &operation); err != nil {
			return err
		}
		link.Operation = topology.MeterOperation(operation)
		node.LinkedMeters = append(node.LinkedMeters, link)
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNode(row rowScanner) (*topology.MeteringNode, error) {
	var node topology.MeteringNode
	var meteringType string
	if err := row.Scan(&node.ID, &node.Name, &node.Path, &node.Level, &meteringType); err != nil {
		return nil, err
	}
	node.MeteringType = topology.MeteringType(meteringType)
	return &node, nil
}
