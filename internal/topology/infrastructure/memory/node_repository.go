package memory

import (
	"context"
	"sync"

	topology "tariff-engine/internal/topology/domain"
)

// NodeRepository is an in-memory hierarchy for demo/testing.
type NodeRepository struct {
	mu        sync.RWMutex
	nodes     map[string]topology.MeteringNode
	children  map[string][]string
	addresses map[string]string
}

// NewNodeRepository constructs a repository.
func NewNodeRepository() *NodeRepository {
	return &NodeRepository{
		nodes:     make(map[string]topology.MeteringNode),
		children:  make(map[string][]string),
		addresses: make(map[string]string),
	}
}

// AddNode registers a node, optionally under a parent path.
func (r *NodeRepository) AddNode(node topology.MeteringNode, parentPath string) error {
	if err := node.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nodes[node.Path] = node
	if parentPath != "" {
		r.children[parentPath] = append(r.children[parentPath], node.Path)
	}
	return nil
}

// SetMeterAddress binds a meter id to its telemetry source address.
func (r *NodeRepository) SetMeterAddress(meterID, address string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.addresses[meterID] = address
}

// GetNode loads a node by path.
func (r *NodeRepository) GetNode(ctx context.Context, path string) (*topology.MeteringNode, error) {
	_ = ctx
	if path == "" {
		return nil, topology.ErrEmptyNodePath
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	node, ok := r.nodes[path]
	if !ok {
		return nil, topology.ErrNodeNotFound
	}
	return &node, nil
}

// GetChildren lists the direct children of a path.
func (r *NodeRepository) GetChildren(ctx context.Context, path string) ([]topology.MeteringNode, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	paths := r.children[path]
	result := make([]topology.MeteringNode, 0, len(paths))
	for _, childPath := range paths {
		if node, ok := r.nodes[childPath]; ok {
			result = append(result, node)
		}
	}
	return result, nil
}

// GetLinkedMeterAddress resolves a meter id; unknown meters return an
// empty address with no error.
func (r *NodeRepository) GetLinkedMeterAddress(ctx context.Context, meterID string) (string, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.addresses[meterID], nil
}
