package topology

import "context"

// NodeRepository reads the metering hierarchy.
type NodeRepository interface {
	GetNode(ctx context.Context, path string) (*MeteringNode, error)
	GetChildren(ctx context.Context, path string) ([]MeteringNode, error)
	// GetLinkedMeterAddress resolves a meter id to its telemetry source
	// address. An empty address with nil error means the meter identity is
	// unknown; callers skip that meter's contribution.
	GetLinkedMeterAddress(ctx context.Context, meterID string) (string, error)
}
