package topology

import "errors"

var (
	// ErrEmptyNodeID is returned when a node id is empty.
	ErrEmptyNodeID = errors.New("topology: empty node id")
	// ErrEmptyNodePath is returned when a node path is empty.
	ErrEmptyNodePath = errors.New("topology: empty node path")
	// ErrInvalidMeteringType is returned for an unknown metering type.
	ErrInvalidMeteringType = errors.New("topology: invalid metering type")
	// ErrNodeNotFound is returned when a node path has no node.
	ErrNodeNotFound = errors.New("topology: node not found")
	// ErrHierarchyCycle is returned when a summation descendant loops back
	// to one of its ancestors.
	ErrHierarchyCycle = errors.New("topology: hierarchy cycle")
)
