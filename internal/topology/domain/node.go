package topology

// MeteringType describes how a node's quantities are obtained.
type MeteringType string

const (
	// MeteringTypeMetered reads from one or more physical meters combined
	// with add/subtract operations.
	MeteringTypeMetered MeteringType = "metered"
	// MeteringTypeSummation aggregates all child nodes recursively.
	MeteringTypeSummation MeteringType = "summation"
	// MeteringTypeManual uses periodic human-entered readings.
	MeteringTypeManual MeteringType = "manual"
)

// IsValid reports whether the metering type is a known value.
func (t MeteringType) IsValid() bool {
	switch t {
	case MeteringTypeMetered, MeteringTypeSummation, MeteringTypeManual:
		return true
	}
	return false
}

// MeterOperation is the contribution direction of a linked meter.
type MeterOperation string

const (
	MeterOperationAdd      MeterOperation = "add"
	MeterOperationSubtract MeterOperation = "subtract"
)

// LinkedMeter ties a metered node to a physical meter.
type LinkedMeter struct {
	MeterID   string
	Operation MeterOperation
}

// MeteringNode is one node of the site metering hierarchy. Children are
// not embedded; they are discovered by path through the repository.
type MeteringNode struct {
	ID           string
	Name         string
	Path         string
	Level        int
	MeteringType MeteringType
	LinkedMeters []LinkedMeter
}

// Validate checks node invariants.
func (n MeteringNode) Validate() error {
	if n.ID == "" {
		return ErrEmptyNodeID
	}
	if n.Path == "" {
		return ErrEmptyNodePath
	}
	if !n.MeteringType.IsValid() {
		return ErrInvalidMeteringType
	}
	return nil
}
