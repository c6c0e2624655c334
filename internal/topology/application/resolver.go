package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"tariff-engine/internal/observability/metrics"
	telemetry "tariff-engine/internal/telemetry/domain"
	topology "tariff-engine/internal/topology/domain"
)

const defaultFanOutLimit = 8

// Resolver walks a metering hierarchy node and produces the flat list of
// telemetry samples belonging to it. Summation nodes recurse over their
// children; metered nodes read their linked meters; manual nodes read
// human-entered readings.
type Resolver struct {
	nodes  topology.NodeRepository
	query  telemetry.SampleQuery
	manual telemetry.ManualEntryQuery
	fanOut int
	logger *log.Logger
}

// ResolverOption configures the resolver.
type ResolverOption func(*Resolver)

// WithFanOutLimit bounds how many sibling subtrees resolve concurrently.
func WithFanOutLimit(limit int) ResolverOption {
	return func(r *Resolver) {
		if limit > 0 {
			r.fanOut = limit
		}
	}
}

// WithLogger sets a logger for skipped-meter reporting.
func WithLogger(logger *log.Logger) ResolverOption {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver constructs a resolver.
func NewResolver(nodes topology.NodeRepository, query telemetry.SampleQuery, manual telemetry.ManualEntryQuery, opts ...ResolverOption) (*Resolver, error) {
	if nodes == nil {
		return nil, errors.New("resolver: nil node repository")
	}
	if query == nil {
		return nil, errors.New("resolver: nil sample query")
	}
	if manual == nil {
		return nil, errors.New("resolver: nil manual entry query")
	}
	r := &Resolver{nodes: nodes, query: query, manual: manual, fanOut: defaultFanOutLimit}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Resolve returns every sample contributing to the node over [start, end].
// Resolution is all-or-nothing: any store failure below a summation node
// fails the whole call, never a partial sample set.
func (r *Resolver) Resolve(ctx context.Context, node topology.MeteringNode, start, end time.Time) ([]telemetry.Sample, error) {
	if err := node.Validate(); err != nil {
		return nil, err
	}
	return r.resolve(ctx, node, start, end, nil)
}

// ResolvePath loads the node at path first, then resolves it.
func (r *Resolver) ResolvePath(ctx context.Context, path string, start, end time.Time) ([]telemetry.Sample, error) {
	node, err := r.nodes.GetNode(ctx, path)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, topology.ErrNodeNotFound
	}
	return r.Resolve(ctx, *node, start, end)
}

func (r *Resolver) resolve(ctx context.Context, node topology.MeteringNode, start, end time.Time, ancestors []string) ([]telemetry.Sample, error) {
	for _, path := range ancestors {
		if path == node.Path {
			return nil, fmt.Errorf("%w: %s", topology.ErrHierarchyCycle, node.Path)
		}
	}

	switch node.MeteringType {
	case topology.MeteringTypeMetered:
		return r.resolveMetered(ctx, node, start, end)
	case topology.MeteringTypeSummation:
		return r.resolveSummation(ctx, node, start, end, ancestors)
	case topology.MeteringTypeManual:
		return r.resolveManual(ctx, node, start, end)
	default:
		return nil, topology.ErrInvalidMeteringType
	}
}

func (r *Resolver) resolveMetered(ctx context.Context, node topology.MeteringNode, start, end time.Time) ([]telemetry.Sample, error) {
	var out []telemetry.Sample
	for _, link := range node.LinkedMeters {
		address, err := r.nodes.GetLinkedMeterAddress(ctx, link.MeterID)
		if err != nil {
			return nil, err
		}
		if address == "" {
			// Unknown meter identity contributes nothing; sibling meters
			// still resolve.
			if r.logger != nil {
				r.logger.Printf("resolver: no address for meter %s on node %s, skipping", link.MeterID, node.Path)
			}
			metrics.IncSkippedMeter()
			continue
		}
		samples, err := r.query.QuerySamples(ctx, address, start, end)
		if err != nil {
			return nil, err
		}
		sign := telemetry.SignAdd
		if link.Operation == topology.MeterOperationSubtract {
			sign = telemetry.SignSubtract
		}
		for i := range samples {
			samples[i].Sign = sign
		}
		out = append(out, samples...)
	}
	return out, nil
}

func (r *Resolver) resolveSummation(ctx context.Context, node topology.MeteringNode, start, end time.Time, ancestors []string) ([]telemetry.Sample, error) {
	children, err := r.nodes.GetChildren(ctx, node.Path)
	if err != nil {
		return nil, err
	}
	if len(children) == 0 {
		return nil, nil
	}

	chain := make([]string, len(ancestors), len(ancestors)+1)
	copy(chain, ancestors)
	chain = append(chain, node.Path)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(r.fanOut)
	results := make([][]telemetry.Sample, len(children))
	for i, child := range children {
		i, child := i, child
		group.Go(func() error {
			samples, err := r.resolve(groupCtx, child, start, end, chain)
			if err != nil {
				return err
			}
			results[i] = samples
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	var out []telemetry.Sample
	for _, samples := range results {
		out = append(out, samples...)
	}
	return out, nil
}

func (r *Resolver) resolveManual(ctx context.Context, node topology.MeteringNode, start, end time.Time) ([]telemetry.Sample, error) {
	entries, err := r.manual.QueryManualEntries(ctx, node.ID, start, end)
	if err != nil {
		return nil, err
	}
	samples := make([]telemetry.Sample, 0, len(entries))
	for _, entry := range entries {
		samples = append(samples, telemetry.Sample{
			Timestamp: entry.Timestamp,
			Fields:    entry.Readings,
			Sign:      telemetry.SignAdd,
		})
	}
	return samples, nil
}
