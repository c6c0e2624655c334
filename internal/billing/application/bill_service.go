package application

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	billing "tariff-engine/internal/billing/domain"
	"tariff-engine/internal/observability/metrics"
	telemetry "tariff-engine/internal/telemetry/domain"
)

// SampleResolver produces the telemetry samples for a hierarchy node.
type SampleResolver interface {
	ResolvePath(ctx context.Context, path string, start, end time.Time) ([]telemetry.Sample, error)
}

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock uses time.Now.
type SystemClock struct{}

// Now returns current time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// Computation is one full bill evaluation with every intermediate stage
// kept inspectable.
type Computation struct {
	ID         string
	NodePath   string
	Start      time.Time
	End        time.Time
	ComputedAt time.Time

	Mature       bool
	Currency     string
	RateSetMonth string
	Quantities   billing.Quantities
	Evaluation   billing.Evaluation
	Bill         billing.AssembledBill
}

// BillService is the top-level entry point: it resolves a node's samples,
// aggregates them, applies the maturity gate, evaluates the tariff, and
// assembles the itemized bill.
type BillService struct {
	resolver SampleResolver
	config   billing.ConfigurationRepository
	rates    billing.RateRepository
	clock    Clock
	logger   *log.Logger
	currency string
}

// BillServiceOption configures the service.
type BillServiceOption func(*BillService)

// WithClock overrides the clock.
func WithClock(clock Clock) BillServiceOption {
	return func(s *BillService) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLogger sets a logger.
func WithLogger(logger *log.Logger) BillServiceOption {
	return func(s *BillService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCurrency sets the display currency stamped on computations.
func WithCurrency(currency string) BillServiceOption {
	return func(s *BillService) {
		if currency != "" {
			s.currency = currency
		}
	}
}

// NewBillService constructs the service.
func NewBillService(resolver SampleResolver, config billing.ConfigurationRepository, rates billing.RateRepository, opts ...BillServiceOption) (*BillService, error) {
	if resolver == nil {
		return nil, errors.New("bill service: nil resolver")
	}
	if config == nil {
		return nil, errors.New("bill service: nil configuration repository")
	}
	if rates == nil {
		return nil, errors.New("bill service: nil rate repository")
	}
	s := &BillService{resolver: resolver, config: config, rates: rates, clock: SystemClock{}}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ComputeBill evaluates the tariff for one node over [start, end]. Store
// failures propagate unchanged; configuration gaps never fail the
// computation.
func (s *BillService) ComputeBill(ctx context.Context, nodePath string, start, end time.Time) (*Computation, error) {
	began := time.Now()
	computation, err := s.compute(ctx, nodePath, start, end)
	if err != nil {
		metrics.ObserveCompute(metrics.ResultError, time.Since(began))
		return nil, err
	}
	metrics.ObserveCompute(metrics.ResultSuccess, time.Since(began))
	return computation, nil
}

func (s *BillService) compute(ctx context.Context, nodePath string, start, end time.Time) (*Computation, error) {
	samples, err := s.resolver.ResolvePath(ctx, nodePath, start, end)
	if err != nil {
		return nil, err
	}
	metrics.ObserveResolvedSamples(len(samples))

	mappings, err := s.config.ListSignalMappings(ctx)
	if err != nil {
		return nil, err
	}
	components, err := s.config.ListComponents(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.config.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	month := start.UTC().Format("2006-01")
	rateSet, err := s.rates.LatestForMonth(ctx, month)
	if err != nil {
		if !errors.Is(err, billing.ErrRateSetNotFound) {
			return nil, err
		}
		// No committed rates for the month is a configuration gap: every
		// rate reads as 0.
		if s.logger != nil {
			s.logger.Printf("bill service: no rate set committed for %s", month)
		}
		rateSet = billing.RateSet{Month: month}
	}

	quantities := billing.Aggregate(samples, mappings, components)
	quantities = billing.ApplyMaturityGate(quantities, components, start, end)
	evaluation := billing.Evaluate(components, rateSet, quantities)
	bill := billing.Assemble(categories, components, evaluation)

	return &Computation{
		ID:           uuid.NewString(),
		NodePath:     nodePath,
		Start:        start,
		End:          end,
		ComputedAt:   s.clock.Now(),
		Mature:       billing.IsMature(start, end),
		Currency:     s.currency,
		RateSetMonth: month,
		Quantities:   quantities,
		Evaluation:   evaluation,
		Bill:         bill,
	}, nil
}
