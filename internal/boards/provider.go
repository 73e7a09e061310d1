package boards

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"insight-workers/internal/common/logger"
	"insight-workers/internal/common/metrics"
	"insight-workers/internal/insights"
	"insight-workers/internal/models"
)

// Boards holds both boards as fetched.
type Boards struct {
	WorkOrders *models.RawTable `json:"workOrders"`
	Deals      *models.RawTable `json:"deals"`
}

// Tables returns the cleaned work-order and deal tables.
func (b *Boards) Tables() (*models.Table, *models.Table) {
	return insights.CleanWorkOrders(b.WorkOrders), insights.CleanDeals(b.Deals)
}

// IsEmpty reports whether either board has no rows.
func (b *Boards) IsEmpty() bool {
	return b.WorkOrders.IsEmpty() || b.Deals.IsEmpty()
}

// Provider loads the work-order and deal boards from one Source.
type Provider struct {
	source       Source
	workOrdersID string
	dealsID      string
	log          logger.Logger
}

func NewProvider(source Source, workOrdersID, dealsID string, log logger.Logger) *Provider {
	return &Provider{
		source:       source,
		workOrdersID: workOrdersID,
		dealsID:      dealsID,
		log:          log.With(map[string]interface{}{"component": "board-provider", "source": source.Name()}),
	}
}

// Load fetches both boards concurrently. A board that fails to load is
// logged and replaced by an empty table.
func (p *Provider) Load(ctx context.Context) *Boards {
	b, errs := p.fetchBoth(ctx)
	for id, err := range errs {
		p.log.Error("Board fetch failed, continuing with empty board", map[string]interface{}{
			"boardId": id,
			"error":   err.Error(),
		})
	}
	if b.WorkOrders == nil {
		b.WorkOrders = models.NewRawTable(p.workOrdersID)
	}
	if b.Deals == nil {
		b.Deals = models.NewRawTable(p.dealsID)
	}
	return b
}

// LoadStrict is Load for callers that retry: the first failure is returned.
func (p *Provider) LoadStrict(ctx context.Context) (*Boards, error) {
	b, errs := p.fetchBoth(ctx)
	if err, ok := errs[p.workOrdersID]; ok {
		return nil, err
	}
	if err, ok := errs[p.dealsID]; ok {
		return nil, err
	}
	return b, nil
}

func (p *Provider) fetchBoth(ctx context.Context) (*Boards, map[string]error) {
	var (
		b        Boards
		workErr  error
		dealsErr error
	)
	g, groupCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b.WorkOrders, workErr = p.source.Fetch(groupCtx, p.workOrdersID)
		return nil
	})
	g.Go(func() error {
		b.Deals, dealsErr = p.source.Fetch(groupCtx, p.dealsID)
		return nil
	})
	_ = g.Wait()

	errs := make(map[string]error)
	if workErr != nil {
		errs[p.workOrdersID] = workErr
	}
	if dealsErr != nil {
		errs[p.dealsID] = dealsErr
	}
	return &b, errs
}

// Invalidate drops cached copies of both boards when the source caches.
func (p *Provider) Invalidate(ctx context.Context) error {
	if inv, ok := p.source.(Invalidator); ok {
		return inv.Invalidate(ctx, p.workOrdersID, p.dealsID)
	}
	return nil
}

// instrumented records a span and fetch metrics around every call.
type instrumented struct {
	Source
}

// Instrument wraps s with tracing and Prometheus timing.
func Instrument(s Source) Source {
	return &instrumented{Source: s}
}

func (s *instrumented) Fetch(ctx context.Context, boardID string) (*models.RawTable, error) {
	ctx, span := otel.Tracer("insight-workers/boards").Start(ctx, "boards.fetch")
	span.SetAttributes(
		attribute.String("board.id", boardID),
		attribute.String("board.source", s.Source.Name()),
	)
	defer span.End()

	start := time.Now()
	table, err := s.Source.Fetch(ctx, boardID)
	result := "ok"
	if err != nil {
		result = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(attribute.Int("board.rows", table.Len()))
	}
	metrics.BoardFetchDuration.WithLabelValues(s.Source.Name(), result).Observe(time.Since(start).Seconds())
	return table, err
}

func (s *instrumented) Invalidate(ctx context.Context, boardIDs ...string) error {
	if inv, ok := s.Source.(Invalidator); ok {
		return inv.Invalidate(ctx, boardIDs...)
	}
	return nil
}
