package reports

import (
	"context"
	"math"
	"time"

	leaddomain "crm_backend/internal/leads/domain"
	"crm_backend/platform/apperr"
	"crm_backend/platform/logger"

	"golang.org/x/sync/errgroup"
)

type Service struct {
	store Store
	log   *logger.Logger
	now   func() time.Time
}

func NewService(store Store, log *logger.Logger) *Service {
	return &Service{store: store, log: log, now: time.Now}
}

// Dashboard loads every dashboard input concurrently and aggregates them.
func (s *Service) Dashboard(ctx context.Context) (DashboardResponse, error) {
	const op = "reports.dashboard"
	now := s.now()

	var (
		totals  LeadTotals
		sources []leaddomain.SourceSample
		deals   []DealSample
		overdue int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		totals, err = s.store.LeadTotals(gctx)
		return err
	})
	g.Go(func() (err error) {
		sources, err = s.store.LeadSources(gctx)
		return err
	})
	g.Go(func() (err error) {
		deals, err = s.store.Deals(gctx)
		return err
	})
	g.Go(func() (err error) {
		overdue, err = s.store.CountOverdueTasks(gctx, now)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.DatabaseError(op, err)
		return DashboardResponse{}, apperr.ExternalCall(op, err)
	}

	return DashboardResponse{
		Leads:        leadSummary(totals),
		Deals:        dealTotals(deals),
		Pipeline:     pipeline(deals),
		Revenue:      revenueTimeline(deals, now),
		Team:         teamPerformance(deals),
		Sources:      leaddomain.SummarizeSources(sources),
		OverdueTasks: overdue,
	}, nil
}

func leadSummary(t LeadTotals) LeadSummary {
	sum := LeadSummary{
		TotalLeads:     t.Total,
		QualifiedLeads: t.Qualified,
		ConversionRate: percent(t.Converted, t.Total),
	}
	if t.Total > 0 {
		sum.AvgLeadScore = int(math.Round(float64(t.ScoreSum) / float64(t.Total)))
	}
	return sum
}
