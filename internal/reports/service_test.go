package reports

import (
	"context"
	"errors"
	"testing"
	"time"

	leaddomain "crm_backend/internal/leads/domain"
	"crm_backend/platform/apperr"
	"crm_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	totals   LeadTotals
	sources  []leaddomain.SourceSample
	deals    []DealSample
	overdue  int
	dealsErr error
	sawNow   time.Time
}

func (f *fakeStore) LeadTotals(context.Context) (LeadTotals, error) { return f.totals, nil }

func (f *fakeStore) LeadSources(context.Context) ([]leaddomain.SourceSample, error) {
	return f.sources, nil
}

func (f *fakeStore) Deals(context.Context) ([]DealSample, error) { return f.deals, f.dealsErr }

func (f *fakeStore) CountOverdueTasks(_ context.Context, now time.Time) (int, error) {
	f.sawNow = now
	return f.overdue, nil
}

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
	return &t
}

func newDashboardFixture() (*fakeStore, uuid.UUID, uuid.UUID) {
	alice, bob := uuid.New(), uuid.New()
	return &fakeStore{
		totals: LeadTotals{Total: 4, Qualified: 1, Converted: 1, ScoreSum: 92 + 54 + 70 + 81},
		sources: []leaddomain.SourceSample{
			{Source: "Website", Score: 92, Status: leaddomain.StatusQualified},
			{Source: "Website", Score: 54, Status: leaddomain.StatusNew},
			{Source: "", Score: 70, Status: leaddomain.StatusNurturing},
		},
		deals: []DealSample{
			{Stage: "closed", Value: 1000, Probability: 100, ExpectedCloseDate: day(2025, 6, 10), AssignedTo: &alice, AssignedToName: "Alice"},
			{Stage: "closed", Value: 500, Probability: 100, ExpectedCloseDate: day(2025, 1, 20), AssignedTo: &alice, AssignedToName: "Alice"},
			{Stage: "demo", Value: 2000, Probability: 50, ExpectedCloseDate: day(2025, 8, 1), AssignedTo: &bob, AssignedToName: "Bob"},
			{Stage: "negotiation", Value: 4000, Probability: 25, ExpectedCloseDate: day(2025, 12, 31)},
			{Stage: "closed", Value: 300, Probability: 100, ExpectedCloseDate: day(2024, 12, 1)},
			{Stage: "trial", Value: 700, Probability: 10, ExpectedCloseDate: day(2025, 5, 1), AssignedTo: &bob, AssignedToName: "Bob"},
		},
		overdue: 3,
	}, alice, bob
}

func TestDashboardAggregates(t *testing.T) {
	store, alice, _ := newDashboardFixture()
	svc := NewService(store, logger.Discard())
	now := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	got, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, LeadSummary{TotalLeads: 4, QualifiedLeads: 1, AvgLeadScore: 74, ConversionRate: 25}, got.Leads)
	assert.Equal(t, DealSummary{TotalDeals: 6, TotalValue: 8500, WinRate: 50, AvgDealSize: 1417}, got.Deals)
	assert.Equal(t, 3, got.OverdueTasks)
	assert.True(t, store.sawNow.Equal(now))

	require.Len(t, got.Pipeline, 5)
	assert.Equal(t, PipelineStage{Stage: "lead", Label: "Lead", Count: 0, TotalValue: 0}, got.Pipeline[0])
	assert.Equal(t, 3, got.Pipeline[4].Count)
	assert.Equal(t, 1800.0, got.Pipeline[4].TotalValue)

	require.Len(t, got.Sources, 2)
	assert.Equal(t, leaddomain.SourceStats{Source: "Website", Count: 2, Qualified: 1, AvgScore: 73, ConversionRate: 50}, got.Sources[0])
	assert.Equal(t, leaddomain.UnknownSource, got.Sources[1].Source)

	require.Len(t, got.Team, 3)
	assert.Equal(t, "Alice", got.Team[0].Name)
	assert.Equal(t, &alice, got.Team[0].MemberID)
	assert.Equal(t, 1500.0, got.Team[0].Revenue)
	assert.Equal(t, 100, got.Team[0].WinRate)
	assert.Equal(t, unassigned, got.Team[1].Name)
	assert.Equal(t, 50, got.Team[1].WinRate)
	assert.Equal(t, "Bob", got.Team[2].Name)
	assert.Equal(t, 0, got.Team[2].WinRate)
}

func TestRevenueTimelineSplitsActualAndForecast(t *testing.T) {
	store, _, _ := newDashboardFixture()
	now := time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)

	months := revenueTimeline(store.deals, now)
	require.Len(t, months, 12)

	assert.Equal(t, "2025-01", months[0].Month)
	assert.Equal(t, "Jan 25", months[0].Label)
	assert.Equal(t, 500.0, months[0].Amount)
	assert.False(t, months[0].Forecast)

	// Open deal closing in May is in the past: not counted.
	assert.Equal(t, 0.0, months[4].Amount)

	assert.Equal(t, "2025-06", months[5].Month)
	assert.Equal(t, 1000.0, months[5].Amount)
	assert.False(t, months[5].Forecast)

	assert.Equal(t, "2025-08", months[7].Month)
	assert.True(t, months[7].Forecast)
	assert.Equal(t, 1000.0, months[7].Amount)

	assert.Equal(t, "2025-12", months[11].Month)
	assert.Equal(t, 1000.0, months[11].Amount)
}

func TestDashboardEmptyStoreHasZeroRates(t *testing.T) {
	svc := NewService(&fakeStore{}, logger.Discard())

	got, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Zero(t, got.Leads.ConversionRate)
	assert.Zero(t, got.Leads.AvgLeadScore)
	assert.Zero(t, got.Deals.WinRate)
	assert.Zero(t, got.Deals.AvgDealSize)
	assert.Len(t, got.Pipeline, 5)
	assert.Empty(t, got.Team)
}

func TestDashboardStoreFailureIsExternal(t *testing.T) {
	svc := NewService(&fakeStore{dealsErr: errors.New("connection reset")}, logger.Discard())

	_, err := svc.Dashboard(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperr.KindExternal, apperr.GetKind(err))
}
