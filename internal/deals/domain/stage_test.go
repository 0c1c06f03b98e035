package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStagesInDisplayOrder(t *testing.T) {
	want := []Stage{StageLead, StageDemo, StageTrial, StageNegotiation, StageClosed}
	require.Len(t, Stages, len(want))
	for i, info := range Stages {
		assert.Equal(t, want[i], info.ID)
	}
	assert.Equal(t, "Demo Scheduled", Label(StageDemo))
	assert.Equal(t, "Closed Won/Lost", Label(StageClosed))
	assert.False(t, IsKnownStage("won"))
}

func TestSummarizeAfterMove(t *testing.T) {
	items := []Item{
		{Stage: StageDemo, Value: 5000},
		{Stage: StageDemo, Value: 2500},
		{Stage: StageTrial, Value: 1000},
	}
	before := Summarize(items)
	assert.Equal(t, 2, before[1].Count)
	assert.Equal(t, 7500.0, before[1].TotalValue)

	items[0].Stage = StageNegotiation
	after := Summarize(items)
	assert.Equal(t, 1, after[1].Count)
	assert.Equal(t, 2500.0, after[1].TotalValue)
	assert.Equal(t, 1, after[3].Count)
	assert.Equal(t, 5000.0, after[3].TotalValue)

	assert.Equal(t, Totals{Count: 3, TotalValue: 8500}, Total(items))
}

func TestSummarizeIgnoresUnknownStages(t *testing.T) {
	out := Summarize([]Item{{Stage: "archived", Value: 10}})
	for _, s := range out {
		assert.Zero(t, s.Count)
	}
}

func TestConversions(t *testing.T) {
	stats := Conversions([]Item{
		{Value: 1000, Source: "Referral", Linked: true},
		{Value: 2000, Source: "Website", Linked: true},
		{Value: 500, Source: "Referral", Linked: true},
		{Value: 9999},
	})
	assert.Equal(t, 3, stats.TotalConverted)
	assert.Equal(t, 3500.0, stats.TotalRevenue)
	assert.Equal(t, 1167.0, stats.AvgDealSize)
	assert.Equal(t, map[string]SourceConversions{
		"Referral": {Count: 2, Revenue: 1500},
		"Website":  {Count: 1, Revenue: 2000},
	}, stats.ConversionsBySource)
}
