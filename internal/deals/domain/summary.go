package domain

import "math"

// Item is the part of a deal the aggregates need.
type Item struct {
	Stage  Stage
	Value  float64
	Source string
	Linked bool // created from a lead
}

type StageSummary struct {
	Stage      Stage
	Label      string
	Count      int
	TotalValue float64
}

// Summarize returns one summary per stage in display order. Items in
// unknown stages are ignored.
func Summarize(items []Item) []StageSummary {
	index := make(map[Stage]int, len(Stages))
	out := make([]StageSummary, len(Stages))
	for i, info := range Stages {
		out[i] = StageSummary{Stage: info.ID, Label: info.Label}
		index[info.ID] = i
	}

	for _, item := range items {
		i, ok := index[item.Stage]
		if !ok {
			continue
		}
		out[i].Count++
		out[i].TotalValue += item.Value
	}
	return out
}

type Totals struct {
	Count      int
	TotalValue float64
}

// Total sums every item regardless of stage.
func Total(items []Item) Totals {
	var t Totals
	for _, item := range items {
		t.Count++
		t.TotalValue += item.Value
	}
	return t
}

type SourceConversions struct {
	Count   int
	Revenue float64
}

type ConversionStats struct {
	TotalConverted      int
	TotalRevenue        float64
	AvgDealSize         float64
	ConversionsBySource map[string]SourceConversions
}

// Conversions aggregates the deals that originated from a lead. The
// average deal size is rounded to whole currency units.
func Conversions(items []Item) ConversionStats {
	stats := ConversionStats{ConversionsBySource: map[string]SourceConversions{}}
	for _, item := range items {
		if !item.Linked {
			continue
		}
		stats.TotalConverted++
		stats.TotalRevenue += item.Value

		source := item.Source
		if source == "" {
			source = "Unknown"
		}
		bySource := stats.ConversionsBySource[source]
		bySource.Count++
		bySource.Revenue += item.Value
		stats.ConversionsBySource[source] = bySource
	}
	if stats.TotalConverted > 0 {
		stats.AvgDealSize = math.Round(stats.TotalRevenue / float64(stats.TotalConverted))
	}
	return stats
}
