package domain

import (
	"math"
	"sort"
)

// SourceSample is the slice of a lead that source analytics needs.
type SourceSample struct {
	Source string
	Score  int
	Status Status
}

type SourceStats struct {
	Source         string `json:"source"`
	Count          int    `json:"count"`
	Qualified      int    `json:"qualified"`
	AvgScore       int    `json:"avgScore"`
	ConversionRate int    `json:"conversionRate"`
}

// UnknownSource labels leads created without a source.
const UnknownSource = "Unknown"

// SummarizeSources groups leads by source. Rates and averages are rounded
// percentages and points. Results are ordered by count, then source name.
func SummarizeSources(samples []SourceSample) []SourceStats {
	type acc struct {
		count, qualified, scoreSum int
	}
	bySource := make(map[string]*acc)
	for _, s := range samples {
		source := s.Source
		if source == "" {
			source = UnknownSource
		}
		a, ok := bySource[source]
		if !ok {
			a = &acc{}
			bySource[source] = a
		}
		a.count++
		a.scoreSum += s.Score
		if s.Status == StatusQualified {
			a.qualified++
		}
	}

	out := make([]SourceStats, 0, len(bySource))
	for source, a := range bySource {
		out = append(out, SourceStats{
			Source:         source,
			Count:          a.count,
			Qualified:      a.qualified,
			AvgScore:       roundRatio(a.scoreSum, a.count, 1),
			ConversionRate: roundRatio(a.qualified, a.count, 100),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Source < out[j].Source
	})
	return out
}

func roundRatio(num, den int, scale float64) int {
	if den == 0 {
		return 0
	}
	return int(math.Round(float64(num) / float64(den) * scale))
}
