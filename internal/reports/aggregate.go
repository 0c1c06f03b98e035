package reports

import (
	"math"
	"sort"
	"time"

	dealdomain "crm_backend/internal/deals/domain"
)

const (
	historyMonths  = 5
	forecastMonths = 6
	monthLayout    = "Jan 06"
	unassigned     = "Unassigned"
)

func percent(num, den int) int {
	if den == 0 {
		return 0
	}
	return int(math.Round(float64(num) / float64(den) * 100))
}

func pipeline(deals []DealSample) []PipelineStage {
	items := make([]dealdomain.Item, len(deals))
	for i, d := range deals {
		items[i] = dealdomain.Item{Stage: dealdomain.Stage(d.Stage), Value: d.Value}
	}

	summaries := dealdomain.Summarize(items)
	out := make([]PipelineStage, len(summaries))
	for i, s := range summaries {
		out[i] = PipelineStage{
			Stage:      string(s.Stage),
			Label:      s.Label,
			Count:      s.Count,
			TotalValue: s.TotalValue,
		}
	}
	return out
}

func dealTotals(deals []DealSample) DealSummary {
	var sum DealSummary
	closed := 0
	for _, d := range deals {
		sum.TotalDeals++
		sum.TotalValue += d.Value
		if dealdomain.Stage(d.Stage) == dealdomain.StageClosed {
			closed++
		}
	}
	sum.WinRate = percent(closed, sum.TotalDeals)
	if sum.TotalDeals > 0 {
		sum.AvgDealSize = math.Round(sum.TotalValue / float64(sum.TotalDeals))
	}
	return sum
}

// revenueTimeline covers the five months before now, the current month and
// six months ahead. Past and current months report closed revenue by
// expected close date; future months report the probability-weighted value
// of open deals.
func revenueTimeline(deals []DealSample, now time.Time) []RevenueMonth {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	out := make([]RevenueMonth, 0, historyMonths+forecastMonths+1)
	index := make(map[string]int)
	for i := -historyMonths; i <= forecastMonths; i++ {
		month := start.AddDate(0, i, 0)
		index[month.Format("2006-01")] = len(out)
		out = append(out, RevenueMonth{
			Month:    month.Format("2006-01"),
			Label:    month.Format(monthLayout),
			Forecast: i > 0,
		})
	}

	for _, d := range deals {
		if d.ExpectedCloseDate == nil {
			continue
		}
		i, ok := index[d.ExpectedCloseDate.UTC().Format("2006-01")]
		if !ok {
			continue
		}
		closed := dealdomain.Stage(d.Stage) == dealdomain.StageClosed
		switch {
		case out[i].Forecast && !closed:
			out[i].Amount += d.Value * float64(d.Probability) / 100
		case !out[i].Forecast && closed:
			out[i].Amount += d.Value
		}
	}
	return out
}

// teamPerformance groups deals by assignee. Revenue counts closed deals only.
func teamPerformance(deals []DealSample) []MemberPerformance {
	type acc struct {
		perf   MemberPerformance
		closed int
	}
	byMember := make(map[string]*acc)
	for _, d := range deals {
		key, name := unassigned, unassigned
		if d.AssignedTo != nil {
			key = d.AssignedTo.String()
			name = d.AssignedToName
		}
		a, ok := byMember[key]
		if !ok {
			a = &acc{perf: MemberPerformance{MemberID: d.AssignedTo, Name: name}}
			byMember[key] = a
		}
		a.perf.Deals++
		if dealdomain.Stage(d.Stage) == dealdomain.StageClosed {
			a.closed++
			a.perf.Revenue += d.Value
		}
	}

	out := make([]MemberPerformance, 0, len(byMember))
	for _, a := range byMember {
		a.perf.WinRate = percent(a.closed, a.perf.Deals)
		out = append(out, a.perf)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].Name < out[j].Name
	})
	return out
}
