package scoring

import "testing"

func TestCalculateExamples(t *testing.T) {
	tests := []struct {
		name  string
		in    Input
		want  Breakdown
		total int
	}{
		{
			name:  "enterprise technology cto",
			in:    Input{CompanySize: "500+", Industry: "Technology", EngagementLevel: "High", Title: "CTO"},
			want:  Breakdown{CompanySizeScore: 30, IndustryFitScore: 22, EngagementScore: 20, BudgetFitScore: 20},
			total: 92,
		},
		{
			name:  "small retail analyst",
			in:    Input{CompanySize: "1-10", Industry: "Retail", EngagementLevel: "Low", Title: "Analyst"},
			want:  Breakdown{CompanySizeScore: 15, IndustryFitScore: 14, EngagementScore: 10, BudgetFitScore: 15},
			total: 54,
		},
		{
			name:  "unknown everything",
			in:    Input{},
			want:  Breakdown{CompanySizeScore: 10, IndustryFitScore: 16, EngagementScore: 12, BudgetFitScore: 15},
			total: 53,
		},
		{
			name:  "executive at small company",
			in:    Input{CompanySize: "1-10", Industry: "Finance", EngagementLevel: "Medium", Title: "Head of Sales"},
			want:  Breakdown{CompanySizeScore: 15, IndustryFitScore: 18, EngagementScore: 15, BudgetFitScore: 18},
			total: 66,
		},
		{
			name:  "mid size without executive",
			in:    Input{CompanySize: "11-50", Industry: "Agriculture", Title: "Engineer"},
			want:  Breakdown{CompanySizeScore: 20, IndustryFitScore: 16, EngagementScore: 12, BudgetFitScore: 18},
			total: 66,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(tt.in)
			if got.Breakdown != tt.want {
				t.Fatalf("breakdown = %+v, want %+v", got.Breakdown, tt.want)
			}
			if got.TotalScore != tt.total {
				t.Fatalf("total = %d, want %d", got.TotalScore, tt.total)
			}
			if got.TotalScore != got.Breakdown.Total() {
				t.Fatalf("total %d does not equal breakdown sum %d", got.TotalScore, got.Breakdown.Total())
			}
		})
	}
}

func TestCompanySizeScoreTable(t *testing.T) {
	table := map[string]int{
		"500+":    30,
		"201-500": 28,
		"51-200":  25,
		"11-50":   20,
		"1-10":    15,
		"":        10,
		"1000+":   10,
	}
	for size, want := range table {
		if got := CompanySizeScore(size); got != want {
			t.Errorf("CompanySizeScore(%q) = %d, want %d", size, got, want)
		}
	}
}

func TestIsExecutiveTitleIgnoresCase(t *testing.T) {
	for _, title := range []string{"ceo", "Regional VP", "director of ops", "HEAD OF GROWTH"} {
		if !IsExecutiveTitle(title) {
			t.Errorf("expected %q to be executive", title)
		}
	}
	if IsExecutiveTitle("Account Manager") {
		t.Error("account manager is not executive")
	}
}
