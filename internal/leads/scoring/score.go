// Package scoring computes the qualification score of a lead from its
// firmographic and engagement attributes. It is pure and never fails.
package scoring

import "strings"

// Input holds the lead attributes that feed the score.
type Input struct {
	CompanySize     string
	Industry        string
	EngagementLevel string
	Title           string
}

// Breakdown is the per-criterion contribution to the total score.
type Breakdown struct {
	CompanySizeScore int `json:"companySize"`
	IndustryFitScore int `json:"industryFit"`
	EngagementScore  int `json:"engagement"`
	BudgetFitScore   int `json:"budgetFit"`
}

// Total sums the four components.
func (b Breakdown) Total() int {
	return b.CompanySizeScore + b.IndustryFitScore + b.EngagementScore + b.BudgetFitScore
}

type Result struct {
	TotalScore int
	Breakdown  Breakdown
}

var companySizeScores = map[string]int{
	"500+":    30,
	"201-500": 28,
	"51-200":  25,
	"11-50":   20,
	"1-10":    15,
}

const defaultCompanySizeScore = 10

var industryTiers = []struct {
	industries []string
	score      int
}{
	{[]string{"Technology", "Software", "SaaS"}, 22},
	{[]string{"Manufacturing", "Healthcare", "Finance"}, 18},
	{[]string{"Retail", "Hospitality", "Non-profit"}, 14},
}

const defaultIndustryScore = 16

var engagementScores = map[string]int{
	"High":   20,
	"Medium": 15,
	"Low":    10,
}

const defaultEngagementScore = 12

var executiveTitles = []string{"ceo", "cto", "vp", "director", "head of"}

// Budget fit thresholds on the company size component.
const (
	largeCompanyThreshold   = 25
	midsizeCompanyThreshold = 20
)

// Calculate scores a lead. Unknown or empty categories fall back to their
// default tier.
func Calculate(in Input) Result {
	b := Breakdown{
		CompanySizeScore: CompanySizeScore(in.CompanySize),
		IndustryFitScore: IndustryFitScore(in.Industry),
		EngagementScore:  EngagementScore(in.EngagementLevel),
	}
	b.BudgetFitScore = BudgetFitScore(in.Title, b.CompanySizeScore)

	return Result{TotalScore: b.Total(), Breakdown: b}
}

func CompanySizeScore(size string) int {
	if score, ok := companySizeScores[size]; ok {
		return score
	}
	return defaultCompanySizeScore
}

func IndustryFitScore(industry string) int {
	for _, tier := range industryTiers {
		for _, candidate := range tier.industries {
			if candidate == industry {
				return tier.score
			}
		}
	}
	return defaultIndustryScore
}

func EngagementScore(level string) int {
	if score, ok := engagementScores[level]; ok {
		return score
	}
	return defaultEngagementScore
}

// BudgetFitScore rewards executive titles and larger companies.
func BudgetFitScore(title string, companySizeScore int) int {
	executive := IsExecutiveTitle(title)
	switch {
	case executive && companySizeScore >= largeCompanyThreshold:
		return 20
	case executive || companySizeScore >= midsizeCompanyThreshold:
		return 18
	default:
		return 15
	}
}

// IsExecutiveTitle reports whether title contains an executive keyword,
// ignoring case.
func IsExecutiveTitle(title string) bool {
	lower := strings.ToLower(title)
	for _, keyword := range executiveTitles {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
