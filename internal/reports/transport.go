package reports

import (
	leaddomain "crm_backend/internal/leads/domain"

	"github.com/google/uuid"
)

type LeadSummary struct {
	TotalLeads     int `json:"totalLeads"`
	QualifiedLeads int `json:"qualifiedLeads"`
	AvgLeadScore   int `json:"avgLeadScore"`
	ConversionRate int `json:"conversionRate"`
}

type DealSummary struct {
	TotalDeals  int     `json:"totalDeals"`
	TotalValue  float64 `json:"totalValue"`
	WinRate     int     `json:"winRate"`
	AvgDealSize float64 `json:"avgDealSize"`
}

type PipelineStage struct {
	Stage      string  `json:"stage"`
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	TotalValue float64 `json:"totalValue"`
}

type RevenueMonth struct {
	Month    string  `json:"month"`
	Label    string  `json:"label"`
	Amount   float64 `json:"amount"`
	Forecast bool    `json:"forecast"`
}

type MemberPerformance struct {
	MemberID *uuid.UUID `json:"memberId,omitempty"`
	Name     string     `json:"name"`
	Deals    int        `json:"deals"`
	Revenue  float64    `json:"revenue"`
	WinRate  int        `json:"winRate"`
}

type DashboardResponse struct {
	Leads        LeadSummary              `json:"leads"`
	Deals        DealSummary              `json:"deals"`
	Pipeline     []PipelineStage          `json:"pipeline"`
	Revenue      []RevenueMonth           `json:"revenue"`
	Team         []MemberPerformance      `json:"team"`
	Sources      []leaddomain.SourceStats `json:"sources"`
	OverdueTasks int                      `json:"overdueTasks"`
}
