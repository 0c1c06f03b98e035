package management

import (
	"crm_backend/internal/leads/domain"
	"crm_backend/internal/leads/repository"
	"crm_backend/internal/leads/scoring"
	"crm_backend/internal/leads/transport"
)

// ToLeadResponse maps a stored lead to its API shape.
func ToLeadResponse(lead repository.Lead) transport.LeadResponse {
	tags := lead.Tags
	if tags == nil {
		tags = []string{}
	}
	return transport.LeadResponse{
		ID:                    lead.ID,
		FirstName:             lead.FirstName,
		LastName:              lead.LastName,
		Email:                 lead.Email,
		Phone:                 lead.Phone,
		Title:                 lead.Title,
		CompanyName:           lead.CompanyName,
		CompanySize:           lead.CompanySize,
		Industry:              lead.Industry,
		Website:               lead.Website,
		Source:                lead.Source,
		EngagementLevel:       lead.EngagementLevel,
		LeadScore:             lead.Score.Total,
		QualificationCriteria: toBreakdownResponse(lead.Score),
		Status:                lead.Status,
		AssignedTo:            lead.AssignedTo,
		AssignedToName:        lead.AssignedToName,
		Territory:             lead.Territory,
		NextFollowUp:          lead.NextFollowUp,
		Notes:                 lead.Notes,
		Tags:                  tags,
		LostReason:            lead.LostReason,
		ConvertedDealID:       lead.ConvertedDealID,
		CreatedAt:             lead.CreatedAt,
		UpdatedAt:             lead.UpdatedAt,
	}
}

func toBreakdownResponse(s repository.Score) transport.ScoreBreakdownResponse {
	return transport.ScoreBreakdownResponse{
		CompanySize: s.CompanySize,
		IndustryFit: s.IndustryFit,
		Engagement:  s.Engagement,
		BudgetFit:   s.BudgetFit,
	}
}

func scoreFromResult(r scoring.Result) repository.Score {
	return repository.Score{
		Total:       r.TotalScore,
		CompanySize: r.Breakdown.CompanySizeScore,
		IndustryFit: r.Breakdown.IndustryFitScore,
		Engagement:  r.Breakdown.EngagementScore,
		BudgetFit:   r.Breakdown.BudgetFitScore,
	}
}

func toScoreResponse(r scoring.Result) transport.ScoreResponse {
	return transport.ScoreResponse{
		TotalScore:      r.TotalScore,
		Breakdown:       toBreakdownResponse(scoreFromResult(r)),
		SuggestedStatus: string(domain.InitialStatus(r.TotalScore)),
	}
}
