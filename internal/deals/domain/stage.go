// Package domain holds the sales pipeline rules: the fixed stage set and
// the aggregates computed over it.
package domain

// Stage identifies a pipeline column.
type Stage string

const (
	StageLead        Stage = "lead"
	StageDemo        Stage = "demo"
	StageTrial       Stage = "trial"
	StageNegotiation Stage = "negotiation"
	StageClosed      Stage = "closed"
)

// StageInfo pairs a stage with its display label.
type StageInfo struct {
	ID    Stage
	Label string
}

// Stages lists the pipeline in display order. Transitions between them are
// unordered: a deal may move from any stage to any other.
var Stages = []StageInfo{
	{StageLead, "Lead"},
	{StageDemo, "Demo Scheduled"},
	{StageTrial, "Trial"},
	{StageNegotiation, "Negotiation"},
	{StageClosed, "Closed Won/Lost"},
}

func IsKnownStage(s string) bool {
	for _, info := range Stages {
		if string(info.ID) == s {
			return true
		}
	}
	return false
}

// Label returns the display label, or the raw value for unknown stages.
func Label(s Stage) string {
	for _, info := range Stages {
		if info.ID == s {
			return info.Label
		}
	}
	return string(s)
}

// IsOpen reports whether deals in the stage still count toward the forecast.
func (s Stage) IsOpen() bool {
	return s != StageClosed
}
