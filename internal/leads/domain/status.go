// Package domain holds the lead lifecycle rules that do not touch storage.
package domain

// Status is the lifecycle state of a lead.
type Status string

const (
	StatusNew       Status = "New"
	StatusNurturing Status = "Nurturing"
	StatusQualified Status = "Qualified"
	StatusConverted Status = "Converted"
	StatusLost      Status = "Lost"
)

// Score thresholds for the status assigned at creation.
const (
	QualifiedThreshold = 80
	NurturingThreshold = 60
)

var knownStatuses = map[Status]struct{}{
	StatusNew:       {},
	StatusNurturing: {},
	StatusQualified: {},
	StatusConverted: {},
	StatusLost:      {},
}

func IsKnownStatus(s string) bool {
	_, ok := knownStatuses[Status(s)]
	return ok
}

// InitialStatus derives the status of a freshly created lead from its
// score. Later changes are always explicit.
func InitialStatus(score int) Status {
	switch {
	case score >= QualifiedThreshold:
		return StatusQualified
	case score >= NurturingThreshold:
		return StatusNurturing
	default:
		return StatusNew
	}
}

// IsActive reports whether the lead still counts toward an owner's workload.
func (s Status) IsActive() bool {
	return s != StatusConverted && s != StatusLost
}
