package domain

import "github.com/google/uuid"

// AssignmentPolicy selects how an owner is chosen for a lead.
type AssignmentPolicy string

const (
	PolicyDirect     AssignmentPolicy = "direct"
	PolicyTerritory  AssignmentPolicy = "territory"
	PolicyRoundRobin AssignmentPolicy = "round_robin"
)

func IsKnownPolicy(p string) bool {
	switch AssignmentPolicy(p) {
	case PolicyDirect, PolicyTerritory, PolicyRoundRobin:
		return true
	}
	return false
}

// Candidate is a team member eligible for assignment.
type Candidate struct {
	ID        uuid.UUID
	Name      string
	Territory string
}

// PickLeastLoaded returns the candidate with the strictly smallest count of
// assigned leads. Ties go to the earliest candidate in list order. Members
// missing from counts have zero leads. ok is false for an empty list.
func PickLeastLoaded(candidates []Candidate, counts map[uuid.UUID]int) (Candidate, bool) {
	if len(candidates) == 0 {
		return Candidate{}, false
	}

	best := candidates[0]
	bestCount := counts[best.ID]
	for _, c := range candidates[1:] {
		if n := counts[c.ID]; n < bestCount {
			best, bestCount = c, n
		}
	}
	return best, true
}
