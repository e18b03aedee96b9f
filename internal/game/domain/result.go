package domain

// CASBreakdown decomposes one cycle's Competitive Advantage Score change.
type CASBreakdown struct {
	// BaseScore is the weighted health difference against the cohort
	// average over value-creating activities.
	BaseScore float64 `json:"baseScore"`
	// LinkageBonuses maps active linkage IDs to their score contribution.
	LinkageBonuses map[string]float64 `json:"linkageBonuses"`
	// ShockEffect is the score impact of the cycle's shock, if any.
	ShockEffect float64 `json:"shockEffect"`
	// NVADrag is the penalty from still-active overhead activities.
	NVADrag float64 `json:"nvaDrag"`
	Total   float64 `json:"total"`
}

// CycleResult is one team's scoring record for one cycle, appended to the
// team's history when the cycle is advanced.
type CycleResult struct {
	TeamID    string       `json:"teamId"`
	Cycle     int          `json:"cycle"`
	CASChange float64      `json:"casChange"`
	Breakdown CASBreakdown `json:"casBreakdown"`
	// ActiveLinkages holds the linkage IDs active after this cycle's
	// transition; OrphanedLinkages holds the rest of the catalog.
	ActiveLinkages   []string `json:"activeLinkages"`
	OrphanedLinkages []string `json:"orphanedLinkages"`
	// NewHealth maps activity ID to post-transition health.
	NewHealth    map[string]float64 `json:"newHealth"`
	MarginChange float64            `json:"marginChange"`
	NewBudget    float64            `json:"newBudget"`
	// Rank is this team's position within the cycle, 1..N.
	Rank int `json:"rank"`
}
