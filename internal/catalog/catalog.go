package catalog

import (
	_ "embed"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// Category classifies an activity within the value chain.
type Category string

const (
	// CategoryValueCreating marks primary activities that directly create
	// customer value and are scored against the cohort.
	CategoryValueCreating Category = "value-creating"
	// CategoryValueSupporting marks support activities that enable primary
	// activities through linkages.
	CategoryValueSupporting Category = "value-supporting"
	// CategoryNonValueAdd marks overhead activities that consume budget
	// without creating competitive value.
	CategoryNonValueAdd Category = "non-value-add"
)

// Valid reports whether the category is one of the three known variants.
func (c Category) Valid() bool {
	switch c {
	case CategoryValueCreating, CategoryValueSupporting, CategoryNonValueAdd:
		return true
	}
	return false
}

// ActivityDefinition is an immutable catalog entry for one activity.
type ActivityDefinition struct {
	ID             string   `yaml:"id" json:"id"`
	Name           string   `yaml:"name" json:"name"`
	Description    string   `yaml:"description" json:"description"`
	Category       Category `yaml:"category" json:"category"`
	StartingHealth float64  `yaml:"startingHealth" json:"startingHealth"`
	DecayRate      float64  `yaml:"decayRate" json:"decayRate"`
	// Weight multiplies the activity's contribution to the base score.
	// Set only for value-creating activities.
	Weight float64 `yaml:"weight,omitempty" json:"weight,omitempty"`
	// MaintenanceCost is charged per cycle while a non-value-add activity
	// remains active, in millions.
	MaintenanceCost float64 `yaml:"maintenanceCost,omitempty" json:"maintenanceCost,omitempty"`
	// EliminationCost is the one-time cost to cut a non-value-add activity.
	// Nil means the activity can never be eliminated once active.
	EliminationCost *float64 `yaml:"eliminationCost,omitempty" json:"eliminationCost,omitempty"`
}

// Eliminable reports whether the activity can be cut at all.
func (a ActivityDefinition) Eliminable() bool {
	return a.Category == CategoryNonValueAdd && a.EliminationCost != nil
}

// LinkageDefinition is a hidden synergy rule between a support activity and a
// primary activity. Teams discover linkages through experimentation; the
// definitions are never exposed to players.
type LinkageDefinition struct {
	ID                string  `yaml:"id" json:"id"`
	SupportActivityID string  `yaml:"supportActivityId" json:"supportActivityId"`
	PrimaryActivityID string  `yaml:"primaryActivityId" json:"primaryActivityId"`
	SupportThreshold  float64 `yaml:"supportThreshold" json:"supportThreshold"`
	PrimaryThreshold  float64 `yaml:"primaryThreshold" json:"primaryThreshold"`
	// EffectivenessBonus is a fractional boost to investment effectiveness
	// on the primary activity while the linkage is active.
	EffectivenessBonus float64 `yaml:"effectivenessBonus" json:"effectivenessBonus"`
	// DecayReduction is a fractional reduction of the primary activity's
	// decay rate while the linkage is active.
	DecayReduction float64 `yaml:"decayReduction,omitempty" json:"decayReduction,omitempty"`
	// ShockImmunity grants full protection from shocks that list this
	// linkage in their immunity set.
	ShockImmunity bool   `yaml:"shockImmunity,omitempty" json:"shockImmunity,omitempty"`
	Description   string `yaml:"description" json:"description"`
}

// ShockDefinition is a cohort-wide adverse event. At most one shock is active
// per cycle.
type ShockDefinition struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	// Narrative is the story text surfaced to teams when the shock lands.
	Narrative          string   `yaml:"narrative" json:"narrative"`
	AffectedActivities []string `yaml:"affectedActivities" json:"affectedActivities"`
	// HealthImpact is negative: the health points removed from each
	// affected activity.
	HealthImpact float64 `yaml:"healthImpact" json:"healthImpact"`
	// ImmunityLinkages lists linkage IDs that, when active, make a team
	// fully immune to this shock.
	ImmunityLinkages []string `yaml:"immunityLinkages" json:"immunityLinkages"`
}

//go:embed data/activities.yaml
var activitiesYAML []byte

//go:embed data/linkages.yaml
var linkagesYAML []byte

//go:embed data/shocks.yaml
var shocksYAML []byte

// Catalog is the full immutable simulation content.
type Catalog struct {
	Activities []ActivityDefinition
	Linkages   []LinkageDefinition
	Shocks     []ShockDefinition

	activities map[string]int
	linkages   map[string]int
	shocks     map[string]int
	byPrimary  map[string][]int
}

// Load parses and validates the embedded catalog data.
func Load() (*Catalog, error) {
	return Parse(activitiesYAML, linkagesYAML, shocksYAML)
}

// Parse builds a catalog from raw YAML documents and validates it.
func Parse(activities, linkages, shocks []byte) (*Catalog, error) {
	c := &Catalog{}
	if err := yaml.Unmarshal(activities, &c.Activities); err != nil {
		return nil, fmt.Errorf("parse activities: %w", err)
	}
	if err := yaml.Unmarshal(linkages, &c.Linkages); err != nil {
		return nil, fmt.Errorf("parse linkages: %w", err)
	}
	if err := yaml.Unmarshal(shocks, &c.Shocks); err != nil {
		return nil, fmt.Errorf("parse shocks: %w", err)
	}
	if err := c.index(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) index() error {
	c.activities = make(map[string]int, len(c.Activities))
	for i, a := range c.Activities {
		if err := validateActivity(a); err != nil {
			return err
		}
		if _, ok := c.activities[a.ID]; ok {
			return fmt.Errorf("duplicate activity %q", a.ID)
		}
		c.activities[a.ID] = i
	}

	c.linkages = make(map[string]int, len(c.Linkages))
	c.byPrimary = make(map[string][]int)
	for i, l := range c.Linkages {
		if err := c.validateLinkage(l); err != nil {
			return err
		}
		if _, ok := c.linkages[l.ID]; ok {
			return fmt.Errorf("duplicate linkage %q", l.ID)
		}
		c.linkages[l.ID] = i
		c.byPrimary[l.PrimaryActivityID] = append(c.byPrimary[l.PrimaryActivityID], i)
	}

	c.shocks = make(map[string]int, len(c.Shocks))
	for i, s := range c.Shocks {
		if err := c.validateShock(s); err != nil {
			return err
		}
		if _, ok := c.shocks[s.ID]; ok {
			return fmt.Errorf("duplicate shock %q", s.ID)
		}
		c.shocks[s.ID] = i
	}
	return nil
}

func validateActivity(a ActivityDefinition) error {
	if a.ID == "" {
		return fmt.Errorf("activity id is required")
	}
	if !a.Category.Valid() {
		return fmt.Errorf("activity %q: unknown category %q", a.ID, a.Category)
	}
	if a.StartingHealth < 0 || a.StartingHealth > 100 {
		return fmt.Errorf("activity %q: starting health %v outside [0,100]", a.ID, a.StartingHealth)
	}
	if a.DecayRate < 0 {
		return fmt.Errorf("activity %q: negative decay rate", a.ID)
	}
	switch a.Category {
	case CategoryValueCreating:
		if a.Weight <= 0 {
			return fmt.Errorf("activity %q: value-creating activities require a weight", a.ID)
		}
		if a.MaintenanceCost != 0 || a.EliminationCost != nil {
			return fmt.Errorf("activity %q: costs are only valid on non-value-add activities", a.ID)
		}
	case CategoryValueSupporting:
		if a.Weight != 0 || a.MaintenanceCost != 0 || a.EliminationCost != nil {
			return fmt.Errorf("activity %q: value-supporting activities carry no weight or costs", a.ID)
		}
	case CategoryNonValueAdd:
		if a.Weight != 0 {
			return fmt.Errorf("activity %q: non-value-add activities carry no weight", a.ID)
		}
		if a.MaintenanceCost < 0 {
			return fmt.Errorf("activity %q: negative maintenance cost", a.ID)
		}
		if a.EliminationCost != nil && *a.EliminationCost < 0 {
			return fmt.Errorf("activity %q: negative elimination cost", a.ID)
		}
	}
	return nil
}

func (c *Catalog) validateLinkage(l LinkageDefinition) error {
	if l.ID == "" {
		return fmt.Errorf("linkage id is required")
	}
	support := c.Activity(l.SupportActivityID)
	if support == nil {
		return fmt.Errorf("linkage %q: unknown support activity %q", l.ID, l.SupportActivityID)
	}
	primary := c.Activity(l.PrimaryActivityID)
	if primary == nil {
		return fmt.Errorf("linkage %q: unknown primary activity %q", l.ID, l.PrimaryActivityID)
	}
	if l.EffectivenessBonus < 0 || l.DecayReduction < 0 {
		return fmt.Errorf("linkage %q: negative modifier", l.ID)
	}
	return nil
}

func (c *Catalog) validateShock(s ShockDefinition) error {
	if s.ID == "" {
		return fmt.Errorf("shock id is required")
	}
	if s.HealthImpact >= 0 {
		return fmt.Errorf("shock %q: health impact must be negative", s.ID)
	}
	for _, id := range s.AffectedActivities {
		if c.Activity(id) == nil {
			return fmt.Errorf("shock %q: unknown activity %q", s.ID, id)
		}
	}
	for _, id := range s.ImmunityLinkages {
		if c.Linkage(id) == nil {
			return fmt.Errorf("shock %q: unknown linkage %q", s.ID, id)
		}
	}
	return nil
}

// Activity returns the definition for the given ID, or nil when unknown.
func (c *Catalog) Activity(id string) *ActivityDefinition {
	i, ok := c.activities[id]
	if !ok {
		return nil
	}
	return &c.Activities[i]
}

// Linkage returns the definition for the given ID, or nil when unknown.
func (c *Catalog) Linkage(id string) *LinkageDefinition {
	i, ok := c.linkages[id]
	if !ok {
		return nil
	}
	return &c.Linkages[i]
}

// Shock returns the definition for the given ID, or nil when unknown.
func (c *Catalog) Shock(id string) *ShockDefinition {
	i, ok := c.shocks[id]
	if !ok {
		return nil
	}
	return &c.Shocks[i]
}

// ByCategory returns all activities in the given category, in catalog order.
func (c *Catalog) ByCategory(cat Category) []ActivityDefinition {
	var out []ActivityDefinition
	for _, a := range c.Activities {
		if a.Category == cat {
			out = append(out, a)
		}
	}
	return out
}

// ValueCreating returns the primary activities scored against the cohort.
func (c *Catalog) ValueCreating() []ActivityDefinition {
	return c.ByCategory(CategoryValueCreating)
}

// NonValueAdd returns the overhead activities.
func (c *Catalog) NonValueAdd() []ActivityDefinition {
	return c.ByCategory(CategoryNonValueAdd)
}

// LinkagesForPrimary returns every linkage targeting the given primary
// activity, in catalog order.
func (c *Catalog) LinkagesForPrimary(activityID string) []LinkageDefinition {
	idxs := c.byPrimary[activityID]
	if len(idxs) == 0 {
		return nil
	}
	out := make([]LinkageDefinition, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, c.Linkages[i])
	}
	return out
}

// ShocksAffecting returns every shock that lists the given activity.
func (c *Catalog) ShocksAffecting(activityID string) []ShockDefinition {
	var out []ShockDefinition
	for _, s := range c.Shocks {
		for _, id := range s.AffectedActivities {
			if id == activityID {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

// StartingNVAMaintenanceCost sums the maintenance cost of non-value-add
// activities that start active (health 100).
func (c *Catalog) StartingNVAMaintenanceCost() float64 {
	var total float64
	for _, a := range c.NonValueAdd() {
		if a.StartingHealth == 100 {
			total += a.MaintenanceCost
		}
	}
	return total
}

// SuggestedShocks filters shocks by intensity for narrative progression
// across the game's cycles: mild openers, escalating toward the finale.
func (c *Catalog) SuggestedShocks(cycle int) []ShockDefinition {
	keep := func(ShockDefinition) bool { return true }
	switch cycle {
	case 1:
		keep = func(s ShockDefinition) bool { return math.Abs(s.HealthImpact) <= 12 }
	case 2:
		keep = func(s ShockDefinition) bool {
			abs := math.Abs(s.HealthImpact)
			return abs >= 10 && abs <= 16
		}
	case 3:
		keep = func(s ShockDefinition) bool { return math.Abs(s.HealthImpact) >= 14 }
	}
	var out []ShockDefinition
	for _, s := range c.Shocks {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}
