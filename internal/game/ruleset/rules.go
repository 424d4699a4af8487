// Package ruleset holds the tunable game data: items, rods, grounds, catch
// grades, species, level tiers and buff parameters.
package ruleset

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Grade is a catch-size category.
type Grade string

// Catch grades in ascending rarity.
const (
	GradeSmall  Grade = "소형"
	GradeMedium Grade = "중형"
	GradeLarge  Grade = "대형"
)

// Grades lists every grade in ascending rarity.
var Grades = []Grade{GradeSmall, GradeMedium, GradeLarge}

// Item kinds.
const (
	KindBait          = "bait"
	KindBooster       = "booster"
	KindChemicalLight = "chemical_light"
	KindRod           = "rod"
)

// SlotPolicy controls how a held consumable occupies bag slots.
type SlotPolicy string

const (
	// SlotPerType occupies one slot while any quantity is held.
	SlotPerType SlotPolicy = "per_type"
	// SlotPerUnit occupies one slot per unit held.
	SlotPerUnit SlotPolicy = "per_unit"
	// SlotNone never occupies a slot.
	SlotNone SlotPolicy = "none"
)

// Item is a purchasable shop entry.
type Item struct {
	Name  string `yaml:"name"`
	Kind  string `yaml:"kind"`
	Price int    `yaml:"price"`
	// Restricted marks items that may be paid for with restricted currency.
	Restricted bool `yaml:"restricted"`
}

// Rod carries signed percentage-point adjustments per grade.
type Rod struct {
	Name  string            `yaml:"name"`
	Bonus map[Grade]float64 `yaml:"bonus"`
}

// Species is one catchable fish with its length range in centimetres.
type Species struct {
	Name      string `yaml:"name"`
	MinLength int    `yaml:"min_cm"`
	MaxLength int    `yaml:"max_cm"`
}

// Location is a fishing ground bound to exactly one bait.
type Location struct {
	Name    string              `yaml:"name"`
	Bait    string              `yaml:"bait"`
	Species map[Grade][]Species `yaml:"species"`
}

// GradeRule holds the per-grade draw weight, probability table and reward scaling.
type GradeRule struct {
	Grade  Grade `yaml:"grade"`
	Weight int   `yaml:"weight"`
	// TimeBonusCap is the bonus reached at full saturation of the cast timer.
	TimeBonusCap float64 `yaml:"time_bonus_cap"`
	// BinBase is the base success probability per size bin, smallest bin first.
	BinBase         []float64 `yaml:"bin_base"`
	PriceMultiplier int       `yaml:"price_multiplier"`
	ExpMultiplier   int       `yaml:"exp_multiplier"`
}

// Booster is the multi-use additive buff.
type Booster struct {
	Item  string  `yaml:"item"`
	Bonus float64 `yaml:"bonus"`
	Uses  int     `yaml:"uses"`
}

// ChemicalLight is a one-shot buff targeting a single grade.
type ChemicalLight struct {
	Tag   int     `yaml:"tag"`
	Item  string  `yaml:"item"`
	Grade Grade   `yaml:"grade"`
	Bonus float64 `yaml:"bonus"`
}

// LevelTier maps a level range to a title and its perks.
type LevelTier struct {
	MinLevel         int               `yaml:"min_level"`
	Title            string            `yaml:"title"`
	Bonus            map[Grade]float64 `yaml:"bonus"`
	AttendanceReward int               `yaml:"attendance_reward"`
	NewbieEligible   bool              `yaml:"newbie_eligible"`
}

// Combo shifts grade weight from small to medium when every condition holds.
type Combo struct {
	Rods       []string `yaml:"rods"`
	MinSeconds int      `yaml:"min_seconds"`
	Shift      int      `yaml:"shift"`
}

// NightWindow is the wall-clock window in which chemical lights may be used.
// The window wraps midnight when StartHour > EndHour.
type NightWindow struct {
	StartHour int `yaml:"start_hour"`
	EndHour   int `yaml:"end_hour"`
}

// Contains reports whether hour falls inside the window.
//
// Precondition: hour in [0, 23].
func (w NightWindow) Contains(hour int) bool {
	if w.StartHour == w.EndHour {
		return false
	}
	if w.StartHour < w.EndHour {
		return hour >= w.StartHour && hour < w.EndHour
	}
	return hour >= w.StartHour || hour < w.EndHour
}

// Newbie configures the lowest-tier bonus.
type Newbie struct {
	DailyLimit int `yaml:"daily_limit"`
	Grant      int `yaml:"grant"`
}

// Rules is the complete, validated rule set.
type Rules struct {
	Capacity            int                   `yaml:"capacity"`
	BaitCap             int                   `yaml:"bait_cap"`
	RestrictedCap       int                   `yaml:"restricted_cap"`
	StartingRod         string                `yaml:"starting_rod"`
	MinCastSeconds      int                   `yaml:"min_cast_seconds"`
	MaxCastSeconds      int                   `yaml:"max_cast_seconds"`
	TimeBonusSaturation int                   `yaml:"time_bonus_saturation"`
	ProbabilityCeiling  float64               `yaml:"probability_ceiling"`
	EarlyReelPenalty    float64               `yaml:"early_reel_penalty"`
	RefundRate          float64               `yaml:"refund_rate"`
	NightWindow         NightWindow           `yaml:"night_window"`
	SlotPolicies        map[string]SlotPolicy `yaml:"slot_policies"`
	Items               []Item                `yaml:"items"`
	Rods                []Rod                 `yaml:"rods"`
	Locations           []Location            `yaml:"locations"`
	Grades              []GradeRule           `yaml:"grades"`
	SizeBins            []int                 `yaml:"size_bins"`
	Booster             Booster               `yaml:"booster"`
	ChemicalLights      []ChemicalLight       `yaml:"chemical_lights"`
	LevelTiers          []LevelTier           `yaml:"level_tiers"`
	Combo               Combo                 `yaml:"combo"`
	Newbie              Newbie                `yaml:"newbie"`
}

// Item returns the shop entry named name.
func (r *Rules) Item(name string) (Item, bool) {
	for _, it := range r.Items {
		if it.Name == name {
			return it, true
		}
	}
	return Item{}, false
}

// Rod returns the rod named name.
func (r *Rules) Rod(name string) (Rod, bool) {
	for _, rod := range r.Rods {
		if rod.Name == name {
			return rod, true
		}
	}
	return Rod{}, false
}

// Location returns the fishing ground named name.
func (r *Rules) Location(name string) (Location, bool) {
	for _, l := range r.Locations {
		if l.Name == name {
			return l, true
		}
	}
	return Location{}, false
}

// LocationNames returns every ground name in configured order.
func (r *Rules) LocationNames() []string {
	out := make([]string, 0, len(r.Locations))
	for _, l := range r.Locations {
		out = append(out, l.Name)
	}
	return out
}

// Grade returns the rule for grade g.
func (r *Rules) Grade(g Grade) (GradeRule, bool) {
	for _, gr := range r.Grades {
		if gr.Grade == g {
			return gr, true
		}
	}
	return GradeRule{}, false
}

// ChemicalLight returns the chemical light with the given tag.
func (r *Rules) ChemicalLight(tag int) (ChemicalLight, bool) {
	for _, c := range r.ChemicalLights {
		if c.Tag == tag {
			return c, true
		}
	}
	return ChemicalLight{}, false
}

// TierFor returns the highest tier whose MinLevel is <= level.
//
// Precondition: LevelTiers is sorted ascending and starts at level 1.
func (r *Rules) TierFor(level int) LevelTier {
	tier := r.LevelTiers[0]
	for _, t := range r.LevelTiers {
		if level >= t.MinLevel {
			tier = t
		}
	}
	return tier
}

// SlotPolicyFor returns the slot policy for an item name. Unknown items and
// kinds without a configured policy occupy one slot per type.
func (r *Rules) SlotPolicyFor(name string) SlotPolicy {
	it, ok := r.Item(name)
	if !ok {
		return SlotPerType
	}
	if it.Kind == KindRod {
		return SlotNone
	}
	if p, ok := r.SlotPolicies[it.Kind]; ok {
		return p
	}
	return SlotPerType
}

// IsComboRod reports whether rod participates in the full-combo shift.
func (r *Rules) IsComboRod(rod string) bool {
	return slices.Contains(r.Combo.Rods, rod)
}

// Validate checks every cross-reference and numeric bound.
//
// Postcondition: returns nil iff the rule set is internally consistent.
func (r *Rules) Validate() error {
	var errs []string
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	if r.Capacity < 1 {
		add("capacity must be >= 1, got %d", r.Capacity)
	}
	if r.BaitCap < 1 {
		add("bait_cap must be >= 1, got %d", r.BaitCap)
	}
	if r.RestrictedCap < 0 {
		add("restricted_cap must be >= 0, got %d", r.RestrictedCap)
	}
	if r.MinCastSeconds < 1 || r.MaxCastSeconds < r.MinCastSeconds {
		add("cast seconds must satisfy 1 <= min <= max, got [%d, %d]", r.MinCastSeconds, r.MaxCastSeconds)
	}
	if r.TimeBonusSaturation < 1 {
		add("time_bonus_saturation must be >= 1, got %d", r.TimeBonusSaturation)
	}
	if r.ProbabilityCeiling <= 0 || r.ProbabilityCeiling > 100 {
		add("probability_ceiling must be in (0, 100], got %v", r.ProbabilityCeiling)
	}
	if r.EarlyReelPenalty > 0 {
		add("early_reel_penalty must be <= 0, got %v", r.EarlyReelPenalty)
	}
	if r.RefundRate < 0 || r.RefundRate > 1 {
		add("refund_rate must be in [0, 1], got %v", r.RefundRate)
	}
	if r.NightWindow.StartHour < 0 || r.NightWindow.StartHour > 23 || r.NightWindow.EndHour < 0 || r.NightWindow.EndHour > 23 {
		add("night_window hours must be in [0, 23]")
	}
	for kind, p := range r.SlotPolicies {
		if p != SlotPerType && p != SlotPerUnit && p != SlotNone {
			add("slot_policies[%s] must be one of per_type, per_unit, none; got %q", kind, p)
		}
	}

	seenItems := make(map[string]bool, len(r.Items))
	for _, it := range r.Items {
		if it.Name == "" {
			add("item name must not be empty")
		}
		if seenItems[it.Name] {
			add("duplicate item %q", it.Name)
		}
		seenItems[it.Name] = true
		if it.Price < 0 {
			add("item %q price must be >= 0", it.Name)
		}
		switch it.Kind {
		case KindBait, KindBooster, KindChemicalLight, KindRod:
		default:
			add("item %q has unknown kind %q", it.Name, it.Kind)
		}
	}

	if len(r.Rods) == 0 {
		add("at least one rod is required")
	}
	for _, rod := range r.Rods {
		if it, ok := r.Item(rod.Name); !ok || it.Kind != KindRod {
			add("rod %q has no shop item of kind rod", rod.Name)
		}
	}
	if _, ok := r.Rod(r.StartingRod); !ok {
		add("starting_rod %q is not a configured rod", r.StartingRod)
	}

	if len(r.SizeBins) == 0 {
		add("size_bins must not be empty")
	}
	for i, w := range r.SizeBins {
		if w < 0 {
			add("size_bins[%d] must be >= 0", i)
		}
	}
	for _, g := range Grades {
		gr, ok := r.Grade(g)
		if !ok {
			add("grade %q is missing", g)
			continue
		}
		if gr.Weight < 0 {
			add("grade %q weight must be >= 0", g)
		}
		if len(gr.BinBase) != len(r.SizeBins) {
			add("grade %q bin_base has %d entries, want %d", g, len(gr.BinBase), len(r.SizeBins))
		}
		if gr.PriceMultiplier < 0 || gr.ExpMultiplier < 0 {
			add("grade %q multipliers must be >= 0", g)
		}
	}

	if len(r.Locations) == 0 {
		add("at least one location is required")
	}
	for _, l := range r.Locations {
		if it, ok := r.Item(l.Bait); !ok || it.Kind != KindBait {
			add("location %q bait %q is not a bait item", l.Name, l.Bait)
		}
		for _, g := range Grades {
			if len(l.Species[g]) == 0 {
				add("location %q has no %s species", l.Name, g)
			}
			for _, s := range l.Species[g] {
				if s.MinLength < 1 || s.MaxLength < s.MinLength {
					add("species %q length range [%d, %d] is invalid", s.Name, s.MinLength, s.MaxLength)
				}
			}
		}
	}

	if it, ok := r.Item(r.Booster.Item); !ok || it.Kind != KindBooster {
		add("booster item %q is not a booster", r.Booster.Item)
	}
	if r.Booster.Uses < 1 {
		add("booster uses must be >= 1")
	}
	for _, c := range r.ChemicalLights {
		if it, ok := r.Item(c.Item); !ok || it.Kind != KindChemicalLight {
			add("chemical light %d item %q is not a chemical light", c.Tag, c.Item)
		}
		if _, ok := r.Grade(c.Grade); !ok {
			add("chemical light %d targets unknown grade %q", c.Tag, c.Grade)
		}
	}

	if len(r.LevelTiers) == 0 || r.LevelTiers[0].MinLevel != 1 {
		add("level_tiers must start at min_level 1")
	}
	for i := 1; i < len(r.LevelTiers); i++ {
		if r.LevelTiers[i].MinLevel <= r.LevelTiers[i-1].MinLevel {
			add("level_tiers must be strictly ascending")
			break
		}
	}
	for _, rod := range r.Combo.Rods {
		if _, ok := r.Rod(rod); !ok {
			add("combo rod %q is not a configured rod", rod)
		}
	}
	if r.Combo.Shift < 0 {
		add("combo shift must be >= 0")
	}

	if len(errs) > 0 {
		return errors.New("rules validation failed: " + strings.Join(errs, "; "))
	}
	return nil
}
