// Package progression implements experience thresholds, level advancement
// and title tiers.
package progression

import (
	"github.com/cory-johannsen/angler/internal/game/player"
	"github.com/cory-johannsen/angler/internal/game/ruleset"
)

// RequiredExperience returns the experience needed to advance from level.
//
// Precondition: level >= 1.
// Postcondition: result == 100 + 50*(level-1).
func RequiredExperience(level int) int {
	if level < 1 {
		level = 1
	}
	return 100 + 50*(level-1)
}

// Normalize converts surplus experience into levels.
//
// Postcondition: 0 <= p.Exp < RequiredExperience(p.Level); returns levels gained.
func Normalize(p *player.Player) int {
	if p.Level < 1 {
		p.Level = 1
	}
	if p.Exp < 0 {
		p.Exp = 0
	}
	gained := 0
	for p.Exp >= RequiredExperience(p.Level) {
		p.Exp -= RequiredExperience(p.Level)
		p.Level++
		gained++
	}
	return gained
}

// Award adds amount experience to p and advances as many levels as the total
// covers.
//
// Precondition: amount >= 0; negative amounts are ignored.
// Postcondition: 0 <= p.Exp < RequiredExperience(p.Level); returns levels gained.
func Award(p *player.Player, amount int) int {
	if amount > 0 {
		p.Exp += amount
	}
	return Normalize(p)
}

// Tracker resolves titles and tier perks from a rule set.
type Tracker struct {
	rules *ruleset.Rules
}

// NewTracker creates a Tracker over rules.
func NewTracker(rules *ruleset.Rules) *Tracker {
	return &Tracker{rules: rules}
}

// Tier returns the level tier for level.
func (t *Tracker) Tier(level int) ruleset.LevelTier {
	return t.rules.TierFor(level)
}

// Title returns the display title for level.
func (t *Tracker) Title(level int) string {
	return t.rules.TierFor(level).Title
}

// AttendanceReward returns the daily attendance reward for level.
func (t *Tracker) AttendanceReward(level int) int {
	return t.rules.TierFor(level).AttendanceReward
}

// NewbieEligible reports whether level qualifies for the newbie bonus.
func (t *Tracker) NewbieEligible(level int) bool {
	return t.rules.TierFor(level).NewbieEligible
}

// LevelBonus returns the tier-scaled success bonus for grade g at level.
func (t *Tracker) LevelBonus(level int, g ruleset.Grade) float64 {
	return t.rules.TierFor(level).Bonus[g]
}
