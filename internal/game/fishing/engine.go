// Package fishing resolves a single cast into a catch outcome: grade draw,
// size-bin draw, species and length selection, and success-probability
// composition.
package fishing

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/cory-johannsen/angler/internal/game/dice"
	"github.com/cory-johannsen/angler/internal/game/ruleset"
)

// ErrUnknownLocation is returned when the input names no configured ground.
var ErrUnknownLocation = errors.New("unknown location")

// Input is everything the engine needs to resolve one cast.
type Input struct {
	Location string
	// CastSeconds is the requested duration.
	CastSeconds int
	// EffectiveSeconds is the elapsed time on an early reel, else CastSeconds.
	EffectiveSeconds int
	EarlyReel        bool
	Rod              string
	BoosterActive    bool
	// ChemicalLight is the tag of the pending one-shot light; 0 when none.
	ChemicalLight int
	Level         int
}

// Breakdown is the additive composition of the success probability in
// percentage points, in application order.
type Breakdown struct {
	Base          float64
	Time          float64
	Booster       float64
	ChemicalLight float64
	Rod           float64
	Level         float64
	EarlyReel     float64
	// Raw is the unclamped sum.
	Raw float64
	// Final is Raw clamped to [0, ceiling].
	Final float64
}

// Outcome is one resolved cast.
type Outcome struct {
	Location  string
	Grade     ruleset.Grade
	Bin       int
	Species   string
	Length    int
	Breakdown Breakdown
	Draw      float64
	Success   bool
	// Price and Exp are zero when Success is false.
	Price int
	Exp   int
}

// Engine resolves casts against a rule set.
type Engine struct {
	rules  *ruleset.Rules
	src    dice.Source
	logger *zap.Logger
}

// NewEngine creates an Engine.
//
// Precondition: rules must be validated; src and logger must be non-nil.
func NewEngine(rules *ruleset.Rules, src dice.Source, logger *zap.Logger) *Engine {
	return &Engine{rules: rules, src: src, logger: logger}
}

// ComboActive reports whether every full-combo condition holds for in.
func (e *Engine) ComboActive(in Input) bool {
	c := e.rules.Combo
	return c.Shift > 0 &&
		e.rules.IsComboRod(in.Rod) &&
		in.BoosterActive &&
		in.ChemicalLight > 0 &&
		in.EffectiveSeconds >= c.MinSeconds
}

// GradeWeights returns the grade draw weights for in, with the combo shift
// moved from small to medium when ComboActive.
//
// Postcondition: the sum of weights equals the sum of configured grade weights.
func (e *Engine) GradeWeights(in Input) []dice.Weighted[ruleset.Grade] {
	out := make([]dice.Weighted[ruleset.Grade], 0, len(ruleset.Grades))
	for _, g := range ruleset.Grades {
		gr, _ := e.rules.Grade(g)
		out = append(out, dice.Weighted[ruleset.Grade]{Label: g, Weight: gr.Weight})
	}
	if e.ComboActive(in) {
		shift := min(e.rules.Combo.Shift, out[0].Weight)
		out[0].Weight -= shift
		out[1].Weight += shift
	}
	return out
}

// binWeights returns the size-bin draw weights labelled by bin index.
func (e *Engine) binWeights() []dice.Weighted[int] {
	out := make([]dice.Weighted[int], len(e.rules.SizeBins))
	for i, w := range e.rules.SizeBins {
		out[i] = dice.Weighted[int]{Label: i, Weight: w}
	}
	return out
}

// BinRange returns the length sub-range [lo, hi] of bin within s. Every bin
// but the last stops one short of the next bin's lower edge.
//
// Postcondition: s.MinLength <= lo <= hi <= s.MaxLength; when the span is at
// least the bin count, adjacent bins are disjoint.
func (e *Engine) BinRange(s ruleset.Species, bin int) (lo, hi int) {
	n := len(e.rules.SizeBins)
	span := s.MaxLength - s.MinLength
	if n == 0 || span <= 0 {
		return s.MinLength, s.MinLength
	}
	lo = s.MinLength + span*bin/n
	if bin >= n-1 {
		return lo, s.MaxLength
	}
	hi = max(lo, s.MinLength+span*(bin+1)/n-1)
	return lo, hi
}

// TimeBonus returns the saturating linear time bonus for a grade.
//
// Postcondition: 0 <= result <= gr.TimeBonusCap.
func (e *Engine) TimeBonus(gr ruleset.GradeRule, effectiveSeconds int) float64 {
	sat := e.rules.TimeBonusSaturation
	secs := min(max(effectiveSeconds, 0), sat)
	return gr.TimeBonusCap * float64(secs) / float64(sat)
}

// Compose adds every applicable modifier to the grade/bin base probability
// and clamps the sum.
//
// Precondition: bin indexes gr.BinBase.
// Postcondition: 0 <= Final <= ProbabilityCeiling.
func (e *Engine) Compose(in Input, gr ruleset.GradeRule, bin int) Breakdown {
	var b Breakdown
	if bin >= 0 && bin < len(gr.BinBase) {
		b.Base = gr.BinBase[bin]
	}
	b.Time = e.TimeBonus(gr, in.EffectiveSeconds)
	if in.BoosterActive {
		b.Booster = e.rules.Booster.Bonus
	}
	if cl, ok := e.rules.ChemicalLight(in.ChemicalLight); ok && cl.Grade == gr.Grade {
		b.ChemicalLight = cl.Bonus
	}
	if rod, ok := e.rules.Rod(in.Rod); ok {
		b.Rod = rod.Bonus[gr.Grade]
	}
	b.Level = e.rules.TierFor(max(in.Level, 1)).Bonus[gr.Grade]
	if in.EarlyReel {
		b.EarlyReel = e.rules.EarlyReelPenalty
	}
	b.Raw = b.Base + b.Time + b.Booster + b.ChemicalLight + b.Rod + b.Level + b.EarlyReel
	b.Final = math.Min(math.Max(b.Raw, 0), e.rules.ProbabilityCeiling)
	return b
}

// Resolve draws a grade, size bin, species and length, composes the success
// probability and draws the outcome. It has no side effects beyond consuming
// randomness.
//
// Postcondition: on success Price == Length*PriceMultiplier and
// Exp == Length*ExpMultiplier for the drawn grade.
func (e *Engine) Resolve(in Input) (Outcome, error) {
	loc, ok := e.rules.Location(in.Location)
	if !ok {
		return Outcome{}, fmt.Errorf("%q: %w", in.Location, ErrUnknownLocation)
	}

	grade, err := dice.Choose(e.src, e.GradeWeights(in))
	if err != nil {
		return Outcome{}, fmt.Errorf("drawing grade: %w", err)
	}
	gr, _ := e.rules.Grade(grade)

	bin, err := dice.Choose(e.src, e.binWeights())
	if err != nil {
		return Outcome{}, fmt.Errorf("drawing size bin: %w", err)
	}

	pool := loc.Species[grade]
	if len(pool) == 0 {
		return Outcome{}, fmt.Errorf("location %q has no %s species", loc.Name, grade)
	}
	species := pool[e.src.Intn(len(pool))]
	lo, hi := e.BinRange(species, bin)
	length := dice.Between(e.src, lo, hi)

	b := e.Compose(in, gr, bin)
	draw := dice.Percent(e.src)

	out := Outcome{
		Location:  loc.Name,
		Grade:     grade,
		Bin:       bin,
		Species:   species.Name,
		Length:    length,
		Breakdown: b,
		Draw:      draw,
		Success:   draw <= b.Final,
	}
	if out.Success {
		out.Price = length * gr.PriceMultiplier
		out.Exp = length * gr.ExpMultiplier
	}

	e.logger.Debug("cast resolved",
		zap.String("location", out.Location),
		zap.String("grade", string(grade)),
		zap.Int("bin", bin),
		zap.String("species", out.Species),
		zap.Int("length", length),
		zap.Float64("probability", b.Final),
		zap.Float64("raw", b.Raw),
		zap.Float64("draw", draw),
		zap.Bool("early", in.EarlyReel),
		zap.Bool("success", out.Success),
	)
	return out, nil
}
