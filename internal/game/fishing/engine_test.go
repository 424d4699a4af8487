package fishing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/angler/internal/game/fishing"
	"github.com/cory-johannsen/angler/internal/game/ruleset"
)

// scriptedSource returns its values in order; each must be below the bound.
type scriptedSource struct {
	t      *testing.T
	values []int
}

func (s *scriptedSource) Intn(n int) int {
	require.NotEmpty(s.t, s.values, "scripted source exhausted")
	v := s.values[0]
	s.values = s.values[1:]
	require.Less(s.t, v, n, "scripted value out of range")
	return v
}

// rapidSource draws every value from the property generator.
type rapidSource struct{ rt *rapid.T }

func (s rapidSource) Intn(n int) int {
	return rapid.IntRange(0, n-1).Draw(s.rt, "intn")
}

func newEngine(t *testing.T, values ...int) *fishing.Engine {
	return fishing.NewEngine(ruleset.Default(), &scriptedSource{t: t, values: values}, zaptest.NewLogger(t))
}

func baseInput() fishing.Input {
	return fishing.Input{
		Location:         "민물",
		CastSeconds:      30,
		EffectiveSeconds: 30,
		Rod:              "철제 낚싯대",
		Level:            1,
	}
}

func TestResolve_SmallCatch(t *testing.T) {
	// grade draw 1 -> small; bin draw 1 -> bin 0; species 0 -> 붕어 [10,30];
	// bin 0 range [10,13], offset 2 -> 12cm; percent draw 1.00.
	e := newEngine(t, 0, 0, 0, 2, 99)
	out, err := e.Resolve(baseInput())
	require.NoError(t, err)

	assert.Equal(t, ruleset.GradeSmall, out.Grade)
	assert.Equal(t, 0, out.Bin)
	assert.Equal(t, "붕어", out.Species)
	assert.Equal(t, 12, out.Length)
	// base 6 + time 5 + level 1
	assert.InDelta(t, 12.0, out.Breakdown.Final, 1e-9)
	assert.InDelta(t, 1.0, out.Draw, 1e-9)
	assert.True(t, out.Success)
	assert.Equal(t, 24, out.Price)
	assert.Equal(t, 12, out.Exp)
}

func TestResolve_FailedDrawHasNoReward(t *testing.T) {
	e := newEngine(t, 0, 0, 0, 2, 9999)
	out, err := e.Resolve(baseInput())
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.Zero(t, out.Price)
	assert.Zero(t, out.Exp)
}

func TestResolve_DrawEqualToProbabilitySucceeds(t *testing.T) {
	// Final is 12.00; a draw of exactly 12.00 succeeds.
	e := newEngine(t, 0, 0, 0, 2, 1199)
	out, err := e.Resolve(baseInput())
	require.NoError(t, err)
	assert.InDelta(t, 12.0, out.Draw, 1e-9)
	assert.True(t, out.Success)
}

func TestResolve_LargeGrade(t *testing.T) {
	// grade draw 10000 -> large; bin draw 100 -> bin 4; species 1 -> 대물 가물치 [60,100];
	// bin 4 range [92,100], offset 8 -> 100cm.
	e := newEngine(t, 9999, 99, 1, 8, 0)
	in := baseInput()
	in.EffectiveSeconds = 60
	out, err := e.Resolve(in)
	require.NoError(t, err)
	assert.Equal(t, ruleset.GradeLarge, out.Grade)
	assert.Equal(t, 4, out.Bin)
	assert.Equal(t, "대물 가물치", out.Species)
	assert.Equal(t, 100, out.Length)
	// base 0.2 + time 2
	assert.InDelta(t, 2.2, out.Breakdown.Final, 1e-9)
	assert.True(t, out.Success)
	assert.Equal(t, 5000, out.Price)
	assert.Equal(t, 2000, out.Exp)
}

func TestResolve_UnknownLocation(t *testing.T) {
	e := newEngine(t)
	in := baseInput()
	in.Location = "우주"
	_, err := e.Resolve(in)
	assert.ErrorIs(t, err, fishing.ErrUnknownLocation)
}

func TestCompose_EarlyReelPenaltyClampsToZero(t *testing.T) {
	e := newEngine(t)
	rules := ruleset.Default()
	small, _ := rules.Grade(ruleset.GradeSmall)
	in := baseInput()
	in.EarlyReel = true
	in.EffectiveSeconds = 0
	b := e.Compose(in, small, 0)
	assert.InDelta(t, -80.0, b.EarlyReel, 1e-9)
	assert.Zero(t, b.Time)
	assert.Less(t, b.Raw, 0.0)
	assert.Zero(t, b.Final)
}

func TestCompose_ChemicalLightOnlyForTaggedGrade(t *testing.T) {
	e := newEngine(t)
	rules := ruleset.Default()
	small, _ := rules.Grade(ruleset.GradeSmall)
	large, _ := rules.Grade(ruleset.GradeLarge)
	in := baseInput()
	in.ChemicalLight = 1

	assert.Zero(t, e.Compose(in, small, 0).ChemicalLight)
	assert.InDelta(t, 10.0, e.Compose(in, large, 0).ChemicalLight, 1e-9)
}

func TestCompose_RodTradesSmallForLarge(t *testing.T) {
	e := newEngine(t)
	rules := ruleset.Default()
	small, _ := rules.Grade(ruleset.GradeSmall)
	large, _ := rules.Grade(ruleset.GradeLarge)
	in := baseInput()
	in.Rod = "레전드 낚싯대"
	assert.InDelta(t, -5.0, e.Compose(in, small, 0).Rod, 1e-9)
	assert.InDelta(t, 3.0, e.Compose(in, large, 0).Rod, 1e-9)
}

func TestTimeBonus_Saturates(t *testing.T) {
	e := newEngine(t)
	small, _ := ruleset.Default().Grade(ruleset.GradeSmall)
	assert.Zero(t, e.TimeBonus(small, 0))
	assert.InDelta(t, 5.0, e.TimeBonus(small, 30), 1e-9)
	assert.InDelta(t, 10.0, e.TimeBonus(small, 60), 1e-9)
	assert.InDelta(t, 10.0, e.TimeBonus(small, 600), 1e-9)
}

func TestGradeWeights_ComboShift(t *testing.T) {
	e := newEngine(t)
	in := baseInput()
	in.Rod = "레전드 낚싯대"
	in.BoosterActive = true
	in.ChemicalLight = 2
	in.EffectiveSeconds = 50

	w := e.GradeWeights(in)
	assert.Equal(t, 9599, w[0].Weight)
	assert.Equal(t, 400, w[1].Weight)
	assert.Equal(t, 1, w[2].Weight)

	in.EffectiveSeconds = 49
	assert.False(t, e.ComboActive(in))
	assert.Equal(t, 9899, e.GradeWeights(in)[0].Weight)

	in.EffectiveSeconds = 60
	in.BoosterActive = false
	assert.False(t, e.ComboActive(in))
}

func TestBinRange_SingleValueSpecies(t *testing.T) {
	e := newEngine(t)
	s := ruleset.Species{Name: "x", MinLength: 7, MaxLength: 7}
	for bin := 0; bin < 5; bin++ {
		lo, hi := e.BinRange(s, bin)
		assert.Equal(t, 7, lo)
		assert.Equal(t, 7, hi)
	}
}

func TestProperty_BinRangeWithinSpecies(t *testing.T) {
	e := newEngine(t)
	rapid.Check(t, func(rt *rapid.T) {
		lo := rapid.IntRange(1, 500).Draw(rt, "min")
		hi := rapid.IntRange(lo, lo+500).Draw(rt, "max")
		bin := rapid.IntRange(0, 4).Draw(rt, "bin")
		s := ruleset.Species{MinLength: lo, MaxLength: hi}
		a, b := e.BinRange(s, bin)
		assert.LessOrEqual(rt, lo, a)
		assert.LessOrEqual(rt, a, b)
		assert.LessOrEqual(rt, b, hi)
	})
}

func TestBinRange_AdjacentBinsDoNotShareEdges(t *testing.T) {
	e := newEngine(t)
	s := ruleset.Species{Name: "붕어", MinLength: 10, MaxLength: 30}
	var got [][2]int
	for bin := 0; bin < 5; bin++ {
		lo, hi := e.BinRange(s, bin)
		got = append(got, [2]int{lo, hi})
	}
	assert.Equal(t, [][2]int{{10, 13}, {14, 17}, {18, 21}, {22, 25}, {26, 30}}, got)
}

func TestProperty_BinRangesPartitionSpecies(t *testing.T) {
	e := newEngine(t)
	rapid.Check(t, func(rt *rapid.T) {
		lo := rapid.IntRange(1, 500).Draw(rt, "min")
		hi := rapid.IntRange(lo+5, lo+500).Draw(rt, "max")
		s := ruleset.Species{MinLength: lo, MaxLength: hi}
		next := lo
		for bin := 0; bin < 5; bin++ {
			a, b := e.BinRange(s, bin)
			if a != next {
				rt.Fatalf("bin %d starts at %d, want %d", bin, a, next)
			}
			next = b + 1
		}
		if next != hi+1 {
			rt.Fatalf("bins end at %d, want %d", next-1, hi)
		}
	})
}

// TestProperty_PathologicalBonusesNeverExceedCeiling stacks oversized rod,
// level and buff bonuses and checks the clamp.
func TestProperty_PathologicalBonusesNeverExceedCeiling(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		rules := ruleset.Default()
		huge := rapid.Float64Range(0, 1e6).Draw(rt, "huge")
		for i := range rules.Rods {
			rules.Rods[i].Bonus = map[ruleset.Grade]float64{
				ruleset.GradeSmall: huge, ruleset.GradeMedium: huge, ruleset.GradeLarge: huge,
			}
		}
		for i := range rules.LevelTiers {
			rules.LevelTiers[i].Bonus = map[ruleset.Grade]float64{
				ruleset.GradeSmall: huge, ruleset.GradeMedium: huge, ruleset.GradeLarge: huge,
			}
		}
		rules.Booster.Bonus = huge
		for i := range rules.ChemicalLights {
			rules.ChemicalLights[i].Bonus = huge
		}

		e := fishing.NewEngine(rules, rapidSource{rt}, zaptest.NewLogger(t))
		in := fishing.Input{
			Location:         rapid.SampledFrom(rules.LocationNames()).Draw(rt, "location"),
			CastSeconds:      60,
			EffectiveSeconds: rapid.IntRange(0, 120).Draw(rt, "effective"),
			EarlyReel:        rapid.Bool().Draw(rt, "early"),
			Rod:              rapid.SampledFrom([]string{"철제 낚싯대", "레전드 낚싯대"}).Draw(rt, "rod"),
			BoosterActive:    rapid.Bool().Draw(rt, "booster"),
			ChemicalLight:    rapid.IntRange(0, 3).Draw(rt, "chem"),
			Level:            rapid.IntRange(1, 300).Draw(rt, "level"),
		}
		out, err := e.Resolve(in)
		require.NoError(rt, err)
		assert.GreaterOrEqual(rt, out.Breakdown.Final, 0.0)
		assert.LessOrEqual(rt, out.Breakdown.Final, 95.0)
	})
}

func TestProperty_ResolveOutcomeWellFormed(t *testing.T) {
	rules := ruleset.Default()
	rapid.Check(t, func(rt *rapid.T) {
		e := fishing.NewEngine(rules, rapidSource{rt}, zaptest.NewLogger(t))
		in := baseInput()
		in.Location = rapid.SampledFrom(rules.LocationNames()).Draw(rt, "location")
		in.EffectiveSeconds = rapid.IntRange(0, 60).Draw(rt, "effective")
		in.EarlyReel = rapid.Bool().Draw(rt, "early")
		out, err := e.Resolve(in)
		require.NoError(rt, err)

		loc, _ := rules.Location(in.Location)
		var found *ruleset.Species
		for _, s := range loc.Species[out.Grade] {
			if s.Name == out.Species {
				found = &s
			}
		}
		require.NotNil(rt, found)
		assert.GreaterOrEqual(rt, out.Length, found.MinLength)
		assert.LessOrEqual(rt, out.Length, found.MaxLength)
		assert.Equal(rt, out.Success, out.Draw <= out.Breakdown.Final)
		if in.EarlyReel {
			assert.InDelta(rt, -80.0, out.Breakdown.EarlyReel, 1e-9)
		}
	})
}
