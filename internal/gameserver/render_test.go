package gameserver_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/angler/internal/game/ruleset"
	"github.com/cory-johannsen/angler/internal/gameserver"
)

func TestRenderer_GoldUsesThousandsSeparators(t *testing.T) {
	r := gameserver.NewRenderer(ruleset.Default())
	assert.Equal(t, "💰0", r.Gold(0))
	assert.Equal(t, "💰1,234,567", r.Gold(1234567))
	assert.Equal(t, "Gold: 💰1,000 | 제한골드: 💰50", r.Money(1000, 50))
}

func TestRecords_TrackSmallestAndLargest(t *testing.T) {
	e, clock := newEngine(t, noon)
	r := gameserver.NewRenderer(e.Rules())
	p := newPlayer(e)
	p.Location = "바다"

	assert.Contains(t, r.Records(e.Records(p)), "아직 잡은 물고기가 없습니다")

	p.Inventory["지렁이"] = 1
	_, err := e.StartCast(p, "바다", 30)
	require.NoError(t, err)
	clock.Advance(31 * time.Second)
	_, err = e.Reel(p)
	require.NoError(t, err)

	v := e.Records(p)
	require.NotNil(t, v.Smallest)
	require.NotNil(t, v.Largest)
	assert.Equal(t, v.Smallest.Length, v.Largest.Length)

	text := r.Records(v)
	assert.Contains(t, text, "📏 최소: 전갱이 15cm")
	assert.Contains(t, text, "🏆 최대: 전갱이 15cm")
	assert.Contains(t, text, "바다, 2026-07-01")
}

func TestRenderer_ErrorAndSuggestion(t *testing.T) {
	e, _ := newEngine(t, noon)
	r := gameserver.NewRenderer(e.Rules())

	_, err := e.Reel(newPlayer(e))
	ge, ok := gameserver.AsGameError(err)
	require.True(t, ok)
	text := r.Error(ge)
	assert.True(t, strings.HasPrefix(text, "⚠️ "+ge.Message))
	assert.Equal(t, len(ge.Hints), strings.Count(text, "💡"))

	assert.Contains(t, r.Suggestion("/기룩", "/기록", true), "'/기록'")
	assert.Contains(t, r.Suggestion("/zzz", "", false), "'/' 로 사용법")
	assert.Equal(t, "⚠️ 형식: /판매 [이름] [수량]", r.Usage("/판매 [이름] [수량]"))
}
