package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.NotNil(t, r)
	assert.Greater(t, len(r.Commands()), 0)
	assert.Equal(t, "/", r.Commands()[0].Name)
}

func TestResolve_CanonicalName(t *testing.T) {
	r := DefaultRegistry()

	cmd, ok := r.Resolve("/낚시")
	assert.True(t, ok)
	assert.Equal(t, "/낚시", cmd.Name)
	assert.Equal(t, HandlerCast, cmd.Handler)
}

func TestResolve_Alias(t *testing.T) {
	r := DefaultRegistry()

	for _, alias := range []string{"홈", "home", "메뉴"} {
		cmd, ok := r.Resolve(alias)
		require.True(t, ok, alias)
		assert.Equal(t, HandlerHome, cmd.Handler)
	}
	cmd, ok := r.Resolve("/아이템판매")
	require.True(t, ok)
	assert.Equal(t, "/판매", cmd.Name)
}

func TestResolve_NotFound(t *testing.T) {
	r := DefaultRegistry()

	_, ok := r.Resolve("/순간이동")
	assert.False(t, ok)
}

func TestEveryHandlerIsRegistered(t *testing.T) {
	r := DefaultRegistry()
	seen := map[string]bool{}
	for _, c := range r.Commands() {
		seen[c.Handler] = true
	}
	for _, h := range []string{
		HandlerHome, HandlerNickname, HandlerLocation, HandlerCast, HandlerReel,
		HandlerStatus, HandlerBag, HandlerRecords, HandlerShop, HandlerBuy,
		HandlerSell, HandlerSellAll, HandlerConfirmSale, HandlerCancelSale,
		HandlerEquip, HandlerBooster, HandlerChemicalLight, HandlerAttendance, HandlerNewbie,
	} {
		assert.True(t, seen[h], h)
	}
}

func TestNewRegistry_DuplicateName(t *testing.T) {
	_, err := NewRegistry([]Command{
		{Name: "/a", Handler: "x"},
		{Name: "/a", Handler: "y"},
	})
	assert.Error(t, err)
}

func TestNewRegistry_AliasConflictsWithName(t *testing.T) {
	_, err := NewRegistry([]Command{
		{Name: "/a", Handler: "x"},
		{Name: "/b", Aliases: []string{"/a"}, Handler: "y"},
	})
	assert.Error(t, err)
}

func TestNewRegistry_DuplicateAlias(t *testing.T) {
	_, err := NewRegistry([]Command{
		{Name: "/a", Aliases: []string{"/z"}, Handler: "x"},
		{Name: "/b", Aliases: []string{"/z"}, Handler: "y"},
	})
	assert.Error(t, err)
}

func TestCommandsByCategory(t *testing.T) {
	r := DefaultRegistry()
	cats := r.CommandsByCategory()
	assert.NotEmpty(t, cats[CategoryFishing])
	assert.NotEmpty(t, cats[CategoryShop])
	assert.NotEmpty(t, cats[CategoryBonus])
}

func TestSuggest(t *testing.T) {
	r := DefaultRegistry()

	got, ok := r.Suggest("/낚씨")
	require.True(t, ok)
	assert.Equal(t, "/낚시", got)

	got, ok = r.Suggest("/집어재사용")
	require.True(t, ok)
	assert.Equal(t, "/집어제사용", got)

	got, ok = r.Suggest("/케미라이트샤용")
	require.True(t, ok)
	assert.Equal(t, "/케미라이트", got)

	_, ok = r.Suggest("/아무거나")
	assert.False(t, ok)
	_, ok = r.Suggest("")
	assert.False(t, ok)
}

func TestClosest_ItemNames(t *testing.T) {
	items := []string{"지렁이", "떡밥", "집어제", "철제 낚싯대"}
	got, ok := Closest("지령이", items)
	require.True(t, ok)
	assert.Equal(t, "지렁이", got)

	got, ok = Closest("철제낚싯대", items)
	require.True(t, ok)
	assert.Equal(t, "철제 낚싯대", got)
}

func TestPropertyResolveFindsEveryAlias(t *testing.T) {
	r := DefaultRegistry()
	cmds := BuiltinCommands()
	rapid.Check(t, func(t *rapid.T) {
		c := rapid.SampledFrom(cmds).Draw(t, "cmd")
		names := append([]string{c.Name}, c.Aliases...)
		name := rapid.SampledFrom(names).Draw(t, "name")
		got, ok := r.Resolve(name)
		if !ok || got.Name != c.Name {
			t.Fatalf("Resolve(%q) = %v, %v; want %q", name, got, ok, c.Name)
		}
	})
}
