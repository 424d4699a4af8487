// Package storagetest provides a conformance suite run against every Store.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/angler/internal/game/player"
	"github.com/cory-johannsen/angler/internal/storage"
)

// SamplePlayer returns a fully populated record.
func SamplePlayer(uid string) *player.Player {
	caught := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	p := player.New(uid, "철제 낚싯대", caught)
	_ = p.SetNickname("낚시왕")
	p.Gold = 1234
	p.RestrictedGold = 100
	p.Level = 3
	p.Exp = 42
	p.Location = "바다"
	p.Inventory["지렁이"] = 7
	f := player.Fish{ID: "f1", Name: "전갱이", Length: 21, Grade: "소형", Price: 42, Location: "바다", CaughtAt: caught}
	p.Bag = append(p.Bag, f)
	p.RecordCatch(f)
	p.Buffs.BoosterUses = 3
	p.AttendanceLast = "2026-07-01"
	return p
}

// Run exercises the Store contract against a fresh store.
//
// Precondition: newStore must return an empty store for each call.
func Run(t *testing.T, newStore func(t *testing.T) storage.Store) {
	t.Run("LoadMissing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Load(context.Background(), "nobody")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("SaveLoadRoundTrip", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		want := SamplePlayer("u1")
		require.NoError(t, s.Save(ctx, want))

		got, err := s.Load(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, want.Nickname, got.Nickname)
		assert.Equal(t, want.Gold, got.Gold)
		assert.Equal(t, want.Inventory, got.Inventory)
		require.Len(t, got.Bag, 1)
		assert.True(t, want.Bag[0].CaughtAt.Equal(got.Bag[0].CaughtAt))
		require.NotNil(t, got.Records.Largest)
		assert.Equal(t, 21, got.Records.Largest.Length)
		assert.Equal(t, 3, got.Buffs.BoosterUses)
	})

	t.Run("SaveOverwrites", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		p := SamplePlayer("u1")
		require.NoError(t, s.Save(ctx, p))
		p.Gold = 9
		require.NoError(t, s.Save(ctx, p))

		got, err := s.Load(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, 9, got.Gold)
	})

	t.Run("RecordsAreIndependent", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.Save(ctx, SamplePlayer("a")))
		b := SamplePlayer("b")
		b.Gold = 1
		require.NoError(t, s.Save(ctx, b))

		got, err := s.Load(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, 1234, got.Gold)
	})

	t.Run("Delete", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.Save(ctx, SamplePlayer("u1")))
		require.NoError(t, s.Delete(ctx, "u1"))
		_, err := s.Load(ctx, "u1")
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.ErrorIs(t, s.Delete(ctx, "u1"), storage.ErrNotFound)
	})

	t.Run("Ping", func(t *testing.T) {
		assert.NoError(t, newStore(t).Ping(context.Background()))
	})
}
