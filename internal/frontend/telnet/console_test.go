package telnet

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/angler/internal/game/command"
	"github.com/cory-johannsen/angler/internal/game/dice"
	"github.com/cory-johannsen/angler/internal/game/ruleset"
	"github.com/cory-johannsen/angler/internal/game/session"
	"github.com/cory-johannsen/angler/internal/gameserver"
	"github.com/cory-johannsen/angler/internal/storage"
)

type upperTurns struct{}

func (upperTurns) Handle(_ context.Context, uid, text string) string {
	if text == "" {
		return ""
	}
	return uid + ">" + strings.ToUpper(text)
}

func TestConsole_LoginAndRelay(t *testing.T) {
	sessions := session.NewManager(4)
	acc, _ := startAcceptor(t, NewConsole(upperTurns{}, sessions, zaptest.NewLogger(t)))
	t.Cleanup(acc.Stop)

	c := dial(t, acc.Addr())
	c.expect(LoginPrompt)
	c.send("   ")
	c.expect(LoginPrompt)
	c.send("u1")
	c.expect(Prompt)
	assert.Eventually(t, func() bool { return sessions.Count() == 1 }, time.Second, 10*time.Millisecond)

	c.send("status")
	c.expect("u1>STATUS")
	c.send("/종료")
	c.expect(FarewellText)
	assert.Eventually(t, func() bool { return sessions.Count() == 0 }, time.Second, 10*time.Millisecond)
}

func TestConsole_DuplicateLoginRejected(t *testing.T) {
	sessions := session.NewManager(4)
	acc, _ := startAcceptor(t, NewConsole(upperTurns{}, sessions, zaptest.NewLogger(t)))
	t.Cleanup(acc.Stop)

	first := dial(t, acc.Addr())
	first.expect(LoginPrompt)
	first.send("u1")
	first.expect(Prompt)

	second := dial(t, acc.Addr())
	second.expect(LoginPrompt)
	second.send("u1")
	second.expect(InUseText)
}

func TestConsole_AutoReelNotification(t *testing.T) {
	logger := zaptest.NewLogger(t)
	sessions := session.NewManager(4)
	clock := gameserver.NewManualClock(time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC))
	engine := gameserver.NewEngine(ruleset.Default(), dice.NewCryptoSource(), clock, logger)
	d := gameserver.NewDispatcher(engine, storage.NewMemory(), command.DefaultRegistry(), logger,
		gameserver.WithAutoReel(sessions))
	t.Cleanup(d.Close)

	acc, _ := startAcceptor(t, NewConsole(d, sessions, logger))
	t.Cleanup(acc.Stop)

	c := dial(t, acc.Addr())
	c.expect(LoginPrompt)
	c.send("angler-1")
	c.expect(Prompt)
	for _, line := range []string{"/닉네임 낚시왕", "/초보자찬스", "/구매 지렁이 3", "/장소 바다"} {
		c.send(line)
		c.expect(Prompt)
	}
	c.send("/낚시 1s")
	c.expect("캐스팅 시작")
	c.expect("뭔가가 걸렸다")
}
