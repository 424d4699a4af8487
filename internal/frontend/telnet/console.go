package telnet

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/angler/internal/game/session"
)

// Console texts.
const (
	Banner       = "🎣 낚시 RPG 콘솔에 접속했습니다. (/종료 로 나가기)"
	LoginPrompt  = "아이디: "
	Prompt       = "낚시> "
	InUseText    = "⚠️ 이미 접속 중인 아이디입니다."
	FarewellText = "안녕히 가세요. 🎣"
)

var quitCommands = map[string]bool{"/종료": true, "/quit": true}

// TurnHandler runs one chat turn and returns the reply text.
type TurnHandler interface {
	Handle(ctx context.Context, uid, text string) string
}

// Console is the SessionHandler for the game: it asks for a user id, then
// relays each line to the TurnHandler and writes pushed notifications
// between turns.
type Console struct {
	turns    TurnHandler
	sessions *session.Manager
	logger   *zap.Logger
}

// NewConsole creates a Console.
//
// Precondition: all arguments must be non-nil.
func NewConsole(turns TurnHandler, sessions *session.Manager, logger *zap.Logger) *Console {
	return &Console{turns: turns, sessions: sessions, logger: logger}
}

// HandleSession implements SessionHandler.
func (c *Console) HandleSession(ctx context.Context, conn *Conn) error {
	if err := conn.WriteLine(Banner); err != nil {
		return err
	}
	uid, err := c.login(conn)
	if err != nil {
		return err
	}
	sess, err := c.sessions.Attach(uid, conn.RemoteAddr().String())
	if err != nil {
		_ = conn.WriteLine(InUseText)
		return err
	}
	logger := c.logger.With(zap.String("uid", uid))
	logger.Info("console login")

	pumped := make(chan struct{})
	go func() {
		defer close(pumped)
		for msg := range sess.Outbox.Messages() {
			if err := conn.WriteLine("\n" + Colorize(Yellow, msg)); err != nil {
				logger.Debug("dropping notification", zap.Error(err))
			}
		}
	}()
	defer func() {
		_ = c.sessions.Detach(uid)
		<-pumped
	}()

	for {
		if err := conn.WritePrompt(Colorize(Cyan, Prompt)); err != nil {
			return err
		}
		line, err := conn.ReadLine()
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if quitCommands[line] {
			return conn.WriteLine(FarewellText)
		}
		if reply := c.turns.Handle(ctx, uid, line); reply != "" {
			if err := conn.WriteLine(reply); err != nil {
				return err
			}
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (c *Console) login(conn *Conn) (string, error) {
	for range 3 {
		if err := conn.WritePrompt(LoginPrompt); err != nil {
			return "", err
		}
		line, err := conn.ReadLine()
		if err != nil {
			return "", err
		}
		if uid := strings.TrimSpace(line); uid != "" && !strings.ContainsAny(uid, " \t") {
			return uid, nil
		}
	}
	return "", errors.New("no user id given")
}
