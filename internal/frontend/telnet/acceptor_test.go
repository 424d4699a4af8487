package telnet

import (
	"bufio"
	"context"
	"net"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/angler/internal/config"
)

// echoHandler echoes lines until "quit" or the connection closes.
type echoHandler struct {
	sessions atomic.Int32
}

func (h *echoHandler) HandleSession(_ context.Context, conn *Conn) error {
	h.sessions.Add(1)
	for {
		line, err := conn.ReadLine()
		if err != nil {
			return err
		}
		if line == "quit" {
			return conn.WriteLine("bye")
		}
		if err := conn.WriteLine("echo: " + line); err != nil {
			return err
		}
	}
}

var testTelnetCfg = config.TelnetConfig{
	Host:         "127.0.0.1",
	Port:         0,
	ReadTimeout:  5 * time.Second,
	WriteTimeout: 5 * time.Second,
}

func startAcceptor(t *testing.T, handler SessionHandler) (*Acceptor, chan error) {
	t.Helper()
	acc := NewAcceptor(testTelnetCfg, handler, zaptest.NewLogger(t))
	errCh := make(chan error, 1)
	go func() { errCh <- acc.Start() }()
	require.Eventually(t, func() bool { return acc.Addr() != "" }, 2*time.Second, 10*time.Millisecond)
	return acc, errCh
}

// client reads server output until it contains want.
type client struct {
	t    *testing.T
	conn net.Conn
	r    *bufio.Reader
	seen strings.Builder
}

func dial(t *testing.T, addr string) *client {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, 2*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return &client{t: t, conn: conn, r: bufio.NewReader(conn)}
}

func (c *client) send(line string) {
	c.t.Helper()
	_, err := c.conn.Write([]byte(line + "\r\n"))
	require.NoError(c.t, err)
}

func (c *client) expect(want string) string {
	c.t.Helper()
	_ = c.conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for !strings.Contains(c.seen.String(), want) {
		b, err := c.r.ReadByte()
		require.NoError(c.t, err, "waiting for %q, saw %q", want, c.seen.String())
		c.seen.WriteByte(b)
	}
	out := c.seen.String()
	c.seen.Reset()
	return out
}

func TestAcceptor_StartAndStop(t *testing.T) {
	handler := &echoHandler{}
	acc, errCh := startAcceptor(t, handler)

	c := dial(t, acc.Addr())
	c.send("hello")
	c.expect("echo: hello")
	c.send("quit")
	c.expect("bye")

	acc.Stop()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("acceptor did not stop in time")
	}
	assert.Equal(t, int32(1), handler.sessions.Load())
}

func TestAcceptor_StopClosesOpenSessions(t *testing.T) {
	acc, errCh := startAcceptor(t, &echoHandler{})

	for range 3 {
		c := dial(t, acc.Addr())
		c.send("ping")
		c.expect("echo: ping")
	}
	assert.Equal(t, 3, acc.Sessions())

	acc.Stop()
	assert.NoError(t, <-errCh)
	assert.Equal(t, 0, acc.Sessions())
}

func TestAcceptor_StopBeforeStart(t *testing.T) {
	acc := NewAcceptor(testTelnetCfg, &echoHandler{}, zaptest.NewLogger(t))
	acc.Stop()
	assert.NoError(t, acc.Start())
}
