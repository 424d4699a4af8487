package telnet

import (
	"bufio"
	"io"
	"net"
	"strings"
	"sync"
	"time"
)

// Telnet command bytes (RFC 854) and the single option the console offers.
const (
	IAC  byte = 255
	DONT byte = 254
	DO   byte = 253
	WONT byte = 252
	WILL byte = 251
	SB   byte = 250
	GA   byte = 249
	NOP  byte = 241
	SE   byte = 240

	OptSuppressGoAhead byte = 3
)

// MaxLineBytes bounds one input line. Bytes past the bound are discarded
// until the line ends.
const MaxLineBytes = 1024

// parseState tracks where the reader is inside a telnet command sequence.
type parseState int

const (
	stateData parseState = iota
	stateCommand
	stateOption
	stateSub
	stateSubIAC
)

var crlf = strings.NewReplacer("\r\n", "\r\n", "\n", "\r\n")

// Conn is a line-oriented telnet connection. Command sequences are dropped
// from input and every line ending is written as CRLF.
type Conn struct {
	raw   net.Conn
	in    *bufio.Reader
	state parseState
	sawCR bool

	wmu sync.Mutex

	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewConn wraps raw. A zero timeout disables that deadline.
//
// Precondition: raw must be open.
func NewConn(raw net.Conn, readTimeout, writeTimeout time.Duration) *Conn {
	return &Conn{
		raw:          raw,
		in:           bufio.NewReader(raw),
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

// Negotiate offers to suppress go-ahead so clients send whole lines.
func (c *Conn) Negotiate() error {
	return c.write(string([]byte{IAC, WILL, OptSuppressGoAhead}))
}

// ReadLine returns the next input line without its terminator. CR, LF and
// CRLF all end a line. Control bytes other than tab are dropped and
// invalid UTF-8 is removed.
//
// Postcondition: on error the partial line read so far is returned with it.
func (c *Conn) ReadLine() (string, error) {
	if c.readTimeout > 0 {
		_ = c.raw.SetReadDeadline(time.Now().Add(c.readTimeout))
	}
	line := make([]byte, 0, 64)
	for {
		b, err := c.in.ReadByte()
		if err != nil {
			return text(line), err
		}
		data, ok := c.feed(b)
		if !ok {
			continue
		}
		if data == '\n' && c.sawCR {
			c.sawCR = false
			continue
		}
		c.sawCR = data == '\r'
		if data == '\r' || data == '\n' {
			return text(line), nil
		}
		if data < 0x20 && data != '\t' {
			continue
		}
		if len(line) < MaxLineBytes {
			line = append(line, data)
		}
	}
}

// feed advances the command parser by one byte and reports whether b is
// line data.
func (c *Conn) feed(b byte) (byte, bool) {
	switch c.state {
	case stateCommand:
		switch b {
		case WILL, WONT, DO, DONT:
			c.state = stateOption
		case SB:
			c.state = stateSub
		default:
			// IAC IAC is a literal 0xFF, which is never valid UTF-8 text.
			c.state = stateData
		}
		return 0, false
	case stateOption:
		c.state = stateData
		return 0, false
	case stateSub:
		if b == IAC {
			c.state = stateSubIAC
		}
		return 0, false
	case stateSubIAC:
		c.state = stateSub
		if b == SE {
			c.state = stateData
		}
		return 0, false
	}
	if b == IAC {
		c.state = stateCommand
		return 0, false
	}
	return b, true
}

func text(line []byte) string {
	return strings.ToValidUTF8(string(line), "")
}

// WriteLine sends s followed by CRLF, translating embedded newlines so
// multi-line replies render on every client.
func (c *Conn) WriteLine(s string) error {
	return c.write(crlf.Replace(s) + "\r\n")
}

// WritePrompt sends s with no line ending.
func (c *Conn) WritePrompt(s string) error {
	return c.write(s)
}

func (c *Conn) write(s string) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	if c.writeTimeout > 0 {
		_ = c.raw.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	_, err := io.WriteString(c.raw, s)
	return err
}

// Close closes the connection.
func (c *Conn) Close() error {
	return c.raw.Close()
}

// RemoteAddr returns the client's address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.raw.RemoteAddr()
}
