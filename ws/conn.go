package ws

import (
	"bufio"
	"bytes"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Conn is one upgraded WebSocket connection. It bundles the buffered
// streams produced by Upgrade, a back-reference to the Handler that
// receives its events, and the bookkeeping needed to serialize writes and
// make Close idempotent.
//
// A Conn is safe for concurrent use: SendText, SendBinary, and the ping/pong/
// close senders may be called from any goroutine while the connection's own
// receive loop is running.
type Conn struct {
	// ID identifies the connection for the lifetime of the process. It is
	// assigned by Upgrade and never reused.
	ID uuid.UUID

	remoteAddr string
	request    *http.Request

	reader *bufio.Reader
	writer *bufio.Writer
	closer io.Closer

	handler Handler
	logger  *slog.Logger

	maxFramePayload int

	writeMu sync.Mutex

	closeOnce sync.Once
	closeMu   sync.RWMutex
	closed    bool

	fragmentBuf  bytes.Buffer
	fragmentType Opcode
	inFragment   bool
}

func newConn(netConn net.Conn, reader *bufio.Reader, writer *bufio.Writer, handler Handler, logger *slog.Logger, maxFramePayload int, request *http.Request) *Conn {
	c := &Conn{
		ID:              uuid.New(),
		writer:          writer,
		reader:          reader,
		closer:          netConn,
		handler:         handler,
		logger:          logger,
		maxFramePayload: maxFramePayload,
		request:         request,
	}
	if netConn != nil {
		c.remoteAddr = netConn.RemoteAddr().String()
	}
	return c
}

// String returns the connection's ID, satisfying fmt.Stringer for log lines.
func (c *Conn) String() string { return c.ID.String() }

// RemoteAddr returns the peer address captured at upgrade time, or "" if
// the connection was not built over a net.Conn.
func (c *Conn) RemoteAddr() string { return c.remoteAddr }

func (c *Conn) isClosed() bool {
	c.closeMu.RLock()
	defer c.closeMu.RUnlock()
	return c.closed
}

// SendText sends a single unfragmented text message.
func (c *Conn) SendText(text string) error {
	if c.isClosed() {
		return ErrClosed
	}
	if !utf8.ValidString(text) {
		return &ProtocolError{Reason: "outbound text", Err: ErrInvalidUTF8}
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return WriteTextFrame(c.writer, text)
}

// SendBinary sends a single unfragmented binary message.
func (c *Conn) SendBinary(data []byte) error {
	if c.isClosed() {
		return ErrClosed
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return WriteBinaryFrame(c.writer, data)
}

func (c *Conn) sendPing(payload []byte) error {
	if c.isClosed() {
		return ErrClosed
	}
	if len(payload) > maxControlPayload {
		return ErrControlTooLarge
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return WritePingFrame(c.writer, payload)
}

func (c *Conn) sendPong(payload []byte) error {
	if c.isClosed() {
		return ErrClosed
	}
	if len(payload) > maxControlPayload {
		return ErrControlTooLarge
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return WritePongFrame(c.writer, payload)
}

// Ping sends a ping frame carrying an optional application payload, for
// callers running their own keep-alive loop.
func (c *Conn) Ping(payload []byte) error { return c.sendPing(payload) }

// SendClose sends a close frame with the given status code and reason. It
// does not itself close the underlying stream; call Close to do both.
func (c *Conn) SendClose(code CloseCode, reason string) error {
	if c.isClosed() {
		return ErrClosed
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return WriteCloseFrame(c.writer, code, reason)
}

// Close marks the connection closed, sends a best-effort normal-closure
// close frame (errors are logged, not returned, since the connection is
// being torn down regardless of whether the peer receives it), closes the
// underlying stream, and invokes handler.OnConnectionClosed. It is
// idempotent and safe to call concurrently with an in-progress send or
// with the connection's own receive loop; only the first call has any
// effect, and OnConnectionClosed fires exactly once regardless of which
// caller — the receive loop on termination, Manager.Remove, or a direct
// caller — triggers the close.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.closeMu.Lock()
		c.closed = true
		c.closeMu.Unlock()

		c.writeMu.Lock()
		if werr := WriteCloseFrame(c.writer, CloseNormal, ""); werr != nil {
			c.logger.Warn("best-effort close frame failed", "conn", c.ID, "error", werr)
		}
		c.writeMu.Unlock()

		if c.closer != nil {
			err = c.closer.Close()
		}

		c.handler.OnConnectionClosed(c)
	})
	return err
}
