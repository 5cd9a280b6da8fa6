package ws

import (
	"bufio"
	"log/slog"
	"net"
)

// Internal helpers exposed for black-box-adjacent tests in this package
// that need to drive the codec and connection state machine directly.

func NewFrameForTest(fin bool, opcode Opcode, payload []byte, masked bool, mask [4]byte) *Frame {
	return &Frame{Fin: fin, Opcode: opcode, Payload: payload, masked: masked, mask: mask}
}

func WriteFrameRawForTest(w *bufio.Writer, f *Frame) error {
	return writeFrameRaw(w, f)
}

func ApplyMaskForTest(data []byte, mask [4]byte) {
	applyMask(data, mask)
}

func NewTestConn(netConn net.Conn, reader *bufio.Reader, writer *bufio.Writer, handler Handler) *Conn {
	return newConn(netConn, reader, writer, handler, slog.Default(), DefaultMaxFramePayload, nil)
}

func (c *Conn) ServeForTest(mgr *Manager) {
	c.serve(mgr)
}
