package ws

import (
	"errors"
	"unicode/utf8"
)

// serve runs the connection's receive loop until the connection is closed
// by either side or a protocol/IO error terminates it. It is started as
// its own goroutine by Manager.Add and owns removing the connection from
// mgr when it returns.
//
// The state machine distinguishes two states per RFC 6455 Section 5.4:
// Idle (no fragmented message in progress) and Assembling (a data frame
// with FIN=0 has opened a fragmented message and only continuation frames
// or control frames are expected until it closes). Control frames may be
// interleaved into either state without disturbing it.
func (c *Conn) serve(mgr *Manager) {
	var terminalErr error

	for {
		f, err := ReadFrame(c.reader, c.maxFramePayload)
		if err != nil {
			terminalErr = err
			break
		}

		switch f.Opcode {
		case OpPing:
			if err := c.sendPong(f.Payload); err != nil {
				terminalErr = err
			}
			if terminalErr != nil {
				goto done
			}
			continue

		case OpPong:
			continue

		case OpClose:
			code, reason := parseClosePayload(f.Payload)
			c.handler.OnCloseMessage(CloseMessage{Conn: c, Code: code, Reason: reason})
			terminalErr = ErrClosed
			goto done

		case OpText, OpBinary:
			if c.inFragment {
				terminalErr = &ProtocolError{Reason: "data frame received mid-fragment", Err: ErrInterruptedFragment}
				goto done
			}
			if f.Fin {
				c.dispatch(f.Opcode, f.Payload)
				continue
			}
			c.inFragment = true
			c.fragmentType = f.Opcode
			c.fragmentBuf.Reset()
			c.fragmentBuf.Write(f.Payload)

		case OpContinuation:
			if !c.inFragment {
				c.logger.Warn("continuation frame received while idle, discarding", "conn", c.ID)
				continue
			}
			c.fragmentBuf.Write(f.Payload)
			if f.Fin {
				c.inFragment = false
				payload := make([]byte, c.fragmentBuf.Len())
				copy(payload, c.fragmentBuf.Bytes())
				c.dispatch(c.fragmentType, payload)
			}
		}
	}

done:
	if !errors.Is(terminalErr, ErrClosed) {
		c.logger.Warn("connection terminated", "conn", c.ID, "error", terminalErr)
	}

	mgr.remove(c.ID)
	_ = c.Close()
}

// dispatch validates a complete message and hands it to the handler.
func (c *Conn) dispatch(opcode Opcode, payload []byte) {
	if opcode == OpText {
		if !utf8.Valid(payload) {
			c.logger.Warn("text message failed UTF-8 validation", "conn", c.ID)
			_ = c.Close()
			return
		}
		c.handler.OnTextMessage(TextMessage{Conn: c, Text: string(payload)})
		return
	}
	c.handler.OnBinaryMessage(BinaryMessage{Conn: c, Data: payload})
}

// parseClosePayload extracts the status code and UTF-8 reason from a close
// frame's payload per RFC 6455 Section 5.5.1. A payload shorter than 2
// bytes carries no status code.
func parseClosePayload(payload []byte) (CloseCode, string) {
	if len(payload) < 2 {
		return CloseNoCode, ""
	}
	code := CloseCode(uint16(payload[0])<<8 | uint16(payload[1]))
	return code, string(payload[2:])
}
