package ws

import "net/http"

// Handler receives lifecycle and message events for a connection. The
// message methods (OnTextMessage, OnBinaryMessage, OnCloseMessage) are
// invoked from the connection's own receive-loop goroutine, so a Handler
// implementation must not block on another connection's events and
// should treat its own Conn argument as the only one it may safely call
// back into synchronously. OnConnectionEstablished runs on the goroutine
// that called Manager.Add, and OnConnectionClosed on whichever goroutine
// first calls Conn.Close.
type Handler interface {
	// OnConnectionEstablished is called once, after the upgrade handshake
	// completes and the connection has been registered with a Manager. r
	// is the HTTP request that initiated the handshake.
	OnConnectionEstablished(conn *Conn, r *http.Request)

	// OnTextMessage is called for each complete text message.
	OnTextMessage(msg TextMessage)

	// OnBinaryMessage is called for each complete binary message.
	OnBinaryMessage(msg BinaryMessage)

	// OnCloseMessage is called when the peer sends a close frame, before
	// the connection is torn down.
	OnCloseMessage(msg CloseMessage)

	// OnConnectionClosed is called once, from Conn.Close, after the
	// connection's underlying stream has been closed. Manager.Remove and
	// the receive loop remove the connection from its Manager before this
	// call; Manager.Close and a direct Conn.Close call do not.
	OnConnectionClosed(conn *Conn)
}

// BaseHandler implements Handler with no-op methods. Embed it to satisfy
// the interface while overriding only the events a caller cares about.
type BaseHandler struct{}

func (BaseHandler) OnConnectionEstablished(*Conn, *http.Request) {}
func (BaseHandler) OnTextMessage(TextMessage)                    {}
func (BaseHandler) OnBinaryMessage(BinaryMessage)                {}
func (BaseHandler) OnCloseMessage(CloseMessage)                  {}
func (BaseHandler) OnConnectionClosed(*Conn)                     {}
