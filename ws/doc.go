// Package ws implements the server side of the WebSocket protocol (RFC 6455)
// on top of net/http's hijack-based upgrade path.
//
// It provides:
//   - A frame codec: ReadFrame and the Write*Frame functions parse and emit
//     RFC 6455 data frames over arbitrary buffered byte streams.
//   - Conn: a per-connection value bundling an identity, its streams, and a
//     shared Handler, with serialized sends and an idempotent Close.
//   - Upgrade: validates an HTTP request as a WebSocket handshake and hands
//     the resulting Conn to a Manager.
//   - Manager: a concurrency-safe registry of live connections supporting
//     broadcast under live mutation.
//
// WebSocket extensions, subprotocol negotiation beyond a single hook,
// client-initiated (outbound) connections, and TLS termination are out of
// scope; see the package's design notes for the reasoning behind each open
// protocol question (client masking enforcement, continuation-while-idle
// handling, and so on).
//
// RFC reference: https://datatracker.ietf.org/doc/html/rfc6455
package ws
