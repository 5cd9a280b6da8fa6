package ws

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Manager is a concurrency-safe registry of live connections. Add and
// Remove take the registry's write lock; the broadcast methods take the
// read lock and hold it for the duration of enumeration, so a connection
// cannot be removed out from under a broadcast in progress and a broadcast
// in progress cannot observe a half-added connection.
type Manager struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]*Conn
	logger  *slog.Logger
}

// ManagerOptions configures a Manager. A nil *ManagerOptions is equivalent
// to the zero value.
type ManagerOptions struct {
	// Logger receives Manager-level events (registration, removal,
	// broadcast send failures). A nil Logger falls back to slog.Default().
	Logger *slog.Logger
}

// NewManager creates an empty Manager.
func NewManager(opts *ManagerOptions) *Manager {
	logger := slog.Default()
	if opts != nil && opts.Logger != nil {
		logger = opts.Logger
	}
	return &Manager{
		clients: make(map[uuid.UUID]*Conn),
		logger:  logger,
	}
}

// Add registers conn, starts its receive loop, and notifies its handler
// that the connection is established. Upgrade calls this for every
// successful handshake; callers normally do not call it directly.
func (m *Manager) Add(conn *Conn) {
	m.mu.Lock()
	m.clients[conn.ID] = conn
	m.mu.Unlock()

	go conn.serve(m)
	conn.handler.OnConnectionEstablished(conn, conn.request)
}

// remove deletes conn's ID from the registry. It does not close the
// connection; callers that want that should call conn.Close separately.
// It is called by a connection's own receive loop once it terminates.
func (m *Manager) remove(id uuid.UUID) {
	m.mu.Lock()
	delete(m.clients, id)
	m.mu.Unlock()
}

// Remove closes conn and removes it from the registry. Safe to call even
// if conn is not currently registered.
func (m *Manager) Remove(conn *Conn) {
	m.remove(conn.ID)
	_ = conn.Close()
}

// Len returns the number of currently registered connections.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

// Snapshot returns a copy of the currently registered connections. The
// slice is safe to range over without holding any lock; it may be
// momentarily stale relative to concurrent Add/Remove calls.
func (m *Manager) Snapshot() []*Conn {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Conn, 0, len(m.clients))
	for _, c := range m.clients {
		out = append(out, c)
	}
	return out
}

// BroadcastText sends text to every registered connection. A send failure
// on one connection is logged and does not interrupt delivery to the rest.
func (m *Manager) BroadcastText(text string) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.clients {
		if err := c.SendText(text); err != nil {
			m.logger.Warn("broadcast text send failed", "conn", c.ID, "error", err)
		}
	}
}

// BroadcastBinary sends data to every registered connection. A send
// failure on one connection is logged and does not interrupt delivery to
// the rest.
func (m *Manager) BroadcastBinary(data []byte) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.clients {
		if err := c.SendBinary(data); err != nil {
			m.logger.Warn("broadcast binary send failed", "conn", c.ID, "error", err)
		}
	}
}

// Close closes every registered connection and empties the registry.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, c := range m.clients {
		_ = c.Close()
		delete(m.clients, id)
	}
	return nil
}
