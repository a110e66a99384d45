// Package signal provides a synchronous observer registry.
//
// A Signal holds an ordered list of connections. Emit calls every connected,
// unblocked slot in connection order on the caller's goroutine. Connections
// can be blocked for a scope to suppress re-entrant notifications:
//
//	defer signal.Blocked(dirConn, listingConn)()
//	dirPath.SetSegments(segs) // dirConn's slot is not invoked
//
// Signals are not safe for concurrent use. They are meant to be driven from a
// single event loop, such as a bubbletea Update call.
package signal

// Signal dispatches values of type T to connected slots.
type Signal[T any] struct {
	conns []*Connection[T]
}

// Connection is the registration of one slot on a Signal.
type Connection[T any] struct {
	sig     *Signal[T]
	slot    func(T)
	blocked int
}

// Blocker is implemented by connections whose slots can be suppressed.
type Blocker interface {
	Block()
	Unblock()
}

// Connect registers slot and returns its connection.
func (s *Signal[T]) Connect(slot func(T)) *Connection[T] {
	c := &Connection[T]{sig: s, slot: slot}
	s.conns = append(s.conns, c)
	return c
}

// Emit invokes every connected slot that is not blocked. Slots connected or
// disconnected during dispatch take effect on the next Emit.
func (s *Signal[T]) Emit(v T) {
	if s == nil || len(s.conns) == 0 {
		return
	}
	snapshot := make([]*Connection[T], len(s.conns))
	copy(snapshot, s.conns)
	for _, c := range snapshot {
		if c.sig == nil || c.blocked > 0 {
			continue
		}
		c.slot(v)
	}
}

// Len returns the number of live connections.
func (s *Signal[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.conns)
}

// DisconnectAll removes every connection.
func (s *Signal[T]) DisconnectAll() {
	for _, c := range s.conns {
		c.sig = nil
	}
	s.conns = nil
}

// Disconnect removes the connection from its signal. It is safe to call more
// than once and on a nil connection.
func (c *Connection[T]) Disconnect() {
	if c == nil || c.sig == nil {
		return
	}
	conns := c.sig.conns
	for i, other := range conns {
		if other == c {
			c.sig.conns = append(conns[:i:i], conns[i+1:]...)
			break
		}
	}
	c.sig = nil
}

// Connected reports whether the connection is still registered.
func (c *Connection[T]) Connected() bool {
	return c != nil && c.sig != nil
}

// Block suppresses the slot until a matching Unblock. Blocks nest.
func (c *Connection[T]) Block() {
	if c == nil {
		return
	}
	c.blocked++
}

// Unblock releases one Block.
func (c *Connection[T]) Unblock() {
	if c == nil || c.blocked == 0 {
		return
	}
	c.blocked--
}

// IsBlocked reports whether the slot is currently suppressed.
func (c *Connection[T]) IsBlocked() bool {
	return c != nil && c.blocked > 0
}

// Blocked blocks every given connection and returns a func that releases
// them. Nil entries are skipped, so callers can pass connections that may not
// be established yet. The release func is idempotent.
func Blocked(conns ...Blocker) func() {
	held := make([]Blocker, 0, len(conns))
	for _, c := range conns {
		if isNil(c) {
			continue
		}
		c.Block()
		held = append(held, c)
	}
	released := false
	return func() {
		if released {
			return
		}
		released = true
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unblock()
		}
	}
}

// nilChecker lets Blocked detect typed nil connections stored in the
// interface without reflection.
type nilChecker interface {
	isNil() bool
}

func (c *Connection[T]) isNil() bool { return c == nil }

func isNil(b Blocker) bool {
	if b == nil {
		return true
	}
	if n, ok := b.(nilChecker); ok {
		return n.isNil()
	}
	return false
}
