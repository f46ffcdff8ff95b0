package live

import "sync"

// Mailbox is a one-slot Sink that keeps only the newest snapshot.
// A stream handler drains C; writers never block. A sequenced snapshot
// older than one already accepted is dropped, whether or not the newer one
// has been drained yet.
type Mailbox struct {
	mu     sync.Mutex
	ch     chan Snapshot
	latest uint64
	closed bool
}

var _ Sink = (*Mailbox)(nil)

// NewMailbox creates an empty mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{ch: make(chan Snapshot, 1)}
}

// Deliver replaces any pending snapshot with snap unless snap is older than
// the newest snapshot already accepted.
func (m *Mailbox) Deliver(snap Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if snap.Seq != 0 {
		if snap.Seq <= m.latest {
			return nil
		}
		m.latest = snap.Seq
	}

	select {
	case m.ch <- snap:
		return nil
	default:
	}

	// Slot is full: drop the stale snapshot. Only writers hold mu, so the
	// slot stays free until the send below.
	select {
	case <-m.ch:
	default:
	}
	m.ch <- snap
	return nil
}

// C returns the channel snapshots arrive on.
func (m *Mailbox) C() <-chan Snapshot {
	return m.ch
}

// Close makes further deliveries fail with ErrClosed.
func (m *Mailbox) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}
