package app

import (
	"github.com/dkeye/interview/internal/core"
	"github.com/dkeye/interview/internal/domain"
)

// Queue is the FIFO matchmaking pool. At most one entry per connection.
// It does no locking of its own; the orchestrator serializes access.
type Queue struct {
	entries []domain.WaitingEntry
}

func NewQueue() *Queue { return &Queue{} }

// Enqueue appends e. A stale entry for the same connection is dropped first.
func (q *Queue) Enqueue(e domain.WaitingEntry) {
	q.remove(core.SessionID(e.SessionID))
	q.entries = append(q.entries, e)
}

// TryMatch pairs the newest entry with the longest-waiting one.
// partner is the older entry, newcomer the most recent one.
func (q *Queue) TryMatch() (partner, newcomer domain.WaitingEntry, ok bool) {
	n := len(q.entries)
	if n < 2 {
		return domain.WaitingEntry{}, domain.WaitingEntry{}, false
	}
	partner, newcomer = q.entries[0], q.entries[n-1]
	rest := make([]domain.WaitingEntry, 0, n-2)
	rest = append(rest, q.entries[1:n-1]...)
	q.entries = rest
	return partner, newcomer, true
}

// Cancel removes the entry of sid if present.
func (q *Queue) Cancel(sid core.SessionID) bool {
	return q.remove(sid)
}

func (q *Queue) Contains(sid core.SessionID) bool {
	for _, e := range q.entries {
		if e.SessionID == string(sid) {
			return true
		}
	}
	return false
}

func (q *Queue) Len() int { return len(q.entries) }

// Snapshot returns the waiting entries oldest first.
func (q *Queue) Snapshot() []domain.WaitingEntry {
	out := make([]domain.WaitingEntry, len(q.entries))
	copy(out, q.entries)
	return out
}

func (q *Queue) remove(sid core.SessionID) bool {
	for i, e := range q.entries {
		if e.SessionID == string(sid) {
			q.entries = append(q.entries[:i:i], q.entries[i+1:]...)
			return true
		}
	}
	return false
}
