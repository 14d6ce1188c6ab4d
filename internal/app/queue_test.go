package app

import (
	"testing"
	"time"

	"github.com/dkeye/interview/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(sid string) domain.WaitingEntry {
	return domain.WaitingEntry{SessionID: sid, UserID: domain.UserID("u-" + sid), Username: sid, Since: time.Now()}
}

func TestQueueTryMatchPairsOldestWithNewest(t *testing.T) {
	q := NewQueue()
	for _, sid := range []string{"A", "B", "C", "D"} {
		q.Enqueue(entry(sid))
	}

	partner, newcomer, ok := q.TryMatch()
	require.True(t, ok)
	assert.Equal(t, "A", partner.SessionID)
	assert.Equal(t, "D", newcomer.SessionID)

	snap := q.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "B", snap[0].SessionID)
	assert.Equal(t, "C", snap[1].SessionID)
}

func TestQueueTryMatchNeedsTwo(t *testing.T) {
	q := NewQueue()
	_, _, ok := q.TryMatch()
	assert.False(t, ok)

	q.Enqueue(entry("A"))
	_, _, ok = q.TryMatch()
	assert.False(t, ok)
	assert.Equal(t, 1, q.Len())
}

func TestQueueEnqueueReplacesStaleEntry(t *testing.T) {
	q := NewQueue()
	q.Enqueue(entry("A"))
	q.Enqueue(entry("B"))

	again := entry("A")
	again.Username = "renamed"
	q.Enqueue(again)

	snap := q.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "B", snap[0].SessionID)
	assert.Equal(t, "A", snap[1].SessionID)
	assert.Equal(t, "renamed", snap[1].Username)
}

func TestQueueCancel(t *testing.T) {
	q := NewQueue()
	q.Enqueue(entry("A"))
	q.Enqueue(entry("B"))

	assert.True(t, q.Cancel("A"))
	assert.False(t, q.Cancel("A"))
	assert.False(t, q.Contains("A"))
	assert.True(t, q.Contains("B"))
	assert.Equal(t, 1, q.Len())
}

func TestQueueSnapshotIsCopy(t *testing.T) {
	q := NewQueue()
	q.Enqueue(entry("A"))
	snap := q.Snapshot()
	snap[0].Username = "mutated"
	assert.Equal(t, "A", q.Snapshot()[0].Username)
}
