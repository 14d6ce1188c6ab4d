package signal

import (
	"testing"

	"github.com/dkeye/interview/internal/core"
	"github.com/stretchr/testify/assert"
)

func TestWsSignalConnTrySend(t *testing.T) {
	c := &WsSignalConn{send: make(chan core.Frame, 1)}

	assert.NoError(t, c.TrySend(core.Frame(`{"type":"pong"}`)))
	assert.ErrorIs(t, c.TrySend(core.Frame(`{"type":"pong"}`)), core.ErrBackpressure)

	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	assert.ErrorIs(t, c.TrySend(core.Frame(`{"type":"pong"}`)), core.ErrClosed)
}
