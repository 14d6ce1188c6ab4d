package signal

import (
	"fmt"
	"time"

	"github.com/dkeye/interview/internal/core"
)

// installKeepalive arms the read deadline; every pong pushes it forward and
// refreshes the connection's liveness.
func (ctl *SignalWSController) installKeepalive(sid core.SessionID, c *WsSignalConn) error {
	c.conn.SetReadLimit(ctl.opts.ReadLimit)
	if err := c.conn.SetReadDeadline(time.Now().Add(ctl.opts.PongWait)); err != nil {
		return fmt.Errorf("set read deadline: %w", err)
	}
	c.conn.SetPongHandler(func(string) error {
		ctl.Orch.Touch(sid)
		return c.conn.SetReadDeadline(time.Now().Add(ctl.opts.PongWait))
	})
	return nil
}
