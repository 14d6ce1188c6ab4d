package orch

import (
	"github.com/dkeye/interview/internal/app"
	"github.com/dkeye/interview/internal/core"
	"github.com/rs/zerolog/log"
)

// Connect registers a freshly established connection and publishes the online count.
func (o *Orchestrator) Connect(conn *app.Connection) {
	o.mu.Lock()
	defer o.mu.Unlock()
	defer o.syncGauges()

	if conn.ConnectedAt.IsZero() {
		conn.ConnectedAt = o.now()
	}
	o.Registry.Register(conn)
	o.publishOnlineCount()
}

// OnDisconnect is the single cleanup path for a lost connection: it leaves the
// registry, drops any waiting entry and tears down the room the connection was in.
// Safe to call more than once.
func (o *Orchestrator) OnDisconnect(sid core.SessionID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	defer o.syncGauges()

	_, registered := o.Registry.Unregister(sid)

	if o.Queue.Cancel(sid) {
		o.publishWaiting()
	}
	if room, ok := o.Rooms.ByConnection(sid); ok {
		o.teardown(room, sid, "disconnect")
	}
	if registered {
		o.publishOnlineCount()
		log.Info().Str("module", "orch").Str("sid", string(sid)).Msg("disconnected")
	}
}

// Touch refreshes liveness without producing any traffic (transport pongs).
func (o *Orchestrator) Touch(sid core.SessionID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Registry.Touch(sid, o.now())
}

// IsOnline reports whether sid is registered and alive.
func (o *Orchestrator) IsOnline(sid core.SessionID) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.Registry.IsOnline(sid)
}

func (o *Orchestrator) handlePing(sid core.SessionID, _ core.EventKind, _ payload) error {
	o.send(sid, core.EvPong, nil)
	return nil
}

func (o *Orchestrator) handleHeartbeat(sid core.SessionID, _ core.EventKind, _ payload) error {
	o.Registry.Touch(sid, o.now())
	o.send(sid, core.EvHeartbeatResponse, map[string]string{"status": "alive"})
	return nil
}

func (o *Orchestrator) handleJoinProgressRoom(sid core.SessionID, _ core.EventKind, _ payload) error {
	o.send(sid, core.EvOnlineUsersCount, o.Registry.Count())
	return nil
}

// handleJoinInterviewPool is presence only: it records the identity and shows
// the sender the current pool, without touching the queue.
func (o *Orchestrator) handleJoinInterviewPool(sid core.SessionID, ev core.EventKind, p payload) error {
	user, err := o.identity(sid, ev, p)
	if err != nil {
		return err
	}
	o.Registry.UpdateUser(sid, *user)
	o.send(sid, core.EvOnlineUsersCount, o.Registry.Count())
	o.send(sid, core.EvWaitingUsers, o.Queue.Snapshot())
	log.Debug().Str("module", "orch").Str("sid", string(sid)).Str("username", user.Username).Msg("joined interview pool")
	return nil
}
