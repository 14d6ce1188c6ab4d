package app

import (
	"context"
	"time"

	"github.com/dkeye/interview/internal/core"
	"github.com/dkeye/interview/internal/domain"
	"github.com/rs/zerolog/log"
)

// Connection is one live transport session.
type Connection struct {
	SID         core.SessionID
	User        domain.User
	Signal      core.SignalConnection
	Cancel      context.CancelFunc
	ConnectedAt time.Time
	LastSeen    time.Time
	Alive       bool
}

// Registry tracks every connected endpoint and its liveness.
// It does no locking of its own; the orchestrator serializes access.
type Registry struct {
	conns map[core.SessionID]*Connection
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[core.SessionID]*Connection)}
}

// Register adds c, replacing any previous connection with the same id.
func (r *Registry) Register(c *Connection) {
	if c.ConnectedAt.IsZero() {
		c.ConnectedAt = time.Now()
	}
	if c.LastSeen.IsZero() {
		c.LastSeen = c.ConnectedAt
	}
	c.Alive = true
	r.conns[c.SID] = c
	log.Info().Str("module", "app.registry").Str("sid", string(c.SID)).Int("online", len(r.conns)).Msg("registered")
}

// Unregister removes sid. Absent ids are a no-op.
func (r *Registry) Unregister(sid core.SessionID) (*Connection, bool) {
	c, ok := r.conns[sid]
	if !ok {
		return nil, false
	}
	delete(r.conns, sid)
	c.Alive = false
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Int("online", len(r.conns)).Msg("unregistered")
	return c, true
}

func (r *Registry) Get(sid core.SessionID) (*Connection, bool) {
	c, ok := r.conns[sid]
	return c, ok
}

func (r *Registry) IsOnline(sid core.SessionID) bool {
	c, ok := r.conns[sid]
	return ok && c.Alive
}

// Count reports live connections. Kicked ones are excluded before their transport exits.
func (r *Registry) Count() int {
	n := 0
	for _, c := range r.conns {
		if c.Alive {
			n++
		}
	}
	return n
}

// Touch refreshes the liveness timestamp.
func (r *Registry) Touch(sid core.SessionID, at time.Time) bool {
	c, ok := r.conns[sid]
	if !ok {
		return false
	}
	c.LastSeen = at
	return true
}

// UpdateUser records the identity a connection announced.
func (r *Registry) UpdateUser(sid core.SessionID, u domain.User) bool {
	c, ok := r.conns[sid]
	if !ok {
		return false
	}
	c.User = u
	log.Debug().Str("module", "app.registry").Str("sid", string(sid)).Str("username", u.Username).Msg("updated user")
	return true
}

// Each calls fn for every live connection.
func (r *Registry) Each(fn func(*Connection)) {
	for _, c := range r.conns {
		if c.Alive {
			fn(c)
		}
	}
}

// Cancel marks the connection dead and stops its transport. The transport
// exit path is expected to come back through the disconnect cleanup.
func (r *Registry) Cancel(sid core.SessionID) bool {
	c, ok := r.conns[sid]
	if !ok {
		return false
	}
	c.Alive = false
	if c.Cancel != nil {
		c.Cancel()
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("canceled session")
	return true
}
