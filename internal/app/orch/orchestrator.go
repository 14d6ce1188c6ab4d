// Package orch coordinates matchmaking, rooms and event routing.
//
// The connection registry, the matchmaking queue and the room store are only
// touched while holding the Orchestrator lock. Sends never block
// (SignalConnection.TrySend), so they are done under the lock too.
package orch

import (
	"errors"
	"sync"
	"time"

	"github.com/dkeye/interview/internal/app"
	"github.com/dkeye/interview/internal/core"
	"github.com/dkeye/interview/internal/domain"
	"github.com/dkeye/interview/internal/metrics"
	"github.com/rs/zerolog/log"
)

type Orchestrator struct {
	mu sync.Mutex

	Registry *app.Registry
	Queue    *app.Queue
	Rooms    *app.RoomStore
	Problems app.ProblemPool
	Policy   app.Policy

	// Now is the clock used for waiting entries and liveness; nil means time.Now.
	Now func() time.Time
}

// New wires an orchestrator with empty stores.
func New(ids app.IDGenerator, problems app.ProblemPool, policy app.Policy) *Orchestrator {
	if problems == nil {
		problems = app.NewStaticPool(nil)
	}
	return &Orchestrator{
		Registry: app.NewRegistry(),
		Queue:    app.NewQueue(),
		Rooms:    app.NewRoomStore(ids),
		Problems: problems,
		Policy:   policy,
	}
}

func (o *Orchestrator) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// Stats is a point-in-time view of the core.
type Stats struct {
	Online  int `json:"online"`
	Waiting int `json:"waiting"`
	Rooms   int `json:"rooms"`
}

func (o *Orchestrator) Stats() Stats {
	o.mu.Lock()
	defer o.mu.Unlock()
	return Stats{
		Online:  o.Registry.Count(),
		Waiting: o.Queue.Len(),
		Rooms:   o.Rooms.Len(),
	}
}

// RoomsSnapshot lists active rooms, oldest first.
func (o *Orchestrator) RoomsSnapshot() []domain.Room {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.Rooms.List()
}

func (o *Orchestrator) syncGauges() {
	metrics.OnlineConnections.Set(float64(o.Registry.Count()))
	metrics.WaitingEntries.Set(float64(o.Queue.Len()))
	metrics.ActiveRooms.Set(float64(o.Rooms.Len()))
}

// --- delivery, caller holds o.mu ---

func (o *Orchestrator) deliver(conn *app.Connection, f core.Frame) {
	if conn == nil || !conn.Alive || conn.Signal == nil {
		return
	}
	err := conn.Signal.TrySend(f)
	if err == nil {
		return
	}
	if !errors.Is(err, core.ErrBackpressure) {
		metrics.DroppedDeliveries.WithLabelValues("closed").Inc()
		return
	}
	metrics.DroppedDeliveries.WithLabelValues("backpressure").Inc()
	if o.Policy == nil {
		return
	}
	switch o.Policy.OnBackPressure(conn) {
	case app.KickMember:
		log.Warn().Str("module", "orch").Str("sid", string(conn.SID)).Msg("slow consumer kicked")
		o.Registry.Cancel(conn.SID)
	case app.MarkSlow, app.DropFrame, app.NoAction:
	}
}

func (o *Orchestrator) send(sid core.SessionID, kind core.EventKind, v any) {
	conn, ok := o.Registry.Get(sid)
	if !ok {
		return
	}
	f, err := core.Encode(kind, v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("encode")
		return
	}
	o.deliver(conn, f)
}

func (o *Orchestrator) broadcastAll(kind core.EventKind, v any) {
	f, err := core.Encode(kind, v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("encode")
		return
	}
	o.Registry.Each(func(c *app.Connection) { o.deliver(c, f) })
}

// sendRoom delivers to the room participants, skipping exclude when set.
func (o *Orchestrator) sendRoom(room domain.Room, exclude core.SessionID, kind core.EventKind, v any) {
	f, err := core.Encode(kind, v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("encode")
		return
	}
	for _, p := range room.Participants {
		sid := core.SessionID(p.SessionID)
		if sid == exclude {
			continue
		}
		if conn, ok := o.Registry.Get(sid); ok {
			o.deliver(conn, f)
		}
	}
}

func (o *Orchestrator) publishOnlineCount() {
	o.broadcastAll(core.EvOnlineUsersCount, o.Registry.Count())
}

func (o *Orchestrator) publishWaiting() {
	o.broadcastAll(core.EvWaitingUsers, o.Queue.Snapshot())
}

func (o *Orchestrator) reportError(sid core.SessionID, ev core.EventKind, err error) {
	code := core.ErrorCode(err)
	metrics.EventErrors.WithLabelValues(code).Inc()
	log.Warn().Err(err).Str("module", "orch").Str("sid", string(sid)).Str("event", string(ev)).Str("code", code).Msg("event rejected")
	o.send(sid, core.EvError, core.ErrorPayload{Event: ev, Code: code, Message: err.Error()})
}

// Reject reports err to sid without routing anything, e.g. when the transport
// refuses an event before it reaches the router.
func (o *Orchestrator) Reject(sid core.SessionID, ev core.EventKind, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.reportError(sid, ev, err)
}
