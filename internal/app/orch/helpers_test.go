package orch

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/dkeye/interview/internal/app"
	"github.com/dkeye/interview/internal/core"
	"github.com/dkeye/interview/internal/domain"
	"github.com/stretchr/testify/require"
)

// recorder is an in-memory SignalConnection that keeps every frame it was given.
type recorder struct {
	mu     sync.Mutex
	frames []core.Envelope
	full   bool
	closed bool
}

func (r *recorder) TrySend(f core.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return core.ErrClosed
	}
	if r.full {
		return core.ErrBackpressure
	}
	var env core.Envelope
	if err := json.Unmarshal(f, &env); err != nil {
		return err
	}
	r.frames = append(r.frames, env)
	return nil
}

func (r *recorder) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
}

func (r *recorder) of(kind core.EventKind) []core.Envelope {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []core.Envelope
	for _, f := range r.frames {
		if f.Type == kind {
			out = append(out, f)
		}
	}
	return out
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = nil
}

type harness struct {
	t     *testing.T
	o     *Orchestrator
	conns map[core.SessionID]*recorder
}

type fixedPool struct {
	problem json.RawMessage
}

func (p fixedPool) Next() json.RawMessage { return p.problem }

func newHarness(t *testing.T) *harness {
	t.Helper()
	o := New(&app.SequenceGenerator{Prefix: "room-"}, fixedPool{problem: json.RawMessage(`{"id":42}`)}, app.SimplePolicy{})
	return &harness{t: t, o: o, conns: map[core.SessionID]*recorder{}}
}

func (h *harness) connect(sid core.SessionID) *recorder {
	rec := &recorder{}
	h.conns[sid] = rec
	h.o.Connect(&app.Connection{SID: sid, User: domain.User{ID: domain.UserID("u-" + sid), Username: string(sid)}, Signal: rec})
	return rec
}

func (h *harness) emit(sid core.SessionID, kind core.EventKind, data any) error {
	h.t.Helper()
	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		require.NoError(h.t, err)
		raw = b
	}
	return h.o.Route(sid, core.Envelope{Type: kind, Data: raw})
}

func (h *harness) resetAll() {
	for _, r := range h.conns {
		r.reset()
	}
}

// pairUp connects a and b and matches them; a ends up helper, b solver.
func (h *harness) pairUp(a, b core.SessionID) domain.RoomID {
	h.t.Helper()
	h.connect(a)
	h.connect(b)
	require.NoError(h.t, h.emit(a, core.EvFindMatch, map[string]string{"userId": "u-" + string(a), "username": string(a)}))
	require.NoError(h.t, h.emit(b, core.EvFindMatch, map[string]string{"userId": "u-" + string(b), "username": string(b)}))
	frames := h.conns[b].of(core.EvMatchFound)
	require.Len(h.t, frames, 1)
	var m matchFound
	require.NoError(h.t, json.Unmarshal(frames[0].Data, &m))
	h.resetAll()
	return m.RoomID
}

func decode[T any](t *testing.T, env core.Envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func lastError(t *testing.T, r *recorder) core.ErrorPayload {
	t.Helper()
	errs := r.of(core.EvError)
	require.NotEmpty(t, errs)
	return decode[core.ErrorPayload](t, errs[len(errs)-1])
}
