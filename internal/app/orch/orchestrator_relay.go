package orch

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/dkeye/interview/internal/core"
	"github.com/dkeye/interview/internal/metrics"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

// payload is an inbound event body, field by field. Values stay raw so relays
// forward them byte for byte.
type payload map[string]json.RawMessage

func parsePayload(ev core.EventKind, data json.RawMessage) (payload, error) {
	p := payload{}
	if len(bytes.TrimSpace(data)) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return p, nil
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, &core.ProtocolError{Event: ev, Reason: "data must be an object"}
	}
	return p, nil
}

// has reports whether key is present and not null.
func (p payload) has(key string) bool {
	v, ok := p[key]
	return ok && !bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// str returns the string at key, "" when absent.
func (p payload) str(ev core.EventKind, key string) (string, error) {
	if !p.has(key) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(p[key], &s); err != nil {
		return "", &core.ProtocolError{Event: ev, Field: key, Reason: "must be a string"}
	}
	return s, nil
}

// integer returns the integer at key, def when absent.
func (p payload) integer(ev core.EventKind, key string, def int) (int, error) {
	if !p.has(key) {
		return def, nil
	}
	var n int
	if err := json.Unmarshal(p[key], &n); err != nil {
		return 0, &core.ProtocolError{Event: ev, Field: key, Reason: "must be an integer"}
	}
	return n, nil
}

type handlerFunc func(o *Orchestrator, sid core.SessionID, ev core.EventKind, p payload) error

var handlers = map[core.EventKind]handlerFunc{
	core.EvPing:                (*Orchestrator).handlePing,
	core.EvHeartbeat:           (*Orchestrator).handleHeartbeat,
	core.EvJoinProgressRoom:    (*Orchestrator).handleJoinProgressRoom,
	core.EvJoinInterviewPool:   (*Orchestrator).handleJoinInterviewPool,
	core.EvFindMatch:           (*Orchestrator).handleFindMatch,
	core.EvCancelSearch:        (*Orchestrator).handleCancelSearch,
	core.EvStartRound:          (*Orchestrator).handleStartRound,
	core.EvSwitchTurn:          (*Orchestrator).handleSwitchTurn,
	core.EvSwapRoles:           (*Orchestrator).handleSwapRoles,
	core.EvDisconnectInterview: (*Orchestrator).handleDisconnectInterview,
}

// relay describes a pure pass-through event: the payload minus roomId is
// forwarded under out to the recipients selected by mode.
type relay struct {
	out    core.EventKind
	mode   core.DeliveryMode
	fields []string
	check  func(ev core.EventKind, p payload) error
}

var relays = map[core.EventKind]relay{
	core.EvCodeChange:        {out: core.EvCodeUpdate, mode: core.RoomExcludeSender, fields: []string{"code"}},
	core.EvSendMessage:       {out: core.EvReceiveMessage, mode: core.RoomBroadcast, fields: []string{"username", "message", "timestamp"}},
	core.EvTestResults:       {out: core.EvTestResults, mode: core.RoomExcludeSender, fields: []string{"results"}},
	core.EvVoiceOffer:        {out: core.EvVoiceOffer, mode: core.RoomExcludeSender, fields: []string{"offer"}, check: checkDescription("offer", webrtc.SDPTypeOffer)},
	core.EvVoiceAnswer:       {out: core.EvVoiceAnswer, mode: core.RoomExcludeSender, fields: []string{"answer"}, check: checkDescription("answer", webrtc.SDPTypeAnswer)},
	core.EvVoiceICECandidate: {out: core.EvVoiceICECandidate, mode: core.RoomExcludeSender, fields: []string{"candidate"}, check: checkCandidate},
	core.EvVoiceMuteStatus:   {out: core.EvPartnerMuteStatus, mode: core.RoomExcludeSender, fields: []string{"isMuted", "username"}},
	core.EvVoiceDeafenStatus: {out: core.EvPartnerDeafenStatus, mode: core.RoomExcludeSender, fields: []string{"isDeafened", "username"}},
	core.EvTypingStart:       {out: core.EvTypingStart, mode: core.RoomExcludeSender, fields: []string{"username"}},
	core.EvTypingStop:        {out: core.EvTypingStop, mode: core.RoomExcludeSender, fields: []string{"username"}},
}

// Route validates and dispatches one inbound event from sid. Errors are
// reported to the sender only and leave every store untouched.
func (o *Orchestrator) Route(sid core.SessionID, env core.Envelope) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	defer o.syncGauges()

	err := o.route(sid, env)
	if err != nil {
		o.reportError(sid, env.Type, err)
		return err
	}
	metrics.EventsRouted.WithLabelValues(string(env.Type)).Inc()
	return nil
}

func (o *Orchestrator) route(sid core.SessionID, env core.Envelope) error {
	if !o.Registry.IsOnline(sid) {
		return fmt.Errorf("%s: %w", env.Type, core.ErrClosed)
	}
	h, isHandler := handlers[env.Type]
	r, isRelay := relays[env.Type]
	if !isHandler && !isRelay {
		return fmt.Errorf("%q: %w", env.Type, core.ErrUnknownEvent)
	}
	p, err := parsePayload(env.Type, env.Data)
	if err != nil {
		return err
	}
	if isHandler {
		return h(o, sid, env.Type, p)
	}
	return o.relay(sid, env.Type, r, p)
}

func (o *Orchestrator) relay(sid core.SessionID, ev core.EventKind, r relay, p payload) error {
	room, err := o.roomOf(sid, ev, p)
	if err != nil {
		return err
	}
	for _, f := range r.fields {
		if !p.has(f) {
			return core.Missing(ev, f)
		}
	}
	if r.check != nil {
		if err := r.check(ev, p); err != nil {
			return err
		}
	}
	out := make(payload, len(p))
	for k, v := range p {
		if k != "roomId" {
			out[k] = v
		}
	}

	switch r.mode {
	case core.RoomBroadcast:
		o.sendRoom(room, "", r.out, out)
	case core.RoomExcludeSender:
		o.sendRoom(room, sid, r.out, out)
	case core.GlobalBroadcast:
		o.broadcastAll(r.out, out)
	case core.Unicast:
		o.send(sid, r.out, out)
	}
	log.Debug().Str("module", "orch").Str("sid", string(sid)).Str("room", string(room.ID)).
		Str("event", string(ev)).Str("mode", r.mode.String()).Msg("relayed")
	return nil
}

// checkDescription makes sure field holds a WebRTC session description of the
// expected SDP type. The SDP itself is not parsed.
func checkDescription(field string, want webrtc.SDPType) func(core.EventKind, payload) error {
	return func(ev core.EventKind, p payload) error {
		var sd webrtc.SessionDescription
		if err := json.Unmarshal(p[field], &sd); err != nil {
			return &core.ProtocolError{Event: ev, Field: field, Reason: "is not a session description"}
		}
		if sd.Type != want {
			return &core.ProtocolError{Event: ev, Field: field, Reason: fmt.Sprintf("must have type %q", want.String())}
		}
		if sd.SDP == "" {
			return core.Missing(ev, field+".sdp")
		}
		return nil
	}
}

func checkCandidate(ev core.EventKind, p payload) error {
	var ci webrtc.ICECandidateInit
	if err := json.Unmarshal(p["candidate"], &ci); err != nil {
		return &core.ProtocolError{Event: ev, Field: "candidate", Reason: "is not an ICE candidate"}
	}
	return nil
}
