package orch

import (
	"encoding/json"
	"fmt"

	"github.com/dkeye/interview/internal/core"
	"github.com/dkeye/interview/internal/domain"
	"github.com/dkeye/interview/internal/metrics"
	"github.com/rs/zerolog/log"
)

type newProblem struct {
	Problem json.RawMessage `json:"problem"`
	Turn    domain.Turn     `json:"turn"`
	Round   int             `json:"round"`
}

type turnSwitched struct {
	NewTurn    domain.Turn     `json:"newTurn"`
	NewProblem json.RawMessage `json:"newProblem"`
	Round      int             `json:"round"`
}

type rolesSwapped struct {
	NewRole domain.Role `json:"newRole"`
}

type interviewDisconnected struct {
	Username string `json:"username"`
}

// roomOf resolves the sender's room from its own membership. The client-supplied
// roomId must be present and must match, so one room can never address another.
func (o *Orchestrator) roomOf(sid core.SessionID, ev core.EventKind, p payload) (domain.Room, error) {
	claimed, err := p.str(ev, "roomId")
	if err != nil {
		return domain.Room{}, err
	}
	if claimed == "" {
		return domain.Room{}, core.Missing(ev, "roomId")
	}
	room, ok := o.Rooms.ByConnection(sid)
	if !ok {
		return domain.Room{}, fmt.Errorf("%s %s: %w", ev, claimed, core.ErrNotInRoom)
	}
	if room.ID != domain.RoomID(claimed) {
		return domain.Room{}, fmt.Errorf("%s %s: %w", ev, claimed, core.ErrRoomNotFound)
	}
	return room, nil
}

func (o *Orchestrator) handleStartRound(sid core.SessionID, ev core.EventKind, p payload) error {
	room, err := o.roomOf(sid, ev, p)
	if err != nil {
		return err
	}
	if !p.has("problem") {
		return core.Missing(ev, "problem")
	}
	round, err := p.integer(ev, "round", 1)
	if err != nil {
		return err
	}
	if round < 1 {
		return &core.ProtocolError{Event: ev, Field: "round", Reason: "must be positive"}
	}
	room, err = o.Rooms.SetProblem(room.ID, p["problem"], round)
	if err != nil {
		return err
	}
	o.sendRoom(room, "", core.EvNewProblem, newProblem{Problem: room.Problem, Turn: room.Turn, Round: room.Round})
	log.Info().Str("module", "orch").Str("room", string(room.ID)).Int("round", room.Round).Msg("round started")
	return nil
}

func (o *Orchestrator) handleSwitchTurn(sid core.SessionID, ev core.EventKind, p payload) error {
	room, err := o.roomOf(sid, ev, p)
	if err != nil {
		return err
	}
	room, err = o.Rooms.AdvanceRound(room.ID, o.Problems.Next())
	if err != nil {
		return err
	}
	o.sendRoom(room, "", core.EvTurnSwitched, turnSwitched{NewTurn: room.Turn, NewProblem: room.Problem, Round: room.Round})
	log.Info().Str("module", "orch").Str("room", string(room.ID)).Int("round", room.Round).Msg("turn switched")
	return nil
}

// handleSwapRoles flips both roles; each side only learns its own new role.
func (o *Orchestrator) handleSwapRoles(sid core.SessionID, ev core.EventKind, p payload) error {
	room, err := o.roomOf(sid, ev, p)
	if err != nil {
		return err
	}
	parts, err := o.Rooms.SwapRoles(room.ID)
	if err != nil {
		return err
	}
	for _, part := range parts {
		o.send(core.SessionID(part.SessionID), core.EvRolesSwapped, rolesSwapped{NewRole: part.Role})
	}
	log.Info().Str("module", "orch").Str("room", string(room.ID)).Msg("roles swapped")
	return nil
}

func (o *Orchestrator) handleDisconnectInterview(sid core.SessionID, ev core.EventKind, p payload) error {
	room, err := o.roomOf(sid, ev, p)
	if err != nil {
		return err
	}
	o.teardown(room, sid, "ended")
	return nil
}

// teardown destroys room and tells the participant other than leaver.
func (o *Orchestrator) teardown(room domain.Room, leaver core.SessionID, reason string) {
	if _, err := o.Rooms.Destroy(room.ID); err != nil {
		return
	}
	metrics.RoomsClosed.WithLabelValues(reason).Inc()

	gone, _ := room.Member(string(leaver))
	if survivor, ok := room.Other(string(leaver)); ok {
		o.send(core.SessionID(survivor.SessionID), core.EvInterviewDisconnected, interviewDisconnected{Username: gone.User.Username})
	}
	log.Info().Str("module", "orch").Str("room", string(room.ID)).Str("sid", string(leaver)).Str("reason", reason).Msg("interview closed")
}
