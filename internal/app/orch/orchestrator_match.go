package orch

import (
	"errors"
	"fmt"

	"github.com/dkeye/interview/internal/core"
	"github.com/dkeye/interview/internal/domain"
	"github.com/dkeye/interview/internal/metrics"
	"github.com/rs/zerolog/log"
)

// matchPartner is what each side learns about the other.
type matchPartner struct {
	SID      string        `json:"sid"`
	UserID   domain.UserID `json:"userId"`
	Username string        `json:"username"`
}

type matchFound struct {
	RoomID  domain.RoomID `json:"roomId"`
	Partner matchPartner  `json:"partner"`
	Role    domain.Role   `json:"role"`
}

// identity reads {userId, username}; a missing userId falls back to the one the
// connection already carries.
func (o *Orchestrator) identity(sid core.SessionID, ev core.EventKind, p payload) (*domain.User, error) {
	conn, ok := o.Registry.Get(sid)
	if !ok {
		return nil, fmt.Errorf("%s: %w", ev, core.ErrClosed)
	}
	userID, err := p.str(ev, "userId")
	if err != nil {
		return nil, err
	}
	username, err := p.str(ev, "username")
	if err != nil {
		return nil, err
	}
	if userID == "" {
		userID = string(conn.User.ID)
	}
	if username == "" {
		username = conn.User.Username
	}
	user, err := domain.NewUser(domain.UserID(userID), username)
	if err != nil {
		field := "username"
		if errors.Is(err, domain.ErrUserIDTooLong) {
			field = "userId"
		}
		return nil, &core.ProtocolError{Event: ev, Field: field, Reason: err.Error()}
	}
	return user, nil
}

// handleFindMatch enqueues the sender and pairs it with the longest-waiting entry
// when there is one. Enqueue and pairing happen in the same critical section.
func (o *Orchestrator) handleFindMatch(sid core.SessionID, ev core.EventKind, p payload) error {
	if room, ok := o.Rooms.ByConnection(sid); ok {
		return fmt.Errorf("%s %s: %w", ev, room.ID, core.ErrAlreadyInRoom)
	}
	user, err := o.identity(sid, ev, p)
	if err != nil {
		return err
	}
	o.Registry.UpdateUser(sid, *user)

	requeued := o.Queue.Contains(sid)
	o.Queue.Enqueue(domain.WaitingEntry{
		SessionID: string(sid),
		UserID:    user.ID,
		Username:  user.Username,
		Since:     o.now(),
	})
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("username", user.Username).Bool("requeued", requeued).Msg("looking for match")

	for {
		partner, newcomer, ok := o.Queue.TryMatch()
		if !ok {
			o.publishWaiting()
			return nil
		}
		// A kicked connection may still sit in the queue until its transport exits.
		if !o.Registry.IsOnline(core.SessionID(partner.SessionID)) {
			o.Queue.Enqueue(newcomer)
			continue
		}
		o.pair(partner, newcomer)
		o.publishWaiting()
		return nil
	}
}

func (o *Orchestrator) pair(waiting, newcomer domain.WaitingEntry) {
	room := o.Rooms.Create(waiting, newcomer)
	metrics.MatchesTotal.Inc()

	o.send(core.SessionID(newcomer.SessionID), core.EvMatchFound, matchFound{
		RoomID:  room.ID,
		Partner: matchPartner{SID: waiting.SessionID, UserID: waiting.UserID, Username: waiting.Username},
		Role:    domain.RoleSolver,
	})
	o.send(core.SessionID(waiting.SessionID), core.EvMatchFound, matchFound{
		RoomID:  room.ID,
		Partner: matchPartner{SID: newcomer.SessionID, UserID: newcomer.UserID, Username: newcomer.Username},
		Role:    domain.RoleHelper,
	})
	log.Info().Str("module", "orch").Str("room", string(room.ID)).
		Str("helper", waiting.Username).Str("solver", newcomer.Username).Msg("match found")
}

func (o *Orchestrator) handleCancelSearch(sid core.SessionID, _ core.EventKind, _ payload) error {
	if o.Queue.Cancel(sid) {
		log.Info().Str("module", "orch").Str("sid", string(sid)).Msg("search cancelled")
	}
	o.publishWaiting()
	return nil
}
