package app

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/dkeye/interview/internal/core"
	"github.com/dkeye/interview/internal/domain"
	"github.com/rs/zerolog/log"
)

// RoomStore owns the active rooms and the connection -> room mapping.
// It does no locking of its own; the orchestrator serializes access.
type RoomStore struct {
	rooms map[domain.RoomID]*domain.Room
	bySID map[core.SessionID]domain.RoomID
	ids   IDGenerator
	now   func() time.Time
}

func NewRoomStore(ids IDGenerator) *RoomStore {
	if ids == nil {
		ids = ULIDGenerator{}
	}
	return &RoomStore{
		rooms: make(map[domain.RoomID]*domain.Room),
		bySID: make(map[core.SessionID]domain.RoomID),
		ids:   ids,
		now:   time.Now,
	}
}

// Create opens a room for a fresh pairing. The entry that was already waiting
// becomes the helper, the newcomer the solver. Round starts at 1 on the solver turn.
func (s *RoomStore) Create(waiting, newcomer domain.WaitingEntry) domain.Room {
	room := &domain.Room{
		ID: s.ids.NewRoomID(),
		Participants: [2]domain.Participant{
			waiting.Participant(domain.RoleHelper),
			newcomer.Participant(domain.RoleSolver),
		},
		CreatedAt: s.now(),
		Round:     1,
		Turn:      domain.RoleSolver,
	}
	s.rooms[room.ID] = room
	for _, p := range room.Participants {
		s.bySID[core.SessionID(p.SessionID)] = room.ID
	}
	log.Info().Str("module", "app.rooms").Str("room", string(room.ID)).
		Str("helper", waiting.SessionID).Str("solver", newcomer.SessionID).Msg("room created")
	return *room
}

func (s *RoomStore) Get(id domain.RoomID) (domain.Room, bool) {
	r, ok := s.rooms[id]
	if !ok {
		return domain.Room{}, false
	}
	return *r, true
}

// ByConnection is the reverse lookup used for routing.
func (s *RoomStore) ByConnection(sid core.SessionID) (domain.Room, bool) {
	id, ok := s.bySID[sid]
	if !ok {
		return domain.Room{}, false
	}
	return s.Get(id)
}

// Destroy removes the room and both mappings and returns its participants.
func (s *RoomStore) Destroy(id domain.RoomID) ([2]domain.Participant, error) {
	r, ok := s.rooms[id]
	if !ok {
		return [2]domain.Participant{}, fmt.Errorf("destroy %s: %w", id, core.ErrRoomNotFound)
	}
	delete(s.rooms, id)
	for _, p := range r.Participants {
		sid := core.SessionID(p.SessionID)
		if s.bySID[sid] == id {
			delete(s.bySID, sid)
		}
	}
	log.Info().Str("module", "app.rooms").Str("room", string(id)).Msg("room destroyed")
	return r.Participants, nil
}

// SwapRoles flips both participants' roles and returns the new assignment.
func (s *RoomStore) SwapRoles(id domain.RoomID) ([2]domain.Participant, error) {
	r, ok := s.rooms[id]
	if !ok {
		return [2]domain.Participant{}, fmt.Errorf("swap roles %s: %w", id, core.ErrRoomNotFound)
	}
	for i := range r.Participants {
		r.Participants[i].Role = r.Participants[i].Role.Opposite()
	}
	return r.Participants, nil
}

// SetProblem starts a round with the given problem; the turn goes back to the solver.
func (s *RoomStore) SetProblem(id domain.RoomID, problem json.RawMessage, round int) (domain.Room, error) {
	r, ok := s.rooms[id]
	if !ok {
		return domain.Room{}, fmt.Errorf("set problem %s: %w", id, core.ErrRoomNotFound)
	}
	r.Problem = problem
	r.Round = round
	r.Turn = domain.RoleSolver
	return *r, nil
}

// AdvanceRound moves to the next round with a new problem on the solver turn.
func (s *RoomStore) AdvanceRound(id domain.RoomID, problem json.RawMessage) (domain.Room, error) {
	r, ok := s.rooms[id]
	if !ok {
		return domain.Room{}, fmt.Errorf("advance round %s: %w", id, core.ErrRoomNotFound)
	}
	r.Problem = problem
	r.Round++
	r.Turn = domain.RoleSolver
	return *r, nil
}

func (s *RoomStore) Len() int { return len(s.rooms) }

// List returns room snapshots, oldest first.
func (s *RoomStore) List() []domain.Room {
	out := make([]domain.Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		out = append(out, *r)
	}
	slices.SortFunc(out, func(a, b domain.Room) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return out
}
