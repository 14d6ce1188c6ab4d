package domain

import (
	"encoding/json"
	"time"
)

type RoomID string

// Room is a two-party interview session.
// Participants[0] is the side that was already waiting, Participants[1] the newcomer.
type Room struct {
	ID           RoomID          `json:"roomId"`
	Participants [2]Participant   `json:"participants"`
	CreatedAt    time.Time       `json:"createdAt"`
	Problem      json.RawMessage `json:"problem,omitempty"`
	Round        int             `json:"round"`
	Turn         Turn            `json:"turn"`
}

// Other returns the participant that is not sid.
func (r *Room) Other(sid string) (Participant, bool) {
	switch sid {
	case r.Participants[0].SessionID:
		return r.Participants[1], true
	case r.Participants[1].SessionID:
		return r.Participants[0], true
	}
	return Participant{}, false
}

// Member returns the participant with the given session id.
func (r *Room) Member(sid string) (Participant, bool) {
	for _, p := range r.Participants {
		if p.SessionID == sid {
			return p, true
		}
	}
	return Participant{}, false
}
