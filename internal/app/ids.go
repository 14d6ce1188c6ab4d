package app

import (
	"fmt"
	"sync/atomic"

	"github.com/dkeye/interview/internal/domain"
	"github.com/oklog/ulid/v2"
)

// IDGenerator produces room ids independent of transport ids.
type IDGenerator interface {
	NewRoomID() domain.RoomID
}

// ULIDGenerator yields time-ordered, collision-resistant ids.
type ULIDGenerator struct{}

func (ULIDGenerator) NewRoomID() domain.RoomID {
	return domain.RoomID("interview_" + ulid.Make().String())
}

// SequenceGenerator yields predictable ids, handy in tests.
type SequenceGenerator struct {
	Prefix string
	n      atomic.Uint64
}

func (g *SequenceGenerator) NewRoomID() domain.RoomID {
	return domain.RoomID(fmt.Sprintf("%s%d", g.Prefix, g.n.Add(1)))
}
