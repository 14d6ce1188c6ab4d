package core

import (
	"encoding/json"
	"fmt"
)

// EventKind is the wire name of an event.
type EventKind string

// Inbound events.
const (
	EvPing                EventKind = "ping"
	EvHeartbeat           EventKind = "heartbeat"
	EvJoinProgressRoom    EventKind = "join_progress_room"
	EvJoinInterviewPool   EventKind = "join_interview_pool"
	EvFindMatch           EventKind = "find_match"
	EvCancelSearch        EventKind = "cancel_search"
	EvStartRound          EventKind = "start_round"
	EvSwitchTurn          EventKind = "switch_turn"
	EvSwapRoles           EventKind = "swap_roles"
	EvCodeChange          EventKind = "code_change"
	EvSendMessage         EventKind = "send_message"
	EvTestResults         EventKind = "test_results"
	EvVoiceOffer          EventKind = "voice_offer"
	EvVoiceAnswer         EventKind = "voice_answer"
	EvVoiceICECandidate   EventKind = "voice_ice_candidate"
	EvVoiceMuteStatus     EventKind = "voice_mute_status"
	EvVoiceDeafenStatus   EventKind = "voice_deafen_status"
	EvTypingStart         EventKind = "typing_start"
	EvTypingStop          EventKind = "typing_stop"
	EvDisconnectInterview EventKind = "disconnect_interview"
)

// Outbound events. Relays that keep their inbound name (test_results, voice_*,
// typing_*) reuse the constants above.
const (
	EvPong                  EventKind = "pong"
	EvHeartbeatResponse     EventKind = "heartbeat_response"
	EvOnlineUsersCount      EventKind = "online_users_count"
	EvWaitingUsers          EventKind = "waiting_users"
	EvMatchFound            EventKind = "match_found"
	EvInterviewDisconnected EventKind = "interview_disconnected"
	EvNewProblem            EventKind = "new_problem"
	EvTurnSwitched          EventKind = "turn_switched"
	EvRolesSwapped          EventKind = "roles_swapped"
	EvCodeUpdate            EventKind = "code_update"
	EvReceiveMessage        EventKind = "receive_message"
	EvPartnerMuteStatus     EventKind = "partner_mute_status"
	EvPartnerDeafenStatus   EventKind = "partner_deafen_status"
	EvError                 EventKind = "error"
)

// DeliveryMode selects the recipient set of an outbound event.
type DeliveryMode int

const (
	// Unicast goes to the sender only.
	Unicast DeliveryMode = iota
	// RoomBroadcast goes to both room participants.
	RoomBroadcast
	// RoomExcludeSender goes to the other participant only.
	RoomExcludeSender
	// GlobalBroadcast goes to every registered connection.
	GlobalBroadcast
)

func (m DeliveryMode) String() string {
	switch m {
	case Unicast:
		return "unicast"
	case RoomBroadcast:
		return "room"
	case RoomExcludeSender:
		return "room_exclude_sender"
	case GlobalBroadcast:
		return "global"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Envelope is the frame layout in both directions.
type Envelope struct {
	Type EventKind       `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Encode wraps v into an envelope of the given kind.
func Encode(kind EventKind, v any) (Frame, error) {
	var data json.RawMessage
	if v != nil {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", kind, err)
		}
		data = b
	}
	b, err := json.Marshal(Envelope{Type: kind, Data: data})
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", kind, err)
	}
	return b, nil
}

// ErrorPayload is the data of an outbound error event.
type ErrorPayload struct {
	Event   EventKind `json:"event,omitempty"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
}
