package app

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	MarkSlow
	KickMember
	DropFrame
)

// Policy decides what happens to a connection whose send buffer is full.
type Policy interface {
	OnBackPressure(conn *Connection) BackpressureAction
}

// SimplePolicy kicks slow connections; the disconnect cleanup tears down their room.
type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(*Connection) BackpressureAction {
	return KickMember
}

// DropPolicy only loses the frame.
type DropPolicy struct{}

func (DropPolicy) OnBackPressure(*Connection) BackpressureAction {
	return DropFrame
}

// PolicyByName maps a config value to a policy. Unknown names kick.
func PolicyByName(name string) Policy {
	if name == "drop" {
		return DropPolicy{}
	}
	return SimplePolicy{}
}
