package domain

import "fmt"

// Role is a participant's part in the interview.
type Role string

const (
	RoleSolver Role = "solver"
	RoleHelper Role = "helper"
)

// Opposite returns the other role.
func (r Role) Opposite() Role {
	if r == RoleSolver {
		return RoleHelper
	}
	return RoleSolver
}

// Turn says whose turn it is inside a round. Only the solver turn is used today,
// every transition resets it.
type Turn = Role

// Participant is a room member. No transport or lifecycle logic here.
type Participant struct {
	SessionID string `json:"sid"`
	User      User   `json:"user"`
	Role      Role   `json:"role"`
}

func (p Participant) String() string {
	return fmt.Sprintf("%s(%s)", p.User.Username, p.SessionID)
}
