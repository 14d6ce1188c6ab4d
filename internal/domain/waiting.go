package domain

import "time"

// WaitingEntry is a connection seeking a partner.
type WaitingEntry struct {
	SessionID string    `json:"sid"`
	UserID    UserID    `json:"userId"`
	Username  string    `json:"username"`
	Since     time.Time `json:"since"`
}

// Participant converts the entry into a room member with the given role.
func (w WaitingEntry) Participant(role Role) Participant {
	return Participant{
		SessionID: w.SessionID,
		User:      User{ID: w.UserID, Username: w.Username},
		Role:      role,
	}
}
