// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
	"unicode/utf8"
)

const (
	MaxUserIDLen    = 64
	MaxUsernameLen  = 36
	DefaultUsername = "Anonymous"
)

var (
	ErrUsernameTooLong = errors.New("username too long")
	ErrUserIDTooLong   = errors.New("user id too long")
)

// UserID is the external identity supplied by the caller. Empty means unknown.
type UserID string

type User struct {
	ID       UserID `json:"userId"`
	Username string `json:"username"`
}

// NewUser validates an identity pair coming from the authenticated-identity source.
// An empty display name falls back to DefaultUsername.
func NewUser(id UserID, username string) (*User, error) {
	u := &User{ID: id}
	if len(id) > MaxUserIDLen {
		return nil, ErrUserIDTooLong
	}
	if err := u.SetUsername(username); err != nil {
		return nil, err
	}
	return u, nil
}

func (u *User) SetUsername(username string) error {
	if username == "" {
		username = DefaultUsername
	}
	if utf8.RuneCountInString(username) > MaxUsernameLen {
		return ErrUsernameTooLong
	}
	u.Username = username
	return nil
}
