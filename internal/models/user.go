package models

import (
	"fmt"
	"time"

	"mixtape/internal/shared"
)

// User is a registered account that can own playlists.
//
// Credentials are stored and compared as opaque values; password hashing is
// outside the scope of this service.
type User struct {
	id        string
	sequence  int
	username  string
	password  string
	createdAt time.Time
	updatedAt time.Time
}

// NewUser creates a User with the given sequence and credentials.
// The ID is assigned by the repository on insert.
func NewUser(sequence int, username, password string) *User {
	now := time.Now()
	return &User{
		sequence:  sequence,
		username:  username,
		password:  password,
		createdAt: now,
		updatedAt: now,
	}
}

func (u *User) ID() string           { return u.id }
func (u *User) Sequence() int        { return u.sequence }
func (u *User) Username() string     { return u.username }
func (u *User) Password() string     { return u.password }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

func (u *User) SetID(id string)             { u.id = id }
func (u *User) SetSequence(sequence int)    { u.sequence = sequence }
func (u *User) SetUpdatedAt(t time.Time)    { u.updatedAt = t }
func (u *User) SetCreatedAt(t time.Time)    { u.createdAt = t }
func (u *User) SetPassword(password string) { u.password = password }

// CheckPassword compares the submitted password against the stored value.
func (u *User) CheckPassword(password string) bool {
	return u.password == password
}

// Validate checks that the user has a username and password.
func (u *User) Validate() error {
	if u.username == "" {
		return fmt.Errorf("%w: username is required", shared.ErrValidation)
	}
	if u.password == "" {
		return fmt.Errorf("%w: password is required", shared.ErrValidation)
	}
	return nil
}
