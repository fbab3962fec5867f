package models

import "time"

// User is the account whose LinkedIn presence the dashboard manages.
type User struct {
	ID                  string    `json:"id"`
	Username            string    `json:"username"`
	Email               string    `json:"email"`
	LinkedinHandle      *string   `json:"linkedinHandle"`
	IsLinkedinConnected bool      `json:"isLinkedinConnected"`
	CreatedAt           time.Time `json:"createdAt"`
}

// NewUser holds the caller-supplied fields for user creation.
type NewUser struct {
	Username            string  `json:"username"`
	Email               string  `json:"email"`
	LinkedinHandle      *string `json:"linkedinHandle"`
	IsLinkedinConnected bool    `json:"isLinkedinConnected"`
}

// UserUpdate is a partial update; only mentioned fields overwrite.
type UserUpdate struct {
	Username            Optional[string]  `json:"username"`
	Email               Optional[string]  `json:"email"`
	LinkedinHandle      Optional[*string] `json:"linkedinHandle"`
	IsLinkedinConnected Optional[bool]    `json:"isLinkedinConnected"`
}

// Apply merges the mentioned fields of upd into u.
func (u *User) Apply(upd UserUpdate) {
	upd.Username.apply(&u.Username)
	upd.Email.apply(&u.Email)
	upd.LinkedinHandle.apply(&u.LinkedinHandle)
	upd.IsLinkedinConnected.apply(&u.IsLinkedinConnected)
}

// Clone returns a copy that shares no pointers with u.
func (u User) Clone() User {
	if u.LinkedinHandle != nil {
		u.LinkedinHandle = Ptr(*u.LinkedinHandle)
	}
	return u
}
