package models

import "time"

// SessionToken is the in-memory record bound to an opaque session token.
type SessionToken struct {
	Username       string    `json:"username"`
	CreatedAt      time.Time `json:"createdAt"`
	LastActivityAt time.Time `json:"lastActivityAt"`
}

// LoginAttemptRecord counts consecutive failed logins for a username.
type LoginAttemptRecord struct {
	Count          int       `json:"count"`
	FirstAttemptAt time.Time `json:"firstAttemptAt"`
	LastAttemptAt  time.Time `json:"lastAttemptAt"`
}

// LockoutRecord denies logins for a username until LockedAt+Duration.
type LockoutRecord struct {
	LockedAt        time.Time `json:"lockedAt"`
	DurationMinutes int       `json:"durationMinutes"`
	Reason          string    `json:"reason"`
}

// Until returns the instant the lockout ends.
func (r LockoutRecord) Until() time.Time {
	return r.LockedAt.Add(time.Duration(r.DurationMinutes) * time.Minute)
}

// SessionSnapshot is the persisted "current session" slot: the token plus a
// denormalized copy of the user taken at login. Only the token is trusted.
type SessionSnapshot struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
