package models

import "time"

// Roles.
const (
	RoleAdministrator      = "administrador"
	RoleUnionAdministrator = "administrador_sindicato"
)

// Status values shared by users and sindicatos.
const (
	StatusActive   = "ativo"
	StatusInactive = "inativo"
)

// User represents a console account.
//
// PasswordHash is nil until the first permanent password is set.
// ProvisionalPassword holds the argon2id encoding of the one-time password
// issued at creation, never the plaintext.
type User struct {
	ID                        string     `json:"id"`
	Username                  string     `json:"username"`
	PasswordHash              *string    `json:"passwordHash"`
	Email                     string     `json:"email"`
	Role                      string     `json:"role"`
	Status                    string     `json:"status"`
	SindicatoID               string     `json:"sindicatoId,omitempty"`
	CreatedAt                 time.Time  `json:"createdAt"`
	LoginAttempts             int        `json:"loginAttempts"` // advisory mirror of the attempt counter
	LastLogin                 *time.Time `json:"lastLogin"`
	ProvisionalPassword       *string    `json:"provisionalPassword"`
	ProvisionalPasswordExpiry *time.Time `json:"provisionalPasswordExpiry"`
}

// HasPassword reports whether a permanent password is set.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// HasProvisionalPassword reports whether a provisional password is pending.
func (u *User) HasProvisionalPassword() bool {
	return u.ProvisionalPassword != nil && *u.ProvisionalPassword != ""
}

// IsActive reports whether the account may authenticate.
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// Clone returns a deep copy so callers never share pointers with the store.
func (u User) Clone() User {
	c := u
	c.PasswordHash = cloneString(u.PasswordHash)
	c.ProvisionalPassword = cloneString(u.ProvisionalPassword)
	c.LastLogin = cloneTime(u.LastLogin)
	c.ProvisionalPasswordExpiry = cloneTime(u.ProvisionalPasswordExpiry)
	return c
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
