// internal/domain/session/entity.go
package session

import (
	"time"
)

// Kind distinguishes authenticated users from anonymous guests
type Kind string

const (
	KindUser  Kind = "user"
	KindGuest Kind = "guest"
)

// Descriptor identifies the active session for a device. Exactly one
// descriptor is active per device at a time; login and logout replace it.
type Descriptor struct {
	Kind  Kind   `json:"kind"`
	ID    string `json:"id"`
	Token string `json:"-"` // backend session token, user sessions only
}

// IsUser returns true for authenticated sessions
func (d Descriptor) IsUser() bool {
	return d.Kind == KindUser
}

// Record is the persisted per-device session state. It is the server-side
// equivalent of the browser's local storage: auth token, expiry, serialized
// profile, and guest token live and die together.
type Record struct {
	DeviceID    string     `gorm:"primaryKey;size:64" json:"device_id"`
	AuthToken   string     `gorm:"size:2048" json:"-"`
	TokenExpiry *time.Time `json:"token_expiry,omitempty"`
	UserID      string     `gorm:"size:64" json:"user_id,omitempty"`
	ProfileJSON string     `gorm:"type:text" json:"-"`
	GuestToken  string     `gorm:"size:128" json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName overrides the table name for Record
func (Record) TableName() string {
	return "device_sessions"
}

// HasValidToken reports whether the record carries an unexpired auth token
func (r *Record) HasValidToken(now time.Time) bool {
	if r.AuthToken == "" || r.TokenExpiry == nil {
		return false
	}
	return now.Before(*r.TokenExpiry)
}

// ClearAuth drops all authenticated state from the record. Guest state is
// cleared too: logout re-resolves a fresh guest identity.
func (r *Record) ClearAuth() {
	r.AuthToken = ""
	r.TokenExpiry = nil
	r.UserID = ""
	r.ProfileJSON = ""
}
