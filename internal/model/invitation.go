package model

import "time"

// Invitation is a pending offer of studio membership, stored in Redis with a
// 24 hour TTL so the backing store, not application code, expires it. At most
// one live invitation exists per (studio, email) pair.
type Invitation struct {
	StudioID  uint      `json:"studio_id"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
}

// InvitationTTL is the lifetime of an invitation in the backing store.
const InvitationTTL = 24 * time.Hour
