package domain

import "time"

// Session liga un token opaco de cliente a una identidad activa.
type Session struct {
	Token     string    `json:"token"`
	Identity  Identity  `json:"identity"`
	ExpiresAt time.Time `json:"expires_at"`
}
