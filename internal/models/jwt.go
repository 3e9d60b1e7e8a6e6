package models

import "time"

// SessionClaims are the verified claims of a login session token
type SessionClaims struct {
	Subject   string    `json:"sub"`
	Issuer    string    `json:"iss"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}
