package auth

import "github.com/golang-jwt/jwt/v5"

// AccessTokenPayload captures the data available when minting a JWT for an
// API caller (typically the chat-agent front-end).
type AccessTokenPayload struct {
	ClientID string
	JTI      string
}

// AccessTokenClaims represents the typed JWT issued to clients.
type AccessTokenClaims struct {
	ClientID string `json:"client_id"`
	jwt.RegisteredClaims
}
