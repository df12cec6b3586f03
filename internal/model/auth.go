package model

import "github.com/golang-jwt/jwt/v5"

// SessionClaims is the JWT payload scoping a token to one quiz session.
type SessionClaims struct {
	SessionID string `json:"sessionId"`
	jwt.RegisteredClaims
}

// CreateSessionResponse is returned when a session is created or loaded.
type CreateSessionResponse struct {
	Session *QuizSession `json:"session"`
	Token   string       `json:"token"`
}
