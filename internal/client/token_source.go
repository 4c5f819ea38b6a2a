package client

import (
	"golang.org/x/oauth2"

	"github.com/wolfeidau/backoffice/internal/session"
)

// Snapshotter exposes the current session. *session.Store implements it.
type Snapshotter interface {
	Snapshot() session.Snapshot
}

var _ oauth2.TokenSource = (*SessionTokenSource)(nil)

// SessionTokenSource hands out the bearer token of the current session.
// It reads the session on every call so a logout takes effect immediately.
type SessionTokenSource struct {
	src Snapshotter
}

// NewSessionTokenSource creates a token source backed by src.
func NewSessionTokenSource(src Snapshotter) *SessionTokenSource {
	return &SessionTokenSource{src: src}
}

// Token returns the session token, or ErrUnauthorized when no resolved
// session exists.
func (s *SessionTokenSource) Token() (*oauth2.Token, error) {
	snap := s.src.Snapshot()
	if !snap.Resolved() {
		return nil, ErrUnauthorized
	}
	return &oauth2.Token{
		AccessToken: snap.Token,
		TokenType:   "Bearer",
		Expiry:      snap.ExpiresAt,
	}, nil
}
