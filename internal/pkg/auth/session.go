package auth

import "context"

// Session is the authenticated identity of a request. It is passed
// explicitly to every operation that needs the acting champion.
type Session struct {
	ChampionID string
	Email      string
}

// Valid reports whether the session names a champion
func (s Session) Valid() bool {
	return s.ChampionID != ""
}

type sessionKey struct{}

// WithSession returns a copy of ctx carrying s
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the session stored in ctx, if any
func SessionFrom(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok && s.Valid()
}
