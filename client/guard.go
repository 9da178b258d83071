package client

// Decision is the route guard's verdict for a view entry.
type Decision int

const (
	// Render means the guarded view may be shown.
	Render Decision = iota
	// RedirectLogin means the visitor is sent to the login view. Both
	// missing sessions and wrong roles land here, never on an error page.
	RedirectLogin
)

// Guard gates entry to role-gated views from the persisted session. The
// check is advisory only; the server re-authorizes every protected call.
type Guard struct {
	session *Session
}

// NewGuard creates a guard over the given session.
func NewGuard(session *Session) *Guard {
	return &Guard{session: session}
}

// Check decides whether a view requiring the given role may render. An empty
// requiredRole gates on authentication alone.
func (g *Guard) Check(requiredRole string) Decision {
	if !g.session.Authenticated() {
		return RedirectLogin
	}
	if requiredRole != "" && g.session.Role != requiredRole {
		return RedirectLogin
	}
	return Render
}
