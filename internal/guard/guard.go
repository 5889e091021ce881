// Package guard makes the admission decision for admin-only surfaces.
//
// The decision trusts the role claim persisted client-side; no server
// re-verification happens per entry. A stricter client would re-validate
// the token against the backend here.
package guard

import "github.com/zmusic/zmusic/internal/core"

// Redirect names where a denied caller should be sent.
type Redirect string

const (
	RedirectNone  Redirect = ""
	RedirectLogin Redirect = "login"
	RedirectHome  Redirect = "home"
)

// SessionReader is the slice of the session store the guard needs.
type SessionReader interface {
	CurrentUser() *core.Identity
}

// Decision is the outcome of an admission check.
type Decision struct {
	Allowed  bool
	Redirect Redirect
	Reason   string
}

// Check admits only authenticated admins. Unauthenticated callers are sent
// to the login surface, authenticated non-admins to the home surface. Pure
// function of session state, evaluated per call.
func Check(session SessionReader) Decision {
	user := session.CurrentUser()
	if user == nil {
		return Decision{
			Redirect: RedirectLogin,
			Reason:   "not logged in",
		}
	}
	if !user.IsAdmin() {
		return Decision{
			Redirect: RedirectHome,
			Reason:   "only admins can access this page",
		}
	}
	return Decision{Allowed: true}
}
