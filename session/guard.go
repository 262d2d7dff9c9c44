package session

import "github.com/tharun-r1705/data-frontend-new/core/user"

// Decision is what a caller should do with a guarded route. The guard only
// decides; callers perform the actual navigation.
type Decision int

const (
	// Render the protected view.
	Render Decision = iota
	// Wait: the session state is not known yet; show a placeholder, do not redirect.
	Wait
	// RedirectToAuth: no session; go to the anonymous entry point.
	RedirectToAuth
	// RedirectHome: authenticated but the wrong role for this route.
	RedirectHome
)

func (d Decision) String() string {
	switch d {
	case Render:
		return "render"
	case Wait:
		return "wait"
	case RedirectToAuth:
		return "redirect-to-auth"
	case RedirectHome:
		return "redirect-home"
	}
	return "invalid"
}

// Decide is the pure route-gating function. requiredRole may be empty for
// routes any authenticated user can see.
func Decide(st State, requiredRole user.Role) Decision {
	switch st.Status {
	case Unknown, Authenticating:
		return Wait
	case Anonymous:
		return RedirectToAuth
	}
	if requiredRole != "" && st.User.Role != requiredRole {
		return RedirectHome
	}
	return Render
}
