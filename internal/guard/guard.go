// Package guard is the single place that decides whether a screen may be
// shown. Every navigation consults it; individual screens never inspect the
// session themselves, so there is exactly one spot where the auth rules live.
package guard

import (
	"github.com/dentalstack/practicekit/pkg/logging"
)

// State is the three-way auth condition a navigation decision keys off.
type State int

const (
	// StateLoading means session restore has not finished. The only correct
	// reaction is to hold: redirecting now would bounce a user whose
	// persisted session is about to come back.
	StateLoading State = iota
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Action tells the shell what to do with a navigation request.
type Action int

const (
	// Hold shows the neutral waiting screen and re-asks once loading ends.
	Hold Action = iota
	// Allow renders the requested route.
	Allow
	// RedirectLogin sends the user to the login screen.
	RedirectLogin
	// RedirectHome sends an already-signed-in user away from login/register.
	RedirectHome
)

func (a Action) String() string {
	switch a {
	case Hold:
		return "hold"
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect_login"
	case RedirectHome:
		return "redirect_home"
	default:
		return "unknown"
	}
}

// SessionSource is the slice of the session store the guard reads.
// *session.Store satisfies it.
type SessionSource interface {
	Loading() bool
	Authenticated() bool
}

// Guard maps (session state, route) to a navigation action.
type Guard struct {
	session SessionSource
	logger  *logging.Logger
}

func New(session SessionSource, logger *logging.Logger) *Guard {
	if logger == nil {
		logger = logging.Default()
	}
	return &Guard{session: session, logger: logger.Component("guard")}
}

// State reads the current three-way condition from the session store.
func (g *Guard) State() State {
	if g.session.Loading() {
		return StateLoading
	}
	if g.session.Authenticated() {
		return StateAuthenticated
	}
	return StateUnauthenticated
}

// Public reports whether route is reachable without a session.
func Public(route string) bool {
	switch route {
	case "/login", "/register":
		return true
	}
	return false
}

// Decide resolves a navigation to route. While loading it always holds, for
// public and protected routes alike.
func (g *Guard) Decide(route string) Action {
	state := g.State()

	var action Action
	switch state {
	case StateLoading:
		action = Hold
	case StateAuthenticated:
		if Public(route) {
			action = RedirectHome
		} else {
			action = Allow
		}
	default:
		if Public(route) {
			action = Allow
		} else {
			action = RedirectLogin
		}
	}

	g.logger.Debug("navigation decided",
		"route", route, "state", state.String(), "action", action.String())
	return action
}
