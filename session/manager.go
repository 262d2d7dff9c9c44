package session

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/tharun-r1705/data-frontend-new/core"
	"github.com/tharun-r1705/data-frontend-new/core/user"
	"github.com/tharun-r1705/data-frontend-new/storage/credstore"
)

var (
	// errors
	ErrAuthPending          = errors.New("an authentication attempt is already in progress")
	ErrAlreadyAuthenticated = errors.New("already authenticated")
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrSessionInvalidated   = errors.New("session was invalidated")
)

// Status is the authentication state of the app.
type Status int

const (
	// Unknown: startup, before Restore has looked at the credential store.
	Unknown Status = iota
	// Anonymous: no session.
	Anonymous
	// Authenticating: a login or signup request is in flight.
	Authenticating
	// Authenticated: a user record is cached and a token is stored.
	Authenticated
)

func (s Status) String() string {
	switch s {
	case Unknown:
		return "unknown"
	case Anonymous:
		return "anonymous"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	}
	return "invalid"
}

// State is the observable session state. User is only meaningful when
// Status == Authenticated.
type State struct {
	Status Status
	User   user.User
}

// Loading collapses the two "still working" statuses for observers that do
// not care whether the cause is startup restoration or credential submission.
func (s State) Loading() bool {
	return s.Status == Unknown || s.Status == Authenticating
}

type (
	// API is the remote auth contract the manager drives. The transport
	// package provides the real implementation.
	API interface {
		Signup(ctx context.Context, acct user.NewAccount) (user.AuthGrant, error)
		Login(ctx context.Context, creds user.Credentials) (user.AuthGrant, error)
		Logout(ctx context.Context) error
		ChangePassword(ctx context.Context, pc user.PasswordChange) error
	}

	// Observer is notified after every completed state transition.
	Observer func(State)

	// Manager owns the authentication state machine. It is the only writer of
	// the credential store; transitions are linearized by its mutex and
	// observers are notified after the transition completed, outside the lock.
	Manager struct {
		api    API
		creds  credstore.Store
		logger core.Logger

		mu        sync.Mutex
		state     State
		epoch     uint64 // bumped on every clear; stale in-flight successes are discarded
		observers []Observer
	}
)

func NewManager(api API, creds credstore.Store, logger core.Logger) *Manager {
	return &Manager{
		api:    api,
		creds:  creds,
		logger: logger,
		state:  State{Status: Unknown},
	}
}

// State returns a snapshot of the current session state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Subscribe registers an observer for state transitions.
func (m *Manager) Subscribe(fn Observer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, fn)
}

// transition swaps the state under the lock and returns the notifier to run
// once the lock is released.
func (m *Manager) transition(st State) func() {
	m.state = st
	obs := make([]Observer, len(m.observers))
	copy(obs, m.observers)
	return func() {
		for _, fn := range obs {
			fn(st)
		}
	}
}

// Restore resolves the Unknown startup state from the credential store. It
// never touches the network: a stored pair is trusted until the first API
// call proves it stale. A corrupt store is repaired (cleared) by Read itself.
func (m *Manager) Restore() State {
	m.mu.Lock()
	if m.state.Status != Unknown {
		st := m.state
		m.mu.Unlock()
		return st
	}

	var st State
	if _, usr, err := m.creds.Read(); err == nil {
		st = State{Status: Authenticated, User: usr}
	} else {
		st = State{Status: Anonymous}
	}
	notify := m.transition(st)
	m.mu.Unlock()

	notify()
	return st
}

// Login authenticates with the given credentials. On success the (token, user)
// pair is persisted, observers are notified and the user's role home route is
// returned. On failure the state re-enters Anonymous and the store is untouched.
func (m *Manager) Login(ctx context.Context, creds user.Credentials) (user.User, string, error) {
	if err := creds.Validate(); err != nil {
		return user.User{}, "", err
	}
	epoch, err := m.beginAuth()
	if err != nil {
		return user.User{}, "", err
	}

	grant, err := m.api.Login(ctx, creds)
	return m.finishAuth(epoch, grant, errors.Wrap(err, "logging in"))
}

// Signup registers a new account; its lifecycle is identical to Login's.
func (m *Manager) Signup(ctx context.Context, acct user.NewAccount) (user.User, string, error) {
	if err := acct.Validate(); err != nil {
		return user.User{}, "", err
	}
	epoch, err := m.beginAuth()
	if err != nil {
		return user.User{}, "", err
	}

	grant, err := m.api.Signup(ctx, acct)
	return m.finishAuth(epoch, grant, errors.Wrap(err, "signing up"))
}

// beginAuth moves the machine into Authenticating. Exactly one attempt may be
// in flight: a concurrent second call is rejected, never interleaved.
func (m *Manager) beginAuth() (uint64, error) {
	m.mu.Lock()
	switch m.state.Status {
	case Authenticating:
		m.mu.Unlock()
		return 0, ErrAuthPending
	case Authenticated:
		m.mu.Unlock()
		return 0, ErrAlreadyAuthenticated
	}

	epoch := m.epoch
	notify := m.transition(State{Status: Authenticating})
	m.mu.Unlock()

	notify()
	return epoch, nil
}

// finishAuth applies the outcome of an auth attempt dispatched at `epoch`.
// If a forced invalidation happened underneath the in-flight request, the
// (possibly successful) outcome is discarded: clears always win over stale
// successes.
func (m *Manager) finishAuth(epoch uint64, grant user.AuthGrant, err error) (user.User, string, error) {
	m.mu.Lock()
	if m.epoch != epoch {
		// the state already belongs to a later transition; do not resurrect.
		m.mu.Unlock()
		return user.User{}, "", ErrSessionInvalidated
	}

	if err == nil {
		if werr := m.creds.Write(grant.Token, grant.User); werr != nil {
			err = errors.Wrap(werr, "persisting session")
		}
	}
	var notify func()
	if err != nil {
		notify = m.transition(State{Status: Anonymous})
		m.mu.Unlock()
		notify()
		return user.User{}, "", err
	}

	notify = m.transition(State{Status: Authenticated, User: grant.User})
	m.mu.Unlock()
	notify()
	return grant.User, m.homeFor(grant.User), nil
}

// Logout invalidates the session remotely on a best-effort basis and always
// clears local state, even when the remote call fails or times out.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.api.Logout(ctx); err != nil {
		m.logger.Warn("remote logout failed; clearing local session anyway", err)
	}
	m.clear()
	return nil
}

// Invalidate is the forced transition to Anonymous triggered by an
// authorization failure on any in-flight request (the transport's 401 hook).
// It may interrupt any state, including an in-flight Login/Signup.
func (m *Manager) Invalidate() {
	m.clear()
}

func (m *Manager) clear() {
	m.mu.Lock()
	m.epoch++
	if err := m.creds.Clear(); err != nil {
		m.logger.Error("clearing credential store", err)
	}
	notify := m.transition(State{Status: Anonymous})
	m.mu.Unlock()
	notify()
}

// UpdateUser merges a partial update into the cached user record and
// re-persists the (token, user) pair.
func (m *Manager) UpdateUser(up user.Update) (user.User, error) {
	if err := up.Validate(); err != nil {
		return user.User{}, err
	}

	m.mu.Lock()
	if m.state.Status != Authenticated {
		m.mu.Unlock()
		return user.User{}, ErrNotAuthenticated
	}
	token, _, err := m.creds.Read()
	if err != nil {
		m.mu.Unlock()
		return user.User{}, ErrNotAuthenticated
	}
	merged := m.state.User.Merge(up)
	if err = m.creds.Write(token, merged); err != nil {
		m.mu.Unlock()
		return user.User{}, errors.Wrap(err, "persisting updated user")
	}
	notify := m.transition(State{Status: Authenticated, User: merged})
	m.mu.Unlock()

	notify()
	return merged, nil
}

// ChangePassword changes the authenticated user's password. Session state is
// unaffected by the outcome.
func (m *Manager) ChangePassword(ctx context.Context, pc user.PasswordChange) error {
	if err := pc.Validate(); err != nil {
		return err
	}
	if m.State().Status != Authenticated {
		return ErrNotAuthenticated
	}
	return errors.Wrap(m.api.ChangePassword(ctx, pc), "changing password")
}

func (m *Manager) homeFor(usr user.User) string {
	home, err := usr.Role.Home()
	if err != nil {
		// an unknown role is a fatal configuration error
		m.logger.Fatal("resolving role home", err, usr)
	}
	return home
}
