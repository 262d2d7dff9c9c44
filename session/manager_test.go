package session

import (
	"context"
	"testing"

	"github.com/pkg/errors"

	"github.com/tharun-r1705/data-frontend-new/core/user"
	"github.com/tharun-r1705/data-frontend-new/storage/credstore"
)

var (
	testUser = user.User{ID: "u-1", Email: "awe@test.cd", Role: user.RoleStudent, Name: "Awe"}

	errBoom = errors.New("backend on fire")
)

type apiMock struct {
	loginFn  func(ctx context.Context, creds user.Credentials) (user.AuthGrant, error)
	signupFn func(ctx context.Context, acct user.NewAccount) (user.AuthGrant, error)
	logoutFn func(ctx context.Context) error
}

func (m *apiMock) Login(ctx context.Context, creds user.Credentials) (user.AuthGrant, error) {
	if m.loginFn == nil {
		return user.AuthGrant{User: testUser, Token: "tok-1"}, nil
	}
	return m.loginFn(ctx, creds)
}

func (m *apiMock) Signup(ctx context.Context, acct user.NewAccount) (user.AuthGrant, error) {
	if m.signupFn == nil {
		return user.AuthGrant{User: testUser, Token: "tok-1"}, nil
	}
	return m.signupFn(ctx, acct)
}

func (m *apiMock) Logout(ctx context.Context) error {
	if m.logoutFn == nil {
		return nil
	}
	return m.logoutFn(ctx)
}

func (m *apiMock) ChangePassword(ctx context.Context, pc user.PasswordChange) error { return nil }

type loggerMock struct{}

func (loggerMock) Debug(msg string, args ...interface{}) {}
func (loggerMock) Info(msg string, args ...interface{})  {}
func (loggerMock) Warn(msg string, args ...interface{})  {}
func (loggerMock) Error(msg string, args ...interface{}) {}
func (loggerMock) Fatal(msg string, args ...interface{}) { panic("fatal: " + msg) }

func newTestManager(api API) (*Manager, *credstore.MemStore) {
	store := credstore.NewMemStore()
	return NewManager(api, store, loggerMock{}), store
}

// pairConsistent checks the invariant: token present <=> user record present.
func pairConsistent(t *testing.T, store credstore.Store, st State) {
	t.Helper()
	_, _, err := store.Read()
	stored := err == nil
	authed := st.Status == Authenticated
	if stored != authed {
		t.Errorf("store/state out of sync: stored=%v, state=%s", stored, st.Status)
	}
}

func TestManager_restoreStoredSession(t *testing.T) {
	mgr, store := newTestManager(&apiMock{
		loginFn: func(context.Context, user.Credentials) (user.AuthGrant, error) {
			t.Fatal("restoration must not call the network")
			return user.AuthGrant{}, nil
		},
	})
	_ = store.Write("tok-1", testUser)

	st := mgr.Restore()
	if st.Status != Authenticated {
		t.Fatalf("Restore() status = %s, want authenticated", st.Status)
	}
	if st.User != testUser {
		t.Errorf("Restore() user = %+v, want %+v", st.User, testUser)
	}
}

func TestManager_restoreEmptyStore(t *testing.T) {
	mgr, store := newTestManager(&apiMock{})

	st := mgr.Restore()
	if st.Status != Anonymous {
		t.Fatalf("Restore() status = %s, want anonymous", st.Status)
	}
	pairConsistent(t, store, st)

	// restoring twice is a no-op
	if again := mgr.Restore(); again.Status != Anonymous {
		t.Errorf("second Restore() status = %s, want anonymous", again.Status)
	}
}

func TestManager_loginSuccess(t *testing.T) {
	mgr, store := newTestManager(&apiMock{})
	mgr.Restore()

	var seen []Status
	mgr.Subscribe(func(st State) { seen = append(seen, st.Status) })

	usr, home, err := mgr.Login(context.Background(), user.Credentials{Email: "awe@test.cd", Password: "mdr"})
	if err != nil {
		t.Fatalf("Login() failed: %v", err)
	}
	if usr != testUser {
		t.Errorf("Login() user = %+v, want %+v", usr, testUser)
	}
	if home != "/student" {
		t.Errorf("Login() home = %q, want /student", home)
	}

	token, stored, err := store.Read()
	if err != nil {
		t.Fatalf("store.Read() failed: %v", err)
	}
	if token != "tok-1" || stored != testUser {
		t.Errorf("store = (%q, %+v), want persisted grant", token, stored)
	}
	pairConsistent(t, store, mgr.State())

	want := []Status{Authenticating, Authenticated}
	if len(seen) != len(want) {
		t.Fatalf("observer saw %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("observer transition %d = %s, want %s", i, seen[i], want[i])
		}
	}
}

func TestManager_loginFailure(t *testing.T) {
	mgr, store := newTestManager(&apiMock{
		loginFn: func(context.Context, user.Credentials) (user.AuthGrant, error) {
			return user.AuthGrant{}, errBoom
		},
	})
	mgr.Restore()

	_, _, err := mgr.Login(context.Background(), user.Credentials{Email: "awe@test.cd", Password: "bad"})
	if errors.Cause(err) != errBoom {
		t.Fatalf("Login() error = %v, want %v", err, errBoom)
	}
	if st := mgr.State(); st.Status != Anonymous {
		t.Errorf("state after failed login = %s, want anonymous", st.Status)
	}
	if _, _, err = store.Read(); err != credstore.ErrNoSession {
		t.Errorf("store touched by failed login: %v", err)
	}
}

func TestManager_loginValidation(t *testing.T) {
	mgr, _ := newTestManager(&apiMock{
		loginFn: func(context.Context, user.Credentials) (user.AuthGrant, error) {
			t.Fatal("invalid input must not reach the network")
			return user.AuthGrant{}, nil
		},
	})
	mgr.Restore()

	tests := []struct {
		name  string
		creds user.Credentials
	}{
		{name: "empty", creds: user.Credentials{}},
		{name: "bad email", creds: user.Credentials{Email: "nope", Password: "pwd"}},
		{name: "no password", creds: user.Credentials{Email: "awe@test.cd"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := mgr.Login(context.Background(), tt.creds); err == nil {
				t.Error("Login() accepted invalid input")
			}
		})
	}
}

func TestManager_signupSuccess(t *testing.T) {
	teacher := user.User{ID: "u-2", Email: "prof@test.cd", Role: user.RoleTeacher}
	mgr, store := newTestManager(&apiMock{
		signupFn: func(_ context.Context, acct user.NewAccount) (user.AuthGrant, error) {
			return user.AuthGrant{User: teacher, Token: "tok-2"}, nil
		},
	})
	mgr.Restore()

	usr, home, err := mgr.Signup(context.Background(), user.NewAccount{
		Email:    "prof@test.cd",
		Password: "secret1",
		Role:     user.RoleTeacher,
	})
	if err != nil {
		t.Fatalf("Signup() failed: %v", err)
	}
	if usr != teacher || home != "/teacher" {
		t.Errorf("Signup() = (%+v, %q), want teacher -> /teacher", usr, home)
	}
	pairConsistent(t, store, mgr.State())
}

func TestManager_signupRejectsUnknownRole(t *testing.T) {
	mgr, _ := newTestManager(&apiMock{})
	mgr.Restore()

	_, _, err := mgr.Signup(context.Background(), user.NewAccount{
		Email:    "prof@test.cd",
		Password: "secret1",
		Role:     "principal",
	})
	if err == nil {
		t.Fatal("Signup() accepted an unknown role")
	}
}

func TestManager_concurrentAuthRejected(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	mgr, _ := newTestManager(&apiMock{
		loginFn: func(context.Context, user.Credentials) (user.AuthGrant, error) {
			close(started)
			<-release
			return user.AuthGrant{User: testUser, Token: "tok-1"}, nil
		},
	})
	mgr.Restore()

	done := make(chan error, 1)
	go func() {
		_, _, err := mgr.Login(context.Background(), user.Credentials{Email: "awe@test.cd", Password: "mdr"})
		done <- err
	}()
	<-started

	if _, _, err := mgr.Login(context.Background(), user.Credentials{Email: "awe@test.cd", Password: "mdr"}); err != ErrAuthPending {
		t.Errorf("second Login() error = %v, want ErrAuthPending", err)
	}
	if _, _, err := mgr.Signup(context.Background(), user.NewAccount{
		Email: "awe@test.cd", Password: "secret1", Role: user.RoleStudent,
	}); err != ErrAuthPending {
		t.Errorf("Signup() during login error = %v, want ErrAuthPending", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first Login() failed: %v", err)
	}
}

func TestManager_invalidationBeatsStaleSuccess(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	mgr, store := newTestManager(&apiMock{
		loginFn: func(context.Context, user.Credentials) (user.AuthGrant, error) {
			close(started)
			<-release
			return user.AuthGrant{User: testUser, Token: "tok-stale"}, nil
		},
	})
	mgr.Restore()

	done := make(chan error, 1)
	go func() {
		_, _, err := mgr.Login(context.Background(), user.Credentials{Email: "awe@test.cd", Password: "mdr"})
		done <- err
	}()
	<-started

	// a 401 from some other in-flight request forces logout underneath the login
	mgr.Invalidate()
	close(release)

	if err := <-done; err != ErrSessionInvalidated {
		t.Fatalf("stale Login() error = %v, want ErrSessionInvalidated", err)
	}
	if st := mgr.State(); st.Status != Anonymous {
		t.Errorf("state = %s, want anonymous", st.Status)
	}
	if _, _, err := store.Read(); err != credstore.ErrNoSession {
		t.Errorf("stale success resurrected credentials: %v", err)
	}
}

func TestManager_logoutAlwaysClears(t *testing.T) {
	tests := []struct {
		name      string
		logoutErr error
	}{
		{name: "remote ack"},
		{name: "remote failure", logoutErr: errBoom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr, store := newTestManager(&apiMock{
				logoutFn: func(context.Context) error { return tt.logoutErr },
			})
			_ = store.Write("tok-1", testUser)
			mgr.Restore()

			if err := mgr.Logout(context.Background()); err != nil {
				t.Fatalf("Logout() failed: %v", err)
			}
			if st := mgr.State(); st.Status != Anonymous {
				t.Errorf("state after logout = %s, want anonymous", st.Status)
			}
			if _, _, err := store.Read(); err != credstore.ErrNoSession {
				t.Errorf("store not cleared: %v", err)
			}
		})
	}
}

func TestManager_updateUser(t *testing.T) {
	mgr, store := newTestManager(&apiMock{})
	_ = store.Write("tok-1", testUser)
	mgr.Restore()

	name := "Awe Renamed"
	usr, err := mgr.UpdateUser(user.Update{Name: &name})
	if err != nil {
		t.Fatalf("UpdateUser() failed: %v", err)
	}
	if usr.Name != name {
		t.Errorf("UpdateUser() name = %q, want %q", usr.Name, name)
	}
	if usr.Email != testUser.Email || usr.ID != testUser.ID {
		t.Errorf("UpdateUser() clobbered unrelated fields: %+v", usr)
	}

	// the merged record is re-persisted alongside the token
	token, stored, err := store.Read()
	if err != nil {
		t.Fatalf("store.Read() failed: %v", err)
	}
	if token != "tok-1" || stored.Name != name {
		t.Errorf("store = (%q, %+v), want re-persisted pair", token, stored)
	}
}

func TestManager_updateUserWhenAnonymous(t *testing.T) {
	mgr, _ := newTestManager(&apiMock{})
	mgr.Restore()

	name := "Nope"
	if _, err := mgr.UpdateUser(user.Update{Name: &name}); err != ErrNotAuthenticated {
		t.Errorf("UpdateUser() error = %v, want ErrNotAuthenticated", err)
	}
}

func TestState_loading(t *testing.T) {
	if !(State{Status: Unknown}).Loading() {
		t.Error("Unknown should be loading")
	}
	if !(State{Status: Authenticating}).Loading() {
		t.Error("Authenticating should be loading")
	}
	if (State{Status: Anonymous}).Loading() {
		t.Error("Anonymous should not be loading")
	}
	if (State{Status: Authenticated}).Loading() {
		t.Error("Authenticated should not be loading")
	}
}
