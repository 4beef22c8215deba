package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/dsatracker/internal/client/client"
	"github.com/dmitrijs2005/dsatracker/internal/client/config"
	"github.com/dmitrijs2005/dsatracker/internal/client/credential/credentialtest"
	"github.com/dmitrijs2005/dsatracker/internal/client/storage"
	"github.com/dmitrijs2005/dsatracker/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backend is a minimal tracker API: one user, bearer or cookie auth, and a
// switch to start rejecting every authenticated call.
type backend struct {
	mu     sync.Mutex
	token  string
	reject bool
	probes int
}

func (b *backend) setReject(v bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reject = v
}

func (b *backend) authorized(r *http.Request) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.reject {
		return false
	}
	if c, err := r.Cookie("jwt-token"); err == nil && c.Value == b.token {
		return true
	}
	return r.Header.Get("Authorization") == "Bearer "+b.token
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case client.PathLogin:
		var body struct{ Username, Password string }
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Username != "alice" || body.Password != "pw" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "jwt-token", Value: b.token, Path: "/", MaxAge: 3600, HttpOnly: true})
		_ = json.NewEncoder(w).Encode(client.LoginResponse{Token: b.token, Type: "Bearer", Username: "alice"})
	case client.PathLogout:
		http.SetCookie(w, &http.Cookie{Name: "jwt-token", Value: "", Path: "/", MaxAge: -1})
		_, _ = w.Write([]byte(`{"message":"Logged out successfully!"}`))
	case client.PathQuestions:
		b.mu.Lock()
		b.probes++
		b.mu.Unlock()
		if !b.authorized(r) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`[{"id":1,"number":1,"name":"Two Sum","topics":["array"],"attemptCount":0,"position":1}]`))
	default:
		http.NotFound(w, r)
	}
}

type harness struct {
	backend *backend
	srv     *httptest.Server
	dbPath  string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	b := &backend{token: credentialtest.Valid(t, "alice")}
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)
	return &harness{backend: b, srv: srv, dbPath: filepath.Join(t.TempDir(), "client.db")}
}

func (h *harness) app(t *testing.T, input string) (*App, *bytes.Buffer) {
	t.Helper()
	var cfg config.Config
	cfg.LoadDefaults()
	cfg.APIBaseURL = h.srv.URL
	cfg.DatabasePath = h.dbPath

	db, err := storage.Open(context.Background(), cfg.DatabasePath)
	require.NoError(t, err)
	a, err := newApp(context.Background(), &cfg, logging.Nop(), db, h.srv.Client().Transport)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	var out bytes.Buffer
	a.reader = bufio.NewReader(strings.NewReader(input))
	a.out = &out
	return a, &out
}

func stubCredentials(t *testing.T, username, password string) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	getSimpleText = func(*bufio.Reader, string, io.Writer) (string, error) { return username, nil }
	getPassword = func(*bufio.Reader, io.Writer) (string, error) { return password, nil }
	t.Cleanup(func() { getSimpleText, getPassword = origST, origGP })
}

func TestStart_FreshDevice(t *testing.T) {
	h := newHarness(t)
	a, out := h.app(t, "")

	st := a.Start(context.Background())
	assert.False(t, st.Authenticated)
	assert.False(t, st.Loading)
	assert.Equal(t, SurfaceLogin, a.Current())
	assert.Equal(t, MsgPleaseSignIn+"\n", out.String())
	assert.Equal(t, 0, h.backend.probes, "no backend call without a stored identity")
}

func TestLogin_ListAndRestart(t *testing.T) {
	h := newHarness(t)
	stubCredentials(t, "alice", "pw")

	a, out := h.app(t, "")
	a.Start(context.Background())
	require.NoError(t, a.Login(context.Background()))
	assert.True(t, a.isLoggedIn())
	assert.Equal(t, SurfaceDashboard, a.Current())
	assert.Equal(t, "(alice)", a.getStatus())

	require.NoError(t, a.List(context.Background()))
	assert.Contains(t, out.String(), "[1] #1 Two Sum (array)")
	require.NoError(t, a.Close())

	restarted, out2 := h.app(t, "")
	st := restarted.Start(context.Background())
	assert.True(t, st.Authenticated)
	assert.Equal(t, "alice", st.Username)
	assert.Contains(t, out2.String(), "Signed in as alice")
}

func TestLogin_WrongPassword(t *testing.T) {
	h := newHarness(t)
	stubCredentials(t, "alice", "nope")

	a, _ := h.app(t, "")
	a.Start(context.Background())
	err := a.Login(context.Background())
	require.EqualError(t, err, "invalid username or password")
	assert.False(t, a.isLoggedIn())
}

func TestRejectedCall_ShowsExpiredOnce(t *testing.T) {
	h := newHarness(t)
	stubCredentials(t, "alice", "pw")

	a, out := h.app(t, "")
	a.Start(context.Background())
	require.NoError(t, a.Login(context.Background()))
	out.Reset()

	h.backend.setReject(true)
	err := a.List(context.Background())
	require.ErrorIs(t, err, client.ErrUnauthorized)

	assert.False(t, a.isLoggedIn())
	assert.Equal(t, SurfaceLogin, a.Current())
	assert.Equal(t, 1, strings.Count(out.String(), MsgSessionExpired))

	// Signed out now: nothing reaches the backend and no new redirect fires.
	require.ErrorIs(t, a.List(context.Background()), errSignedOut)
	assert.Equal(t, 1, strings.Count(out.String(), MsgSessionExpired))
}

func TestStart_RejectedStoredSessionSaysExpired(t *testing.T) {
	h := newHarness(t)
	stubCredentials(t, "alice", "pw")

	a, _ := h.app(t, "")
	a.Start(context.Background())
	require.NoError(t, a.Login(context.Background()))
	require.NoError(t, a.Close())

	h.backend.setReject(true)
	restarted, out := h.app(t, "")
	st := restarted.Start(context.Background())

	assert.False(t, st.Authenticated)
	assert.Equal(t, SurfaceLogin, restarted.Current())
	assert.Equal(t, MsgSessionExpired+"\n", out.String())
}

func TestLogout_Twice(t *testing.T) {
	h := newHarness(t)
	stubCredentials(t, "alice", "pw")

	a, out := h.app(t, "")
	a.Start(context.Background())
	require.NoError(t, a.Login(context.Background()))

	require.NoError(t, a.Logout(context.Background()))
	require.NoError(t, a.Logout(context.Background()))
	assert.False(t, a.isLoggedIn())
	assert.Equal(t, 2, strings.Count(out.String(), "Signed out"))
}

func TestWhoami_NeverPrintsCredential(t *testing.T) {
	h := newHarness(t)
	stubCredentials(t, "alice", "pw")

	a, out := h.app(t, "")
	a.Start(context.Background())
	require.NoError(t, a.Login(context.Background()))
	out.Reset()

	require.NoError(t, a.Whoami(context.Background()))
	s := out.String()
	assert.Contains(t, s, "signed in as alice")
	assert.Contains(t, s, "Subject:    alice")
	assert.Contains(t, s, "Credential: valid")
	assert.NotContains(t, s, h.backend.token)
}

func TestCommandsRequireSession(t *testing.T) {
	h := newHarness(t)
	a, _ := h.app(t, "")
	a.Start(context.Background())
	ctx := context.Background()

	assert.ErrorIs(t, a.List(ctx), errSignedOut)
	assert.ErrorIs(t, a.Add(ctx), errSignedOut)
	assert.ErrorIs(t, a.Revise(ctx, []string{"1"}), errSignedOut)
	assert.ErrorIs(t, a.Next(ctx), errSignedOut)
	assert.ErrorIs(t, a.Stats(ctx), errSignedOut)
}

func TestRun_REPLOverApp(t *testing.T) {
	h := newHarness(t)
	stubCredentials(t, "alice", "pw")

	a, out := h.app(t, "login\nlist\nexit\n")
	a.Run(context.Background())

	s := out.String()
	assert.Contains(t, s, "Welcome to dsatracker")
	assert.Contains(t, s, "Signed in as alice")
	assert.Contains(t, s, "Two Sum")
	assert.Contains(t, s, "dsa ", "prompt goes to the app's writer")
	assert.Contains(t, s, "Bye!")
}
