package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool

	calls      []string
	reviseArgs []string
	err        error
}

func (f *fakeExec) record(name string) error {
	f.calls = append(f.calls, name)
	return f.err
}

func (f *fakeExec) isLoggedIn() bool               { return f.loggedIn }
func (f *fakeExec) Register(context.Context) error { return f.record("register") }
func (f *fakeExec) Whoami(context.Context) error   { return f.record("whoami") }
func (f *fakeExec) List(context.Context) error     { return f.record("list") }
func (f *fakeExec) Add(context.Context) error      { return f.record("add") }
func (f *fakeExec) Next(context.Context) error     { return f.record("next") }
func (f *fakeExec) Stats(context.Context) error    { return f.record("stats") }
func (f *fakeExec) Login(context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Logout(context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeExec) Revise(_ context.Context, args []string) error {
	f.reviseArgs = args
	return f.record("revise")
}

func capturePrint(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(_ io.Writer, a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	out := capturePrint(t)

	input := strings.Join([]string{
		"help",
		"login",
		"help",
		"",
		"list",
		"add",
		"revise 7",
		"next",
		"stats",
		"whoami",
		"foobar",
		"logout",
		"exit",
		"list",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, rdr(input), io.Discard)

	assert.Equal(t, []string{"login", "list", "add", "revise", "next", "stats", "whoami", "logout"}, exec.calls)
	assert.Equal(t, []string{"7"}, exec.reviseArgs)
	assert.Contains(t, *out, helpSignedOut)
	assert.Contains(t, *out, helpSignedIn)
	assert.Contains(t, *out, "Unknown command: foobar")
	assert.Contains(t, *out, "dsa status> ")
	assert.Equal(t, "Bye!", (*out)[len(*out)-1])
}

func TestRunREPL_PrintsErrorsAndContinues(t *testing.T) {
	out := capturePrint(t)

	exec := &fakeExec{err: errors.New("boom")}
	runREPL(context.Background(), exec, func() string { return "" }, rdr("list\nstats\n"), io.Discard)

	require.Equal(t, []string{"list", "stats"}, exec.calls)
	assert.Contains(t, *out, "Error: boom")
}

func TestRunREPL_LastLineWithoutNewline(t *testing.T) {
	capturePrint(t)

	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "" }, rdr("next"), io.Discard)

	assert.Equal(t, []string{"next"}, exec.calls)
}

func TestRunREPL_WritesToGivenWriter(t *testing.T) {
	var buf strings.Builder
	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "signed out" }, rdr("help\nfoobar\nexit\n"), &buf)

	got := buf.String()
	assert.Contains(t, got, "dsa signed out> ")
	assert.Contains(t, got, helpSignedOut)
	assert.Contains(t, got, "Unknown command: foobar")
	assert.Contains(t, got, "Bye!")
}
