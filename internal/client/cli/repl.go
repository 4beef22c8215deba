package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Fprintln

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	List(ctx context.Context) error
	Add(ctx context.Context) error
	Revise(ctx context.Context, args []string) error
	Next(ctx context.Context) error
	Stats(ctx context.Context) error
}

const (
	helpSignedOut = "Available commands: register, login, whoami, exit"
	helpSignedIn  = "Available commands: (l)ist, add, revise <id>, next, stats, whoami, logout, exit"
)

// runREPL starts a simple read–eval–print loop for the tracker CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Errors returned by handlers are printed and
// the loop continues. The loop exits on EOF or when the user types "exit"
// or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Signed out:
//	  - help           show available commands
//	  - register       create an account and sign in
//	  - login          sign in
//	  - whoami         show what is stored on this device
//	  - exit | quit    leave the program
//
//	Signed in:
//	  - list | l       list questions
//	  - add            add a question
//	  - revise <id>    record a revision
//	  - next           show the next question due
//	  - stats          show statistics
//	  - logout         sign out
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, out io.Writer) {
	for {
		printlnFn(out, fmt.Sprintf("dsa %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(out, helpSignedIn)
			} else {
				printlnFn(out, helpSignedOut)
			}

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "whoami":
			cmdErr = a.Whoami(ctx)

		case "l", "list":
			cmdErr = a.List(ctx)

		case "add":
			cmdErr = a.Add(ctx)

		case "revise":
			cmdErr = a.Revise(ctx, args)

		case "next":
			cmdErr = a.Next(ctx)

		case "stats":
			cmdErr = a.Stats(ctx)

		case "exit", "quit":
			printlnFn(out, "Bye!")
			return

		default:
			printlnFn(out, "Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn(out, "Error:", cmdErr)
		}
	}
}
