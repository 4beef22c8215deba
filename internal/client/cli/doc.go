// Package cli provides the interactive dsatracker command-line client.
//
// It wires configuration, local storage, credential providers, the request
// gateway, API services and an interactive REPL. Typical flow: restore the
// stored session (validating it locally and against the backend), land on
// the dashboard or the sign-in surface, then execute user commands.
//
// Key features:
//   - Register / Login / Logout
//   - whoami: what the device holds, without revealing the credential
//   - List / Add / Revise questions, Next due, Stats
//
// App implements gateway.Navigator: when the backend rejects a call the
// session is torn down and the user is sent back to sign in once, with a
// "session expired" message if they had been signed in.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
