// Package cli provides the interactive food delivery back-office client.
//
// It wires configuration, the local token database, the API client and the
// client stores, and runs a REPL on top of them. On start the previous
// session is restored if its token is still accepted by the server.
//
// Every command other than help, login and exit passes through the access
// gate. When the gate refuses a command the user is asked to log in, and
// after a successful login the refused command runs.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
