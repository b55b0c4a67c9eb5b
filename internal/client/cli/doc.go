// Package cli provides the interactive marketdesk command-line client.
//
// It wires configuration, the session store, the API client and the
// services into a REPL. Typical flow: restore or prompt for a session, open
// the dashboard that matches the account's role, then browse lists, edit
// the profile, upload pictures or watch offer countdowns.
//
// Errors never end the loop; they are printed as one-line messages. A
// session rejected by the server closes the open dashboard so the next
// command asks for 'login'.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See runREPL and App.commands for the command table.
package cli
