// Package cli provides the interactive CloudShare command-line client.
//
// It wires configuration, the local session store, API services and the
// client-side controllers, then runs a REPL until the user exits. A stored
// session is resumed on start.
//
// Key features:
//   - Register / Login / Logout, email verification, password reset
//   - List, search, upload, share, favorite and delete files
//   - Quota, profile photo and account deletion
//   - Premium checkout through a terminal payment widget
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
