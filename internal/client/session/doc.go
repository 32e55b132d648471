// Package session owns the authenticated session: the persisted
// {token, user} blob and the in-memory State every component reads.
//
// State is the only writer of the current user. Writers hand it a merge
// function that runs under its lock, so partially merged records are never
// observable. Every token change (login, logout) advances a generation
// counter; a Guard captured before a long-running call refuses to commit once
// the generation has moved on.
package session
