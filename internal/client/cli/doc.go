// Package cli provides the interactive otpkeeper command-line client.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// Typical flow: log in (derives the vault key), add or import accounts,
// print or watch the current codes and sync the encrypted vault with the
// configured remote store.
//
// See App and runREPL for details.
package cli
