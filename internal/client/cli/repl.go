package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

type command func(ctx context.Context, args []string) error

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Add(ctx context.Context, args []string) error
	Edit(ctx context.Context, args []string) error
	Import(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
	QR(ctx context.Context, args []string) error
	List(ctx context.Context, args []string) error
	Codes(ctx context.Context, args []string) error
	Watch(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	DeleteAll(ctx context.Context, args []string) error
	Sync(ctx context.Context, args []string) error
	Status(ctx context.Context, args []string) error
}

const helpText = `Available commands:
  login                  derive the vault key
  logout                 forget the key and the remembered email
  add                    add an account by hand
  edit <id>              change an account
  import [uri]           add an account from an otpauth:// URI
  export <id>            print the otpauth:// URI of an account
  qr <id> [file.png]     show or save the QR code of an account
  (l)ist                 list accounts
  (c)odes                print the current codes
  (w)atch                refresh codes until Enter is pressed
  delete <id>            delete an account
  deleteall              delete every local account
  sync                   merge with the remote vault
  status                 show login and sync state
  exit | quit            leave the program`

// runREPL starts a simple read–eval–print loop for the otpkeeper CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a' with the remaining tokens as arguments.
// Unknown commands are reported back to the user. The loop exits on EOF,
// when ctx is done, or when the user types "exit" or "quit".
//
// sync and logout need a derived key; the REPL asks the user to log in
// first instead of calling them.
//
// Any errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	commands := map[string]command{
		"add":       a.Add,
		"edit":      a.Edit,
		"import":    a.Import,
		"export":    a.Export,
		"qr":        a.QR,
		"l":         a.List,
		"list":      a.List,
		"c":         a.Codes,
		"codes":     a.Codes,
		"w":         a.Watch,
		"watch":     a.Watch,
		"delete":    a.Delete,
		"deleteall": a.DeleteAll,
		"status":    a.Status,
	}
	needKey := map[string]command{
		"sync":   a.Sync,
		"logout": func(ctx context.Context, _ []string) error { return a.Logout(ctx) },
	}

	for ctx.Err() == nil {
		printlnFn(fmt.Sprintf("otp %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn(helpText)
			continue

		case "login":
			_ = a.Login(ctx)
			continue

		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		if fn, ok := commands[cmd]; ok {
			_ = fn(ctx, args)
			continue
		}
		if fn, ok := needKey[cmd]; ok {
			if !a.isLoggedIn() {
				printlnFn("Please log in first")
				continue
			}
			_ = fn(ctx, args)
			continue
		}
		printlnFn("Unknown command:", cmd)
	}
}
