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
var printlnFn = fmt.Println

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Me(ctx context.Context) error
	Verify(ctx context.Context, args []string) error
	SendCode(ctx context.Context) error
	Forgot(ctx context.Context, args []string) error
	Reset(ctx context.Context, args []string) error
	List(ctx context.Context, args []string) error
	Upload(ctx context.Context, paths []string) error
	Favorite(ctx context.Context, id string) error
	Remove(ctx context.Context, id string) error
	Share(ctx context.Context, id, email string) error
	Contacts(ctx context.Context, query string) error
	Shared(ctx context.Context) error
	View(ctx context.Context, id string) error
	URL(ctx context.Context, id string) error
	Download(ctx context.Context, id, dest string) error
	Visibility(ctx context.Context, id, v string) error
	Quota(ctx context.Context) error
	Avatar(ctx context.Context, path string) error
	Upgrade(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: register, login, forgot, reset, help, exit"
	helpLoggedIn  = "Available commands: me, verify, sendcode, (l)s [source] [query], upload <paths...>, " +
		"fav <id>, rm <id>, share <id> <email>, contacts [query], shared, view <id>, url <id>, " +
		"download <id> [dest], visibility <id> <public|private>, quota, avatar <path>, upgrade, " +
		"delete-account, logout, help, exit"
)

// public commands work without a session.
var public = map[string]bool{
	"help": true, "register": true, "login": true, "forgot": true, "reset": true, "exit": true, "quit": true,
}

// runREPL starts a simple read–eval–print loop for the CloudShare CLI.
//
// It reads a line from in, parses the first token as the command and the rest
// as arguments, and dispatches to methods on 'a'. Commands that need a
// session are refused while logged out. The loop exits on EOF or when the
// user types "exit" or "quit".
//
// Any errors returned by command handlers are ignored here; handlers report
// their own failures. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, in *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("cs %s> ", statusFn()))
		line, err := in.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if !public[cmd] && !a.isLoggedIn() {
			printlnFn("Please log in first (type 'help' for commands)")
			continue
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "register":
			_ = a.Register(ctx)
		case "login":
			_ = a.Login(ctx)
		case "logout":
			_ = a.Logout(ctx)
		case "forgot":
			_ = a.Forgot(ctx, args)
		case "reset":
			_ = a.Reset(ctx, args)

		case "me":
			_ = a.Me(ctx)
		case "verify":
			_ = a.Verify(ctx, args)
		case "sendcode":
			_ = a.SendCode(ctx)

		case "l", "ls", "list":
			_ = a.List(ctx, args)
		case "upload":
			if len(args) == 0 {
				printlnFn("Usage: upload <paths...>")
				continue
			}
			_ = a.Upload(ctx, args)
		case "fav":
			if len(args) != 1 {
				printlnFn("Usage: fav <id>")
				continue
			}
			_ = a.Favorite(ctx, args[0])
		case "rm":
			if len(args) != 1 {
				printlnFn("Usage: rm <id>")
				continue
			}
			_ = a.Remove(ctx, args[0])
		case "share":
			if len(args) != 2 {
				printlnFn("Usage: share <id> <email>")
				continue
			}
			_ = a.Share(ctx, args[0], args[1])
		case "contacts":
			_ = a.Contacts(ctx, strings.Join(args, " "))
		case "shared":
			_ = a.Shared(ctx)
		case "view":
			if len(args) != 1 {
				printlnFn("Usage: view <id>")
				continue
			}
			_ = a.View(ctx, args[0])
		case "url":
			if len(args) != 1 {
				printlnFn("Usage: url <id>")
				continue
			}
			_ = a.URL(ctx, args[0])
		case "download":
			if len(args) < 1 || len(args) > 2 {
				printlnFn("Usage: download <id> [dest]")
				continue
			}
			dest := ""
			if len(args) == 2 {
				dest = args[1]
			}
			_ = a.Download(ctx, args[0], dest)
		case "visibility":
			if len(args) != 2 {
				printlnFn("Usage: visibility <id> <public|private>")
				continue
			}
			_ = a.Visibility(ctx, args[0], args[1])
		case "quota":
			_ = a.Quota(ctx)
		case "avatar":
			if len(args) != 1 {
				printlnFn("Usage: avatar <path>")
				continue
			}
			_ = a.Avatar(ctx, args[0])
		case "upgrade":
			_ = a.Upgrade(ctx)
		case "delete-account":
			_ = a.DeleteAccount(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
