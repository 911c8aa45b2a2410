package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	List(ctx context.Context) error
	Search(ctx context.Context, query string) error
	Show(ctx context.Context, id string) error
	Mine(ctx context.Context) error
	Author(ctx context.Context, id string) error
	Publish(ctx context.Context) error
	Edit(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the Scrawl CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Commands:
//
//	Not logged in:
//	  - help            — show available commands
//	  - register        — create an account
//	  - login           — authenticate
//	  - list            — show the feed
//	  - search <text>   — filter the feed
//	  - show <id>       — read a post in full
//	  - author <id>     — a writer's public profile
//	  - exit | quit     — leave the program
//
//	Logged in, additionally:
//	  - whoami          — show the signed-in profile
//	  - mine            — posts authored by the signed-in user
//	  - publish         — write a new post
//	  - edit            — edit the profile
//	  - logout          — end the session
//
// Errors returned by command handlers are printed by the handlers
// themselves; the loop only keeps reading. This keeps the REPL resilient
// and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("scrawl %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (l)ist, search <text>, show <id>, mine, author <id>, publish, edit, whoami, logout, exit")
			} else {
				printlnFn("Available commands: register, login, (l)ist, search <text>, show <id>, author <id>, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "search":
			_ = a.Search(ctx, strings.Join(args, " "))

		case "show":
			if len(args) == 0 {
				printlnFn("Usage: show <id>")
				continue
			}
			_ = a.Show(ctx, args[0])

		case "mine":
			_ = a.Mine(ctx)

		case "author":
			if len(args) == 0 {
				printlnFn("Usage: author <id>")
				continue
			}
			_ = a.Author(ctx, args[0])

		case "publish":
			_ = a.Publish(ctx)

		case "edit":
			_ = a.Edit(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
