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
	Managers(ctx context.Context) error
	Apply(ctx context.Context) error
	List(ctx context.Context) error
	Team(ctx context.Context) error
	Approve(ctx context.Context, args []string) error
	Reject(ctx context.Context, args []string) error
}

// runREPL starts a simple read–eval–print loop for the leavedesk CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current user (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help           — show available commands
//	  - register       — create an account
//	  - login          — authenticate
//	  - managers       — list users available as managers
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - help           — show available commands
//	  - apply          — submit a leave request
//	  - list           — list own leave requests
//	  - team           — list requests assigned to you (managers)
//	  - approve <id>   — approve a pending request (managers)
//	  - reject <id>    — reject a pending request (managers)
//	  - logout         — log out
//	  - exit | quit    — leave the program
//
// Any errors returned by command handlers are ignored here; handlers print
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("ld> %s > ", statusFn()))
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
				printlnFn("Available commands: apply, (l)ist, team, approve <id>, reject <id>, managers, logout, exit")
			} else {
				printlnFn("Available commands: register, login, managers, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "managers":
			_ = a.Managers(ctx)

		case "apply":
			_ = a.Apply(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "team":
			_ = a.Team(ctx)

		case "approve":
			_ = a.Approve(ctx, args)

		case "reject":
			_ = a.Reject(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
