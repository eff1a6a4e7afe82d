package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Memberships(ctx context.Context) error
	Subscribe(ctx context.Context, args []string) error
	Workouts(ctx context.Context, args []string) error
	Trainers(ctx context.Context) error
	Classes(ctx context.Context) error
	Dashboard(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the fitclub CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF, on context cancellation, or when the user
// types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Always:
//	  - help                      - show available commands
//	  - memberships               - list membership plans
//	  - workouts [k=v ...]        - list workouts (difficulty=, category=)
//	  - trainers                  - list trainers
//	  - classes                   - list upcoming classes
//	  - dashboard                 - your profile, membership and bookings
//	  - subscribe <id>            - join a membership plan
//	  - exit | quit               - leave the program
//
//	Not logged in:
//	  - register                  - create an account
//	  - login                     - authenticate
//
//	Logged in:
//	  - whoami                    - show the signed-in account
//	  - logout                    - log out
//
// Errors returned by command handlers are ignored here; handlers print their
// own messages. This keeps the loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintf(w, "fitclub %s> ", statusFn())

		line, err := readLineContext(ctx, reader)
		if err != nil {
			fmt.Fprintln(w)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, "Available commands: memberships, workouts, trainers, classes, dashboard, subscribe <id>, whoami, logout, exit")
			} else {
				fmt.Fprintln(w, "Available commands: memberships, workouts, trainers, classes, dashboard, subscribe <id>, register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.Whoami(ctx)

		case "memberships":
			_ = a.Memberships(ctx)

		case "subscribe":
			_ = a.Subscribe(ctx, args)

		case "workouts":
			_ = a.Workouts(ctx, args)

		case "trainers":
			_ = a.Trainers(ctx)

		case "classes":
			_ = a.Classes(ctx)

		case "dashboard":
			_ = a.Dashboard(ctx)

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}
	}
}
