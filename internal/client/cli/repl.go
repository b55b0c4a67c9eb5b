package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/marketdesk/internal/client/client"
	"github.com/dmitrijs2005/marketdesk/internal/client/services"
)

// command is one REPL verb.
type command struct {
	name  string
	usage string
	help  string
	run   func(ctx context.Context, args []string) error
}

// execIface is what the REPL needs from the app; tests provide a stub.
type execIface interface {
	isLoggedIn(ctx context.Context) bool
	commands() []command
}

// errUsage makes the REPL print the command's usage line.
var errUsage = errors.New("usage")

// runREPL reads one line at a time, dispatches the first token to the
// matching command and prints any error as an inline message. The loop
// ends on EOF or on "exit" / "quit". Commands that prompt read from the
// same reader, so r must be shared with them.
func runREPL(ctx context.Context, a execIface, statusFn func() string, r *bufio.Reader, w io.Writer) {
	cmds := map[string]command{}
	for _, c := range a.commands() {
		cmds[c.name] = c
	}

	for {
		fmt.Fprintf(w, "md %s> ", statusFn())
		line, err := r.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(w)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		case "help":
			printHelp(w, a.commands(), a.isLoggedIn(ctx))
			continue
		}

		c, ok := cmds[name]
		if !ok {
			fmt.Fprintln(w, "Unknown command:", name)
			continue
		}

		if err := c.run(ctx, args); err != nil {
			if errors.Is(err, errUsage) {
				fmt.Fprintln(w, "Usage:", c.usage)
				continue
			}
			fmt.Fprintln(w, "Error:", describeError(err))
		}
	}
}

func printHelp(w io.Writer, cmds []command, loggedIn bool) {
	if !loggedIn {
		fmt.Fprintln(w, "Not signed in: use 'login' first. Browsing products works anonymously.")
	}
	fmt.Fprintln(w, "Available commands:")
	for _, c := range cmds {
		fmt.Fprintf(w, "  %-44s %s\n", c.usage, c.help)
	}
	fmt.Fprintf(w, "  %-44s %s\n", "help", "show this list")
	fmt.Fprintf(w, "  %-44s %s\n", "exit | quit", "leave the program")
}

// describeError turns err into the line shown after "Error:".
func describeError(err error) string {
	switch {
	case errors.Is(err, services.ErrLoginRequired) && !errors.Is(err, client.ErrUnauthorized):
		return "Please log in to continue (" + err.Error() + ")."
	case errors.Is(err, services.ErrBusy),
		errors.Is(err, services.ErrNotEditing),
		errors.Is(err, services.ErrNotMounted),
		errors.Is(err, errNoDashboard),
		errors.Is(err, errUnknownVendor):
		return err.Error()
	}
	return client.UserMessage(err)
}
