package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/walletkeeper/internal/client/client"
)

// ErrUnknownCommand is returned by Execute for names it does not know.
var ErrUnknownCommand = errors.New("unknown command")

const helpText = `Available commands:
  register            create an account (shows the recovery phrase once)
  login               log in and keep the session token
  me                  show the account summary
  address             show the wallet address
  rename <name>       change the account name
  reveal-key          show the private key for 60 seconds
  hide-key            hide the private key now
  key-status          show whether the private key is visible
  reveal-phrase       request the recovery phrase
  help, exit`

// Execute runs one command.
func (a *App) Execute(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "help":
		fmt.Fprintln(a.out, helpText)
		return nil
	case "register":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	case "me":
		return a.Me(ctx)
	case "address":
		return a.Address(ctx)
	case "rename":
		return a.Rename(ctx, args)
	case "reveal-key":
		return a.RevealKey(ctx)
	case "hide-key":
		return a.HideKey(ctx)
	case "key-status":
		return a.KeyStatus(ctx)
	case "reveal-phrase":
		return a.RevealPhrase(ctx)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
}

// describe turns a command error into a line for the user.
func describe(err error) string {
	switch {
	case errors.Is(err, client.ErrForbidden):
		return "Session expired or invalid, run login again"
	case errors.Is(err, client.ErrUnavailable):
		return "Server unavailable"
	default:
		return "Error: " + err.Error()
	}
}

// Root runs the interactive prompt until EOF or "exit".
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to walletctl (type 'help' for commands)")
	a.runREPL(ctx)
}

func (a *App) prompt() string {
	if a.email != "" {
		return fmt.Sprintf("wallet (%s)> ", a.email)
	}
	return "wallet> "
}

// runREPL reads commands from a.reader, the same reader the prompts use, so
// a command's own questions consume the lines that follow it.
func (a *App) runREPL(ctx context.Context) {
	for {
		fmt.Fprint(a.out, a.prompt())
		line, err := a.reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(a.out)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		if cmd == "exit" || cmd == "quit" {
			fmt.Fprintln(a.out, "Bye!")
			return
		}
		if err := a.Execute(ctx, cmd, parts[1:]); err != nil {
			fmt.Fprintln(a.out, describe(err))
		}
		if ctx.Err() != nil {
			return
		}
	}
}

// ExitCode maps a command error to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrUnknownCommand), errors.Is(err, errUsage):
		return 2
	default:
		return 1
	}
}

// Fail prints err the way the prompt would and returns its exit status.
func Fail(err error) int {
	if err != nil {
		fmt.Fprintln(os.Stderr, describe(err))
	}
	return ExitCode(err)
}
