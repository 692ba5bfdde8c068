package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/walletkeeper/internal/common"
)

var errUsage = errors.New("usage error")

func (a *App) readCredentials() (string, []byte, error) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return "", nil, err
	}
	password, err := getPassword(a.out, "Password")
	if err != nil {
		return "", nil, err
	}
	return email, password, nil
}

// Register creates an account and shows the recovery phrase once.
func (a *App) Register(ctx context.Context) error {
	email, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	reg, err := a.client.Register(ctx, email, password)
	if err != nil {
		return err
	}
	a.client.SetToken(reg.Token)
	a.email = reg.Email

	fmt.Fprintf(a.out, "Registered %s\n", reg.Email)
	fmt.Fprintf(a.out, "Wallet address: %s\n", reg.WalletAddress)
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "Recovery phrase (write it down now, it will never be shown again):")
	fmt.Fprintf(a.out, "  %s\n", reg.RecoveryPhrase)
	fmt.Fprintln(a.out)
	fmt.Fprintf(a.out, "Session token (valid for 1h): %s\n", reg.Token)
	return nil
}

// Login authenticates and keeps the session token for later commands.
func (a *App) Login(ctx context.Context) error {
	email, password, err := a.readCredentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	sess, err := a.client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	a.client.SetToken(sess.Token)
	a.email = sess.Email

	fmt.Fprintf(a.out, "Logged in as %s\n", sess.Email)
	fmt.Fprintf(a.out, "Session token (valid for 1h): %s\n", sess.Token)
	return nil
}

// Me prints the account summary.
func (a *App) Me(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	p, err := a.client.Me(ctx)
	if err != nil {
		return err
	}
	a.email = p.Email
	fmt.Fprintf(a.out, "Account: %s\nEmail:   %s\nAddress: %s\n", p.AccountName, p.Email, p.WalletAddress)
	return nil
}

// Address prints the wallet address.
func (a *App) Address(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	addr, err := a.client.WalletAddress(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, addr)
	return nil
}

// Rename sets the account name to the joined words of args.
func (a *App) Rename(ctx context.Context, args []string) error {
	name := strings.Join(args, " ")
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: rename <name>", errUsage)
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	stored, err := a.client.UpdateAccountName(ctx, name)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Account renamed to %q\n", stored)
	return nil
}
