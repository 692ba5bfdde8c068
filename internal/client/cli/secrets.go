package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/walletkeeper/internal/common"
	"github.com/dmitrijs2005/walletkeeper/internal/server/disclosure"
)

// now is a test seam for the wall clock.
var now = time.Now

// RevealKey asks for the password and prints the private key with the time
// it stops being available. The key is not kept.
func (a *App) RevealKey(ctx context.Context) error {
	password, err := getPassword(a.out, "Password (re-authentication)")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	rev, err := a.client.RevealPrivateKey(ctx, password)
	if err != nil {
		return err
	}

	left := rev.ExpiresAt.Sub(now()).Round(time.Second)
	if left < 0 {
		left = 0
	}
	fmt.Fprintln(a.out, "Private key (never share it):")
	fmt.Fprintf(a.out, "  %s\n", rev.PrivateKey)
	fmt.Fprintf(a.out, "Reveal window closes at %s (in %s)\n", rev.ExpiresAt.Local().Format(time.TimeOnly), left)
	return nil
}

// HideKey closes the reveal window early.
func (a *App) HideKey(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.client.HidePrivateKey(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Private key hidden")
	return nil
}

// KeyStatus prints the state of the reveal window.
func (a *App) KeyStatus(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	st, err := a.client.PrivateKeyStatus(ctx)
	if err != nil {
		return err
	}
	if st.ExpiresAt.IsZero() {
		fmt.Fprintf(a.out, "Private key: %s\n", st.State)
		return nil
	}
	fmt.Fprintf(a.out, "Private key: %s until %s\n", st.State, st.ExpiresAt.Local().Format(time.TimeOnly))
	return nil
}

// RevealPhrase walks through the recovery phrase acknowledgement. The
// acknowledgement is only sent when the user picks the "cannot recover"
// answer.
func (a *App) RevealPhrase(ctx context.Context) error {
	fmt.Fprintln(a.out, "If you lose your recovery phrase, can anyone (including support) restore it for you?")
	fmt.Fprintln(a.out, "  1) Yes, it can be recovered")
	fmt.Fprintln(a.out, "  2) No, it cannot be recovered")
	answer, err := getSimpleText(a.reader, "Choose 1 or 2", a.out)
	if err != nil {
		return err
	}
	if answer != "2" {
		fmt.Fprintln(a.out, "Wrong: nobody can recover a lost phrase. Nothing was sent.")
		return common.ErrRiskNotAcknowledged
	}

	password, err := getPassword(a.out, "Password (re-authentication)")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	err = a.client.RevealRecoveryPhrase(ctx, disclosure.AckCannotRecover, password)
	if errors.Is(err, common.ErrMnemonicNotRetained) {
		fmt.Fprintln(a.out, "The recovery phrase was shown once, at registration, and is not stored anywhere.")
	}
	return err
}
