// Package cli implements walletctl, the command-line front end of the wallet
// service. Commands run one-shot ("walletctl me") or, with no arguments,
// inside an interactive prompt. Passwords are read without echo.
package cli
