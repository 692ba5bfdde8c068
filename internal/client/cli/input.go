package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readPassword reads from the terminal without echo; tests replace it.
var readPassword = term.ReadPassword

// Prompt seams; tests swap them for canned input.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

// GetSimpleText writes prompt and a "> " marker to w, then returns the next
// line from reader with surrounding space removed. A last line without a
// newline is still returned.
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	fmt.Fprintf(w, "%s\n> ", prompt)

	line, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPassword writes prompt to w and reads a line from the terminal with
// echo off. Wipe the result with common.WipeByteArray when done.
func GetPassword(w io.Writer, prompt string) ([]byte, error) {
	fmt.Fprint(w, prompt+": ")
	pw, err := readPassword(int(os.Stdin.Fd()))
	// the terminal swallowed the user's newline
	fmt.Fprintln(w)
	if err != nil {
		return nil, fmt.Errorf("read password: %w", err)
	}
	return pw, nil
}
