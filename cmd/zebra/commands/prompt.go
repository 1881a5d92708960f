package commands

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"zebra/internal/services/vault"
)

var errNotTerminal = errors.New("stdin is not a terminal; pass the value with a flag")

// readSecret prompts for hidden input on the terminal.
func readSecret(prompt string) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, errNotTerminal
	}
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr) // newline after hidden input
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return b, nil
}

// vaultPassword returns the -p value or prompts for it.
func vaultPassword() ([]byte, error) {
	if password != "" {
		return []byte(password), nil
	}
	return readSecret("Password: ")
}

// newPassword returns flagValue or prompts twice for a new password.
func newPassword(flagValue string) ([]byte, error) {
	if flagValue != "" {
		return []byte(flagValue), nil
	}
	first, err := readSecret("New password: ")
	if err != nil {
		return nil, err
	}
	second, err := readSecret("Repeat password: ")
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(first, second) {
		return nil, errors.New("passwords do not match")
	}
	return first, nil
}

// readLine reads one line of visible input from in.
func readLine(in io.Reader, prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func warnWeak(cmd *cobra.Command, pw []byte) {
	if !vault.PasswordStrong(string(pw)) {
		fmt.Fprintln(cmd.ErrOrStderr(), color.YellowString("!")+" "+vault.ErrWeakPassword.Error())
	}
}

func ok(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓")+" "+fmt.Sprintf(format, args...))
}
