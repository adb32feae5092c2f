// auggie-mcp-secrets writes the encrypted secrets file read by auggie-mcp.
//
// Usage:
//
//	auggie-mcp-secrets <file> < secrets.env
//
// Stdin holds KEY=VALUE lines; blank lines and # comments are skipped and
// values may be shell-quoted. Entries are merged into an existing file.
// The password comes from AUGGIE_MCP_SECRETS_PASSWORD, or is prompted for
// when stdin is a terminal.
package main

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"syscall"

	"github.com/kballard/go-shellquote"
	"golang.org/x/term"

	"auggie-mcp/pkg/config"
)

// passwordFunc returns the password to encrypt with.
type passwordFunc func() (string, error)

func main() {
	password := func() (string, error) {
		if p := os.Getenv(config.SecretsPasswordEnvVar); p != "" {
			return p, nil
		}
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return "", config.ErrNoSecretsPassword
		}
		return promptPassword(os.Stderr)
	}

	if err := run(os.Args[1:], os.Stdin, os.Stderr, password); err != nil {
		fmt.Fprintf(os.Stderr, "auggie-mcp-secrets: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, in io.Reader, out io.Writer, password passwordFunc) error {
	if len(args) != 1 {
		return errors.New("usage: auggie-mcp-secrets <file>")
	}
	path := args[0]

	pw, err := password()
	if err != nil {
		return err
	}
	if pw == "" {
		return config.ErrNoSecretsPassword
	}

	secrets, err := config.DecryptSecretsFile(path, pw)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		secrets = map[string]string{}
	case err != nil:
		return err
	}

	entries, err := parseEntries(in)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return errors.New("no KEY=VALUE entries on stdin")
	}
	for k, v := range entries {
		secrets[k] = v
	}

	if err := config.EncryptSecretsFile(path, pw, secrets); err != nil {
		return fmt.Errorf("failed to encrypt secrets: %w", err)
	}
	fmt.Fprintf(out, "Wrote %d secrets to %s\n", len(secrets), path)
	return nil
}

// parseEntries reads KEY=VALUE lines. Later keys win.
func parseEntries(r io.Reader) (map[string]string, error) {
	entries := map[string]string{}
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		key, raw, ok := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" || strings.ContainsAny(key, " \t") {
			return nil, fmt.Errorf("line %d: expected KEY=VALUE", lineNo)
		}

		value := strings.TrimSpace(raw)
		if strings.HasPrefix(value, `"`) || strings.HasPrefix(value, "'") {
			words, err := shellquote.Split(value)
			if err != nil || len(words) != 1 {
				return nil, fmt.Errorf("line %d: bad quoting in value for %s", lineNo, key)
			}
			value = words[0]
		}
		entries[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read secrets: %w", err)
	}
	return entries, nil
}

// promptPassword reads the password twice from the terminal.
func promptPassword(out io.Writer) (string, error) {
	fmt.Fprint(out, "Secrets password: ")
	first, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	fmt.Fprint(out, "Confirm password: ")
	second, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(out)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	if !bytes.Equal(first, second) {
		return "", errors.New("passwords do not match")
	}
	return string(first), nil
}
