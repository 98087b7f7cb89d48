package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"manga_tracker/utils"
)

// loginCmd stores a session cookie for the other commands
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the backend",
	Long: `Asks for the app password and keeps the session cookie in the
session file, so later runs stay logged in.

When stdin is not a terminal the password is read from its first line:
  echo "$PASSWORD" | manga_tracker login`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

func readPassword(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, prompt)
		password, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(password), nil
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	password, err := readPassword("Password: ")
	if err != nil {
		return err
	}

	ctx, cancel := requestContext()
	defer cancel()
	res := runner.Login(ctx, password)
	if !res.OK {
		return errors.New(res.Message)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Logged in.")
	return nil
}

// logoutCmd forgets the stored session cookie
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := session.Delete(utils.SessionKeyCookies); err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
		return nil
	},
}
