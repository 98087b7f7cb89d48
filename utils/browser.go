package utils

import (
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

var (
	ErrOpenerUnavailable = errors.New("no browser opener available")
	ErrInvalidLink       = errors.New("only http and https links can be opened")
)

// OpenURL hands an external link to the system browser.
func OpenURL(link string) error {
	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return ErrInvalidLink
	}

	switch runtime.GOOS {
	case "darwin":
		return startOpener([][]string{{"open", link}})
	case "windows":
		return startOpener([][]string{{"rundll32", "url.dll,FileProtocolHandler", link}})
	default:
		return startOpener([][]string{
			{"xdg-open", link},
			{"gio", "open", link},
			{"sensible-browser", link},
		})
	}
}

func startOpener(candidates [][]string) error {
	for _, args := range candidates {
		cmd := exec.Command(args[0], args[1:]...)
		if err := cmd.Start(); err != nil {
			if errors.Is(err, exec.ErrNotFound) {
				continue
			}
			return fmt.Errorf("%s: %w", args[0], err)
		}
		// Reap the child without blocking the UI.
		go func() { _ = cmd.Wait() }()
		return nil
	}
	return ErrOpenerUnavailable
}
