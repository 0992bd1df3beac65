package shared

import (
	"fmt"
	"os/exec"
	"runtime"
)

// browser launch commands per platform
var launchers = map[string][]string{
	"darwin":  {"open"},
	"linux":   {"xdg-open"},
	"windows": {"cmd", "/c", "start"},
}

// seams for tests
var (
	currentOS = func() string { return runtime.GOOS }
	startCmd  = func(cmd *exec.Cmd) error { return cmd.Start() }
)

// OpenBrowser opens url in the default system browser. macOS, Linux, and
// Windows are supported.
func OpenBrowser(url string) error {
	launcher, ok := launchers[currentOS()]
	if !ok {
		return fmt.Errorf("unsupported platform: %s", currentOS())
	}

	args := append(append([]string{}, launcher...), url)
	if err := startCmd(exec.Command(args[0], args[1:]...)); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	return nil
}
