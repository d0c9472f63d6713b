package media

import (
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"strings"

	"github.com/pders01/reel/internal/config"
	"github.com/pders01/reel/internal/debuglog"
)

var ErrUnsupportedURL = errors.New("media: only http and https URLs can be opened")

// Launcher hands URLs to the platform opener (xdg-open, open, start).
type Launcher struct {
	opener  string
	command func(name string, args ...string) *exec.Cmd
}

func NewLauncher(cfg *config.Config) *Launcher {
	opener := strings.TrimSpace(cfg.Open.Opener)
	if opener == "" {
		opener = config.DefaultOpener()
	}
	return &Launcher{opener: opener, command: exec.Command}
}

// Opener returns the configured opener command.
func (l *Launcher) Opener() string { return l.opener }

// Open starts the opener detached and returns once it has been spawned.
func (l *Launcher) Open(target string) error {
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrUnsupportedURL, target)
	}

	cmd := l.buildCommand(target)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", l.opener, err)
	}
	debuglog.Debugf("opened %s with %s", target, l.opener)

	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

func (l *Launcher) buildCommand(target string) *exec.Cmd {
	fields := strings.Fields(l.opener)
	if fields[0] == "start" {
		// start is a cmd.exe builtin; the empty string is the window title.
		return l.command("cmd", "/c", "start", "", target)
	}
	args := append(fields[1:], target)
	return l.command(fields[0], args...)
}

func findCommand(commands ...string) string {
	for _, cmd := range commands {
		if _, err := exec.LookPath(cmd); err == nil {
			return cmd
		}
	}
	return ""
}

// Available reports whether the opener binary can be found on PATH.
func (l *Launcher) Available() bool {
	fields := strings.Fields(l.opener)
	if len(fields) == 0 {
		return false
	}
	name := fields[0]
	if name == "start" {
		name = "cmd"
	}
	return findCommand(name) != ""
}
