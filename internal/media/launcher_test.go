package media

import (
	"os/exec"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/reel/internal/config"
)

func recordingLauncher(opener string) (*Launcher, *[][]string) {
	var calls [][]string
	l := &Launcher{opener: opener}
	l.command = func(name string, args ...string) *exec.Cmd {
		calls = append(calls, append([]string{name}, args...))
		return exec.Command("true")
	}
	return l, &calls
}

func TestNewLauncherUsesConfiguredOpener(t *testing.T) {
	cfg := config.TestConfig()
	cfg.Open.Opener = "firefox --new-tab"
	assert.Equal(t, "firefox --new-tab", NewLauncher(cfg).Opener())

	cfg.Open.Opener = "  "
	assert.Equal(t, config.DefaultOpener(), NewLauncher(cfg).Opener())
}

func TestBuildCommand(t *testing.T) {
	tests := []struct {
		name   string
		opener string
		want   []string
	}{
		{"plain", "xdg-open", []string{"xdg-open", "https://www.themoviedb.org/movie/1"}},
		{"with args", "firefox --new-tab", []string{"firefox", "--new-tab", "https://www.themoviedb.org/movie/1"}},
		{"windows start", "start", []string{"cmd", "/c", "start", "", "https://www.themoviedb.org/movie/1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, calls := recordingLauncher(tt.opener)
			l.buildCommand("https://www.themoviedb.org/movie/1")
			require.Len(t, *calls, 1)
			assert.Equal(t, tt.want, (*calls)[0])
		})
	}
}

func TestOpenRejectsNonWebURLs(t *testing.T) {
	l, calls := recordingLauncher("xdg-open")

	for _, target := range []string{"", "file:///etc/passwd", "javascript:alert(1)", "https://", "/movie/1"} {
		err := l.Open(target)
		assert.ErrorIs(t, err, ErrUnsupportedURL, "target %q", target)
	}
	assert.Empty(t, *calls)
}

func TestOpenStartsOpener(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on the true binary")
	}
	l, calls := recordingLauncher("xdg-open")

	require.NoError(t, l.Open("https://image.tmdb.org/t/p/w342/poster.jpg"))
	require.Len(t, *calls, 1)
	assert.Equal(t, "https://image.tmdb.org/t/p/w342/poster.jpg", (*calls)[0][1])
}

func TestOpenReportsMissingBinary(t *testing.T) {
	l := &Launcher{opener: "definitely-not-a-real-opener-12345", command: exec.Command}
	err := l.Open("https://www.themoviedb.org/movie/1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start")
}

func TestFindCommand(t *testing.T) {
	assert.Equal(t, "", findCommand())
	assert.Equal(t, "", findCommand("definitely-not-a-real-opener-12345"))
	if runtime.GOOS != "windows" {
		assert.Equal(t, "sh", findCommand("definitely-not-a-real-opener-12345", "sh"))
	}
}

func TestAvailable(t *testing.T) {
	missing := &Launcher{opener: "definitely-not-a-real-opener-12345 --flag", command: exec.Command}
	assert.False(t, missing.Available())

	if runtime.GOOS != "windows" {
		present := &Launcher{opener: "sh -c", command: exec.Command}
		assert.True(t, present.Available())
	}
}
