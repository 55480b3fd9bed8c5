// Package clipboard provides cross-platform clipboard access via shell commands.
package clipboard

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// ErrClipboardUnavailable is returned when clipboard access is not available.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// tool is one clipboard helper program with its read and write arguments.
type tool struct {
	name      string
	copyArgs  []string
	pasteName string
	pasteArgs []string
}

// tools returns the helpers to try on this platform, in preference order.
func tools() []tool {
	switch runtime.GOOS {
	case "darwin":
		return []tool{{name: "pbcopy", pasteName: "pbpaste"}}
	case "linux":
		return []tool{
			{name: "xclip", copyArgs: []string{"-selection", "clipboard"}, pasteName: "xclip", pasteArgs: []string{"-selection", "clipboard", "-o"}},
			{name: "xsel", copyArgs: []string{"--clipboard", "--input"}, pasteName: "xsel", pasteArgs: []string{"--clipboard", "--output"}},
			{name: "wl-copy", pasteName: "wl-paste", pasteArgs: []string{"--no-newline"}},
		}
	default:
		return nil
	}
}

// findTool returns the first helper whose programs are on PATH.
func findTool() (tool, error) {
	for _, t := range tools() {
		if _, err := exec.LookPath(t.name); err != nil {
			continue
		}
		if _, err := exec.LookPath(t.pasteName); err != nil {
			continue
		}
		return t, nil
	}
	return tool{}, ErrClipboardUnavailable
}

// IsAvailable checks if clipboard functionality is available on this system.
func IsAvailable() bool {
	_, err := findTool()
	return err == nil
}

func copyCommand() (*exec.Cmd, error) {
	t, err := findTool()
	if err != nil {
		return nil, err
	}
	return exec.Command(t.name, t.copyArgs...), nil
}

func pasteCommand() (*exec.Cmd, error) {
	t, err := findTool()
	if err != nil {
		return nil, err
	}
	return exec.Command(t.pasteName, t.pasteArgs...), nil
}

// Copy copies the given text to the system clipboard.
// Returns ErrClipboardUnavailable if clipboard access is not available.
func Copy(text string) error {
	cmd, err := copyCommand()
	if err != nil {
		return err
	}
	cmd.Stdin = strings.NewReader(text)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("copying to clipboard: %w", err)
	}
	return nil
}

// Paste returns the current clipboard text.
// Returns ErrClipboardUnavailable if clipboard access is not available.
func Paste() (string, error) {
	cmd, err := pasteCommand()
	if err != nil {
		return "", err
	}
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("reading clipboard: %w", err)
	}
	return string(out), nil
}
