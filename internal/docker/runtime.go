// internal/docker/runtime.go
package docker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Container states as reported by Status
const (
	StateRunning  = "running"
	StateNotFound = "not_found"
	StateError    = "error"
)

// DefaultSocket is the conventional docker control socket path
const DefaultSocket = "/var/run/docker.sock"

// CLI queries the container runtime through the docker command line.
// Requires the docker client binary and access to the control socket.
type CLI struct {
	// Bin overrides the docker binary name, mainly for tests
	Bin string
}

func (c *CLI) bin() string {
	if c.Bin != "" {
		return c.Bin
	}
	return "docker"
}

// Status returns the runtime state of a named container ("running",
// "exited", ...). Unknown names map to StateNotFound rather than an
// error so callers can treat absence as a skip condition.
func (c *CLI) Status(ctx context.Context, name string) (string, error) {
	cmd := exec.CommandContext(ctx, c.bin(), "inspect", "-f", "{{.State.Status}}", name)

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			msg := string(exitErr.Stderr)
			if strings.Contains(msg, "No such object") || strings.Contains(msg, "No such container") {
				return StateNotFound, nil
			}
			return StateError, fmt.Errorf("docker inspect %s: %v: %s", name, err, strings.TrimSpace(msg))
		}
		return StateError, fmt.Errorf("docker inspect %s: %w", name, err)
	}

	return strings.TrimSpace(string(out)), nil
}

// Logs fetches the last tail lines of a container's log stream with
// timestamps enabled. Docker interleaves the container's stdout and
// stderr, so both are captured.
func (c *CLI) Logs(ctx context.Context, name string, tail int) ([]string, error) {
	cmd := exec.CommandContext(ctx, c.bin(), "logs", "--tail", fmt.Sprint(tail), "--timestamps", name)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("docker logs %s: %v", name, err)
	}

	trimmed := strings.TrimSpace(string(out))
	if trimmed == "" {
		return nil, nil
	}
	return strings.Split(trimmed, "\n"), nil
}

// SocketMode stats the control socket and returns its permission bits
func SocketMode(path string) (os.FileMode, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Mode().Perm(), nil
}
