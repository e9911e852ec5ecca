package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	socketName = "winplace.sock"

	// SocketEnv overrides the socket location for both the daemon and its
	// clients, e.g. when running a second daemon against a nested X server.
	SocketEnv = "WINPLACE_SOCKET"
)

// Dir returns the per-user runtime directory: $XDG_RUNTIME_DIR, then
// /run/user/<uid>, then a private directory under /tmp created on demand.
func Dir() (string, error) {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir, nil
	}

	uid := os.Getuid()
	if dir := fmt.Sprintf("/run/user/%d", uid); isDir(dir) {
		return dir, nil
	}

	dir := filepath.Join(os.TempDir(), fmt.Sprintf("winplace-runtime-%d", uid))
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return dir, nil
}

// SocketPath returns the daemon IPC socket path.
func SocketPath() (string, error) {
	if p := os.Getenv(SocketEnv); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, socketName), nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
