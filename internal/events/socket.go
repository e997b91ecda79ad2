package events

import (
	"os"
	"path/filepath"
)

// DefaultSocketPath returns ~/.tablero/tablero.sock. HOME wins over the
// passwd entry so systemd units and tests can redirect it.
func DefaultSocketPath() (string, error) {
	home := os.Getenv("HOME")
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			return "", err
		}
	}
	return filepath.Join(home, ".tablero", "tablero.sock"), nil
}
