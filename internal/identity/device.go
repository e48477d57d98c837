// Package identity issues the per-client device identifier: the sole
// "ownership" credential in the system. It is spoofable by anyone who can
// edit the stored value; that is the accepted trust boundary.
package identity

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oklog/ulid/v2"
)

// Provider issues a stable device identifier, generating and persisting one
// on first use. Same client, same storage profile: same id across sessions.
type Provider struct {
	path string
}

// NewProvider creates a Provider backed by the file at path.
func NewProvider(path string) *Provider {
	return &Provider{path: path}
}

// DefaultPath returns the per-user location of the device id file.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("device id path: %w", err)
	}
	return filepath.Join(dir, "mixerboard", "device_id"), nil
}

// DeviceID returns the stored identifier, creating one if none exists.
// A fresh id is a ULID (high-entropy randomness combined with the current
// time); collisions between independently initialized clients are treated
// as negligible, not cryptographically bounded.
func (p *Provider) DeviceID() (string, error) {
	raw, err := os.ReadFile(p.path)
	if err == nil {
		id := strings.TrimSpace(string(raw))
		if id != "" {
			return id, nil
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("read device id: %w", err)
	}

	id := "dev_" + strings.ToLower(ulid.Make().String())
	if err := os.MkdirAll(filepath.Dir(p.path), 0o700); err != nil {
		return "", fmt.Errorf("create device id dir: %w", err)
	}
	if err := os.WriteFile(p.path, []byte(id+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("write device id: %w", err)
	}
	return id, nil
}
