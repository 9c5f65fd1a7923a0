package localstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	memoryPath = ":memory:"
	appDir     = "mindtrack"
	storeFile  = "store.db"
)

// resolvePath turns the configured store location into a file the driver can
// open. Empty means the user config directory; a leading "~" is the home
// directory. The parent directory is created. ":memory:" is returned as is.
func resolvePath(p string) (string, error) {
	p = strings.TrimSpace(p)
	switch {
	case p == memoryPath:
		return p, nil
	case p == "":
		base, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("locate config directory for local store: %w", err)
		}
		p = filepath.Join(base, appDir, storeFile)
	case p == "~" || strings.HasPrefix(p, "~"+string(filepath.Separator)) || strings.HasPrefix(p, "~/"):
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand %q: %w", p, err)
		}
		p = filepath.Join(home, p[1:])
	}

	p, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolve local store path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return "", fmt.Errorf("create local store directory: %w", err)
	}
	return p, nil
}
