package bootstrap

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vibecode-law/vibecode-law-sub004/internal/fsutil"
)

// EnsureConfigPresent copies an embedded file (assetPath in fsys) to dstPath
// when dstPath does not exist yet. Idempotent, never replaces a file.
// Returns true when the file was created.
func EnsureConfigPresent(dstPath string, fsys fs.FS, assetPath string) (bool, error) {
	parent := filepath.Dir(dstPath)
	if parent == "" {
		parent = "."
	}
	if st, err := os.Stat(parent); err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return false, fmt.Errorf("create parent dir %s: %w", parent, err)
			}
		} else {
			return false, fmt.Errorf("stat parent %s: %w", parent, err)
		}
	} else if !st.IsDir() {
		return false, fmt.Errorf("parent exists but is not a directory: %s", parent)
	}

	if _, err := os.Stat(dstPath); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat %s: %w", dstPath, err)
	}

	data, err := fs.ReadFile(fsys, filepath.ToSlash(assetPath))
	if err != nil {
		return false, fmt.Errorf("read embedded asset %s: %w", assetPath, err)
	}

	if err := fsutil.WriteFileAtomic(dstPath, data, 0o644); err != nil {
		return false, fmt.Errorf("write config %s: %w", dstPath, err)
	}

	return true, nil
}
