package pipeline

import (
	"os"
	"path/filepath"
)

// writeFile writes content to path, creating any missing parent
// directories under gen/'s package-directory layout (§6).
func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
