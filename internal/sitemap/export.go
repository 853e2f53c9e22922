package sitemap

import (
	"fmt"
	"os"
	"path/filepath"
)

// ExportAsFile saves the document under dir/filename and returns the path
// written. The file is replaced atomically so crawlers never read a
// partial document.
func ExportAsFile(xmlDoc, dir, filename string) (string, error) {
	if filename == "" {
		filename = DefaultFilename
	}
	if filepath.Base(filename) != filename {
		return "", fmt.Errorf("invalid sitemap filename %q", filename)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filename+"-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.WriteString(xmlDoc); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write sitemap: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write sitemap: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return "", fmt.Errorf("failed to set sitemap permissions: %w", err)
	}

	target := filepath.Join(dir, filename)
	if err := os.Rename(tmpName, target); err != nil {
		return "", fmt.Errorf("failed to move sitemap into place: %w", err)
	}
	return target, nil
}

// ContentDisposition is the header value that makes a browser save the
// document as filename.
func ContentDisposition(filename string) string {
	if filename == "" {
		filename = DefaultFilename
	}
	return fmt.Sprintf("attachment; filename=%q", filename)
}
