package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Local writes images under baseDir and serves them from urlBase.
type Local struct {
	baseDir string
	urlBase string
}

func NewLocal(baseDir, urlBase string) *Local {
	return &Local{baseDir: baseDir, urlBase: strings.TrimRight(urlBase, "/")}
}

func (s *Local) Save(_ context.Context, img *Image) (string, error) {
	key := objectKey(img)
	absPath := filepath.Join(s.baseDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}

	dst, err := os.Create(absPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, reader(img)); err != nil {
		_ = os.Remove(absPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return s.urlBase + "/" + key, nil
}

// Delete removes the file behind url. Unknown or foreign URLs are ignored.
func (s *Local) Delete(_ context.Context, url string) error {
	key, ok := strings.CutPrefix(url, s.urlBase+"/")
	if !ok || key == "" || strings.Contains(key, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(s.baseDir, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
