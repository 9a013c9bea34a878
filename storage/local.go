package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Local writes uploads under dir; main serves dir at urlPrefix.
type Local struct {
	dir       string
	urlPrefix string
}

func NewLocal(dir, urlPrefix string) (*Local, error) {
	if dir == "" {
		dir = "./uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{dir: dir, urlPrefix: strings.TrimRight(urlPrefix, "/")}, nil
}

func (l *Local) Dir() string { return l.dir }

func (l *Local) path(objectName string) (string, error) {
	clean := path.Clean("/" + objectName)
	if clean == "/" {
		return "", fmt.Errorf("empty object name")
	}
	return filepath.Join(l.dir, filepath.FromSlash(clean)), nil
}

func (l *Local) Put(_ context.Context, objectName, _ string, body io.Reader) (string, error) {
	dst, err := l.path(objectName)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", err
	}

	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", objectName, err)
	}
	if _, err := io.Copy(f, body); err != nil {
		_ = f.Close()
		_ = os.Remove(dst)
		return "", fmt.Errorf("write %s: %w", objectName, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(dst)
		return "", err
	}
	return l.urlPrefix + path.Clean("/"+objectName), nil
}

func (l *Local) Delete(_ context.Context, objectName string) error {
	dst, err := l.path(objectName)
	if err != nil {
		return err
	}
	if err := os.Remove(dst); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (l *Local) ObjectName(raw string) (string, bool) {
	prefix := l.urlPrefix + "/"
	clean := path.Clean(raw)
	if !strings.HasPrefix(raw, prefix) || !strings.HasPrefix(clean, prefix) {
		return "", false
	}
	name := strings.TrimPrefix(clean, prefix)
	return name, name != ""
}
