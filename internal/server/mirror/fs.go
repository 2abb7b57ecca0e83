package mirror

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/natefinch/atomic"

	"github.com/dmitrijs2005/ideabank/internal/filex"
)

// FSMirror writes documents below a local root directory, for example a
// synced network share. Each file is replaced atomically.
type FSMirror struct {
	root string
}

func NewFSMirror(root string) (*FSMirror, error) {
	if root == "" {
		return nil, fmt.Errorf("fs mirror: root not set")
	}
	if _, err := filex.EnsureDir(root, ""); err != nil {
		return nil, fmt.Errorf("fs mirror: %w", err)
	}
	return &FSMirror{root: root}, nil
}

func (m *FSMirror) Upload(ctx context.Context, folder, name string, content []byte, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := ObjectKey(folder, name)
	dir, err := filex.EnsureDir(m.root, filepath.Dir(filepath.FromSlash(key)))
	if err != nil {
		return "", fmt.Errorf("fs mirror: %w", err)
	}
	target := filepath.Join(dir, filepath.Base(key))
	if err := atomic.WriteFile(target, bytes.NewReader(content)); err != nil {
		return "", fmt.Errorf("fs mirror write %s: %w", key, err)
	}
	return key, nil
}

func (m *FSMirror) Name() string { return "fs" }
