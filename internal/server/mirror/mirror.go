// Package mirror uploads generated submission documents to remote file
// storage. Uploads are best-effort: callers record the outcome and carry on.
package mirror

import (
	"context"
	"path"
	"strings"

	"github.com/dmitrijs2005/ideabank/internal/common"
)

// Mirror stores content under folder/name and returns the storage key.
type Mirror interface {
	Upload(ctx context.Context, folder, name string, content []byte, contentType string) (string, error)
	Name() string
}

// ObjectKey joins folder and name into a slash separated key without a
// leading slash.
func ObjectKey(folder, name string) string {
	folder = strings.Trim(strings.TrimSpace(folder), "/")
	name = strings.TrimLeft(name, "/")
	if folder == "" {
		return path.Clean(name)
	}
	return path.Join(folder, name)
}

// Disabled rejects every upload with common.ErrorMirrorDisabled.
type Disabled struct{}

func (Disabled) Upload(context.Context, string, string, []byte, string) (string, error) {
	return "", common.ErrorMirrorDisabled
}

func (Disabled) Name() string { return "disabled" }
