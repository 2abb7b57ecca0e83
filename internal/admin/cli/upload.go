package cli

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/dmitrijs2005/ideabank/internal/logging"
	"github.com/dmitrijs2005/ideabank/internal/server/document"
	"github.com/dmitrijs2005/ideabank/internal/server/mirror"
)

const defaultContentType = "application/octet-stream"

// UploadResult is the outcome for one file.
type UploadResult struct {
	Name string
	Key  string
	Err  error
}

// CompilePattern turns the optional file name pattern into a regexp. An
// empty pattern or "None" matches every file.
func CompilePattern(pattern string) (*regexp.Regexp, error) {
	if pattern == "" || pattern == "None" {
		return nil, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	return re, nil
}

func contentTypeFor(name string) string {
	if strings.EqualFold(filepath.Ext(name), ".docx") {
		return document.ContentType
	}
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return defaultContentType
}

// UploadDir uploads every regular file directly inside dir whose name
// matches pattern (nil matches all) to m under folder. Files are taken in
// name order; a failed file is reported and the rest still go.
func UploadDir(ctx context.Context, m mirror.Mirror, dir, folder string, pattern *regexp.Regexp, logger logging.Logger) ([]UploadResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read dir: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var results []UploadResult
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		name := e.Name()
		if pattern != nil && !pattern.MatchString(name) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return results, err
		}

		res := UploadResult{Name: name}
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err == nil {
			res.Key, err = m.Upload(ctx, folder, name, content, contentTypeFor(name))
		}
		if err != nil {
			res.Err = err
			logger.Warn(ctx, "upload failed", "file", name, "error", err)
		} else {
			logger.Info(ctx, "uploaded", "file", name, "key", res.Key)
		}
		results = append(results, res)
	}
	return results, nil
}
