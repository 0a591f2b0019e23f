package verify

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pithecene-io/assay/cache"
	"github.com/pithecene-io/assay/log"
	"github.com/pithecene-io/assay/types"
)

// FileChecker verifies filesystem references: schemeless paths and file://
// URLs. Anything else is rejected immediately.
//
// Extraction resolves document-relative targets to absolute paths before
// they reach the checker; site-absolute targets like /docs/a.md keep their
// leading slash and are anchored under Root here. An existing path is
// recorded in the cache under the link's canonical href so later runs skip
// the stat.
type FileChecker struct {
	root   string
	logger *log.Logger
}

// NewFileChecker creates a FileChecker. root anchors site-absolute targets;
// empty means they resolve against the filesystem root as written. A nil
// logger silences the checker.
func NewFileChecker(root string, logger *log.Logger) *FileChecker {
	if logger == nil {
		logger = log.Nop()
	}
	return &FileChecker{root: root, logger: logger}
}

// Verify implements Verifier.
func (f *FileChecker) Verify(ctx context.Context, link types.Link, c cache.Cache) Result {
	var target string
	switch link.Scheme() {
	case "":
		target = link.Href
	case "file":
		target = strings.TrimPrefix(link.Href, "file://")
	default:
		return ResultUnsupported
	}

	if target == "" {
		return ResultUnsupported
	}
	if f.root != "" && strings.HasPrefix(target, "/") {
		target = filepath.Join(f.root, target)
	}

	if _, err := os.Stat(target); err != nil {
		f.logger.Warn("path not found", map[string]any{
			"href":   link.Href,
			"target": target,
		})
		return ResultUnsupported
	}

	cache.Record(ctx, c, link.Href)
	return ResultValid
}

// Verify FileChecker implements Verifier.
var _ Verifier = (*FileChecker)(nil)
