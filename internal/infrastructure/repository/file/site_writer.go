package file

import (
	"context"
	"path/filepath"
	"strings"

	crerr "github.com/cockroachdb/errors"
)

// SiteWriter writes rendered pages below a root directory.
type SiteWriter struct {
	root string
}

func NewSiteWriter(root string) *SiteWriter {
	return &SiteWriter{root: root}
}

// WritePage replaces rel atomically. rel must stay inside the root.
func (w *SiteWriter) WritePage(_ context.Context, rel string, data []byte) error {
	clean := filepath.Clean(filepath.FromSlash(rel))
	if clean == "." || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return crerr.Newf("page path %q escapes the site root", rel)
	}
	return writeAtomic(filepath.Join(w.root, clean), data)
}
