package file

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/sportstream/internal/domain/logo"
)

var logoExtensions = []string{".png", ".jpg", ".jpeg", ".svg", ".webp"}

// LogoRepository keeps badge images flat in one directory and the lookup map
// as a JSON file.
type LogoRepository struct {
	dir     string
	mapPath string
}

func NewLogoRepository(dir, mapPath string) *LogoRepository {
	return &LogoRepository{dir: dir, mapPath: mapPath}
}

// ListImages returns image file names sorted by name. A missing directory is
// empty.
func (r *LogoRepository) ListImages(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if crerr.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, crerr.Wrapf(err, "list logos %s", r.dir)
	}

	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		if isImage(entry.Name()) {
			out = append(out, entry.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

// HasImage reports whether any image named slug exists, whatever its extension.
func (r *LogoRepository) HasImage(_ context.Context, slug string) (bool, error) {
	for _, ext := range logoExtensions {
		_, err := os.Stat(filepath.Join(r.dir, slug+ext))
		if err == nil {
			return true, nil
		}
		if !crerr.Is(err, fs.ErrNotExist) {
			return false, crerr.Wrapf(err, "stat logo %s", slug)
		}
	}
	return false, nil
}

func (r *LogoRepository) SaveImage(_ context.Context, filename string, data []byte) error {
	if filename != filepath.Base(filename) || !isImage(filename) {
		return crerr.Newf("invalid logo file name %q", filename)
	}
	return writeAtomic(filepath.Join(r.dir, filename), data)
}

func (r *LogoRepository) SaveMap(_ context.Context, lookup logo.Lookup) error {
	if lookup == nil {
		lookup = logo.Lookup{}
	}
	raw, err := sonic.ConfigStd.MarshalIndent(lookup, "", "  ")
	if err != nil {
		return crerr.Wrap(err, "encode logo map")
	}
	return writeAtomic(r.mapPath, append(raw, '\n'))
}

// LoadMap returns an empty lookup when the map file does not exist.
func (r *LogoRepository) LoadMap(_ context.Context) (logo.Lookup, error) {
	raw, err := os.ReadFile(r.mapPath)
	if err != nil {
		if crerr.Is(err, fs.ErrNotExist) {
			return logo.Lookup{}, nil
		}
		return nil, crerr.Wrapf(err, "read logo map %s", r.mapPath)
	}

	lookup := logo.Lookup{}
	if err := sonic.Unmarshal(raw, &lookup); err != nil {
		return nil, crerr.Wrapf(err, "decode logo map %s", r.mapPath)
	}
	return lookup, nil
}

func isImage(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, candidate := range logoExtensions {
		if ext == candidate {
			return true
		}
	}
	return false
}
