package file

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/sportstream/internal/domain/match"
	"github.com/riskibarqy/sportstream/internal/platform/logging"
)

// PayloadRepository stores the payload as one JSON document. Writes go to a
// temp file in the same directory and are renamed into place, so a reader
// never sees a partial document. Concurrent writers are not coordinated.
type PayloadRepository struct {
	path   string
	logger *logging.Logger
}

func NewPayloadRepository(path string, logger *logging.Logger) *PayloadRepository {
	if logger == nil {
		logger = logging.Default()
	}
	return &PayloadRepository{path: path, logger: logger}
}

func (r *PayloadRepository) Path() string {
	return r.path
}

// Load reports ok=false for a missing file. A file that cannot be decoded is
// logged and treated as missing.
func (r *PayloadRepository) Load(ctx context.Context) (match.Payload, bool, error) {
	raw, err := os.ReadFile(r.path)
	if err != nil {
		if crerr.Is(err, fs.ErrNotExist) {
			return match.Payload{}, false, nil
		}
		return match.Payload{}, false, crerr.Wrapf(err, "read payload %s", r.path)
	}

	var payload match.Payload
	if err := sonic.ConfigStd.Unmarshal(raw, &payload); err != nil {
		r.logger.WarnContext(ctx, "previous payload is corrupt, ignoring it", "path", r.path, "error", err)
		return match.Payload{}, false, nil
	}
	return payload.Normalize(), true, nil
}

func (r *PayloadRepository) Save(_ context.Context, payload match.Payload) error {
	raw, err := Encode(payload)
	if err != nil {
		return err
	}
	return writeAtomic(r.path, raw)
}

// Encode renders the payload with sorted keys so equal payloads are
// byte-identical.
func Encode(payload match.Payload) ([]byte, error) {
	raw, err := sonic.ConfigStd.MarshalIndent(payload.Normalize(), "", "  ")
	if err != nil {
		return nil, crerr.Wrap(err, "encode payload")
	}
	return append(raw, '\n'), nil
}

func writeAtomic(path string, raw []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return crerr.Wrapf(err, "create directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return crerr.Wrap(err, "create temp file")
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return crerr.Wrapf(err, "write %s", tmpName)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return crerr.Wrapf(err, "sync %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		return crerr.Wrapf(err, "close %s", tmpName)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return crerr.Wrapf(err, "chmod %s", tmpName)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return crerr.Wrapf(err, "rename into %s", path)
	}
	return nil
}
