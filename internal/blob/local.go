package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// URLPrefix is the public path uploaded files are served under.
const URLPrefix = "/uploads/"

var ErrUnsupportedType = errors.New("unsupported file type")

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// LocalStore keeps uploaded photos on the local filesystem.
type LocalStore struct {
	Dir    string
	Logger zerolog.Logger
	Now    func() time.Time
}

func NewLocalStore(dir string, logger zerolog.Logger) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{Dir: dir, Logger: logger}, nil
}

// Put writes r under a generated name and returns its public URL.
func (s *LocalStore) Put(ctx context.Context, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExt[ext] {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	name := fmt.Sprintf("%d-%s%s", now.UnixMilli(), uuid.NewString()[:8], ext)

	f, err := os.OpenFile(filepath.Join(s.Dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close upload: %w", err)
	}
	return URLPrefix + name, nil
}

// Delete removes a previously stored file. Failures and foreign URLs are
// logged and ignored.
func (s *LocalStore) Delete(_ context.Context, url string) {
	if !strings.HasPrefix(url, URLPrefix) {
		return
	}
	name := filepath.Base(strings.TrimPrefix(url, URLPrefix))
	if name == "." || name == "/" {
		return
	}
	if err := os.Remove(filepath.Join(s.Dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.Logger.Warn().Err(err).Str("url", url).Msg("failed to delete upload")
	}
}
