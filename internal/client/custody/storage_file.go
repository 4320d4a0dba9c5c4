package custody

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"wellspring/internal/sentinel"
	dErrors "wellspring/pkg/domain-errors"
)

// FileStorage keeps the credential in a single file readable only by the
// owning user. It is the device-local durable store behind the Custodian.
type FileStorage struct {
	path string
}

// NewFileStorage stores the credential at the given path. The parent
// directory is created on first save.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

func (s *FileStorage) Load(_ context.Context) (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", sentinel.ErrNotFound
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "reading credential file")
	}
	credential := strings.TrimSpace(string(data))
	if credential == "" {
		return "", sentinel.ErrNotFound
	}
	return credential, nil
}

func (s *FileStorage) Save(_ context.Context, credential string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "creating credential directory")
	}
	// Write-then-rename so a crash mid-write never leaves a truncated file.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(credential), 0o600); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "writing credential file")
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "committing credential file")
	}
	return nil
}

func (s *FileStorage) Delete(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "removing credential file")
	}
	return nil
}
