package rentbook

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// OpenSession loads the session snapshot at path and applies cfg to it. If
// there is no snapshot yet, a new session is created from cfg.
func OpenSession(path string, cfg Config) (*Session, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewSession(cfg), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open session file %q: %w", path, err)
	}
	defer f.Close()

	s, err := DecodeSession(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode session file %q: %w", path, err)
	}
	if err := s.Reconfigure(cfg); err != nil {
		return nil, fmt.Errorf("session file %q: %w", path, err)
	}
	return s, nil
}

// SaveSession writes the session snapshot to path. The file is replaced
// atomically so that a failed write never corrupts the previous snapshot.
func SaveSession(path string, s *Session) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("could not create directory for session %q: %w", path, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("error opening session file %q for writing: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := EncodeSession(tmp, s); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error writing session file %q: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("error replacing session file %q: %w", path, err)
	}
	return nil
}
