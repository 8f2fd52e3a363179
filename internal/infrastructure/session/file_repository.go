package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/internal/domain/repository"
)

// FileName is the name of the session file inside the storage directory
const FileName = "session.json"

type fileRepository struct {
	path   string
	sealer *Sealer
}

// NewFileRepository stores the session as JSON under dir. A non-nil sealer encrypts it.
func NewFileRepository(dir string, sealer *Sealer) repository.SessionRepository {
	return &fileRepository{path: filepath.Join(dir, FileName), sealer: sealer}
}

func (r *fileRepository) Load() (*entity.Session, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}
	if r.sealer != nil {
		if data, err = r.sealer.Open(data); err != nil {
			return nil, err
		}
	}

	var s entity.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session file: %w", err)
	}
	if s.Token == "" {
		return nil, nil
	}
	return &s, nil
}

func (r *fileRepository) Save(s *entity.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if r.sealer != nil {
		if data, err = r.sealer.Seal(data); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o700); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(r.path), FileName+".*")
	if err != nil {
		return fmt.Errorf("create session file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write session file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close session file: %w", err)
	}
	return os.Rename(tmp.Name(), r.path)
}

func (r *fileRepository) Clear() error {
	if err := os.Remove(r.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}
