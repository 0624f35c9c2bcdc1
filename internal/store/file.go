package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"filippo.io/age"
	"github.com/iwvelando/finance-dashboard/internal/model"
	"go.uber.org/zap"
)

// ageHeader is the prefix of age-encrypted files.
const ageHeader = "age-encryption.org"

// ErrWrongPassphrase is returned when an encrypted model file cannot be
// opened with the configured passphrase.
var ErrWrongPassphrase = errors.New("incorrect passphrase")

// FileStore keeps the document as pretty JSON in a single file. With a
// passphrase the file is age-encrypted with an scrypt recipient.
type FileStore struct {
	path       string
	passphrase string
	workFactor int
	// verified is set once the file on disk is known to be missing, plain or
	// readable with the passphrase. Save refuses to overwrite until then.
	verified bool
	logger   *zap.Logger
	mu       sync.Mutex
}

// NewFileStore returns a store for path. An empty passphrase writes plain JSON.
func NewFileStore(logger *zap.Logger, path, passphrase string) *FileStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStore{path: path, passphrase: passphrase, logger: logger}
}

// SetScryptWorkFactor overrides the scrypt cost of new encryptions (log2 N).
func (s *FileStore) SetScryptWorkFactor(logN int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workFactor = logN
}

// Path returns the file location.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the document. A missing file yields an empty document.
func (s *FileStore) Load(ctx context.Context) (*model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Info(fmt.Sprintf("no model file at %s, starting empty", s.path),
			zap.String("op", "store.FileStore.Load"),
		)
		return model.Decode(nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read model file %s: %w", s.path, err)
	}

	if isAgeEncrypted(data) {
		if data, err = s.unlock(data); err != nil {
			return nil, err
		}
	}
	s.verified = true
	return model.Decode(data)
}

// Verify checks the passphrase against the file on disk before any read or
// write. A missing or plain file passes.
func (s *FileStore) Verify(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.verify()
}

// EncryptedFile reports whether the model file at path is age-encrypted. A
// missing file is not.
func EncryptedFile(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read model file %s: %w", path, err)
	}
	return isAgeEncrypted(data), nil
}

func (s *FileStore) verify() error {
	if s.verified {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.verified = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read model file %s: %w", s.path, err)
	}
	if isAgeEncrypted(data) {
		if _, err := s.unlock(data); err != nil {
			return err
		}
	}
	s.verified = true
	return nil
}

// unlock decrypts data, mapping every failure to ErrWrongPassphrase.
func (s *FileStore) unlock(data []byte) ([]byte, error) {
	if s.passphrase == "" {
		return nil, fmt.Errorf("%w: model file %s is encrypted and no passphrase was given", ErrWrongPassphrase, s.path)
	}
	plain, err := s.decrypt(data)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decrypt model file %s: %v", ErrWrongPassphrase, s.path, err)
	}
	return plain, nil
}

// Save writes the document atomically through a temp file and rename.
func (s *FileStore) Save(ctx context.Context, doc *model.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.verify(); err != nil {
		return fmt.Errorf("refusing to overwrite model file: %w", err)
	}

	data, err := doc.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode model: %w", err)
	}
	if s.passphrase != "" {
		data, err = s.encrypt(data)
		if err != nil {
			return fmt.Errorf("failed to encrypt model: %w", err)
		}
	}
	if err := atomicWrite(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write model file %s: %w", s.path, err)
	}

	s.logger.Debug(fmt.Sprintf("saved model to %s", s.path),
		zap.String("op", "store.FileStore.Save"),
		zap.Bool("encrypted", s.passphrase != ""),
	)
	return nil
}

func (s *FileStore) encrypt(data []byte) ([]byte, error) {
	recipient, err := age.NewScryptRecipient(s.passphrase)
	if err != nil {
		return nil, err
	}
	if s.workFactor > 0 {
		recipient.SetWorkFactor(s.workFactor)
	}

	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, recipient)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *FileStore) decrypt(data []byte) ([]byte, error) {
	identity, err := age.NewScryptIdentity(s.passphrase)
	if err != nil {
		return nil, err
	}
	r, err := age.Decrypt(bytes.NewReader(data), identity)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(r)
}

// atomicWrite writes data to a temp file next to path and renames it over path.
func atomicWrite(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, path)
}

// isAgeEncrypted checks if data starts with the age header.
func isAgeEncrypted(data []byte) bool {
	return len(data) > len(ageHeader) && string(data[:len(ageHeader)]) == ageHeader
}
