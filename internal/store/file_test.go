package store

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/finance-dashboard/internal/model"
	"go.uber.org/zap"
)

func sampleDocument() *model.Document {
	doc := model.New(model.DefaultDefaults())
	doc.Revenue.NewCustomers.Set("OEM", "Jan 2025", 42)
	doc.Liquidity.StartingBalance = 1000
	return doc
}

func TestFileStoreMissingFile(t *testing.T) {
	s := NewFileStore(zap.NewNop(), filepath.Join(t.TempDir(), "model.json"), "")

	doc, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if doc == nil || doc.Liquidity.StartingBalance != 0 {
		t.Errorf("Load() of a missing file = %+v, expected an empty document", doc)
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	tests := []struct {
		name       string
		passphrase string
	}{
		{name: "Plain JSON"},
		{name: "Encrypted", passphrase: "correct horse battery staple"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "data", "model.json")
			s := NewFileStore(nil, path, tt.passphrase)
			s.SetScryptWorkFactor(10)

			if err := s.Save(context.Background(), sampleDocument()); err != nil {
				t.Fatalf("Save() error = %v", err)
			}

			raw, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("model file not written: %v", err)
			}
			if got := isAgeEncrypted(raw); got != (tt.passphrase != "") {
				t.Errorf("isAgeEncrypted() = %t", got)
			}
			if tt.passphrase == "" && !strings.Contains(string(raw), "\n  \"revenue\"") {
				t.Errorf("plain file should be indented JSON")
			}

			entries, _ := os.ReadDir(filepath.Dir(path))
			if len(entries) != 1 {
				t.Errorf("expected only the model file, found %d entries", len(entries))
			}

			doc, err := s.Load(context.Background())
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if doc.Revenue.NewCustomers.Get("OEM", "Jan 2025") != 42 || doc.Liquidity.StartingBalance != 1000 {
				t.Errorf("Load() did not return the saved values")
			}
		})
	}
}

func TestFileStoreEncryptedErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	writer := NewFileStore(nil, path, "secret")
	writer.SetScryptWorkFactor(10)
	if err := writer.Save(context.Background(), sampleDocument()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if _, err := NewFileStore(nil, path, "").Load(context.Background()); !errors.Is(err, ErrWrongPassphrase) {
		t.Errorf("Load() without a passphrase error = %v, expected ErrWrongPassphrase", err)
	}
	if _, err := NewFileStore(nil, path, "wrong").Load(context.Background()); !errors.Is(err, ErrWrongPassphrase) {
		t.Errorf("Load() with the wrong passphrase error = %v, expected ErrWrongPassphrase", err)
	}
}

func TestFileStoreLockedFileIsNotOverwritten(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "model.json")
	writer := NewFileStore(nil, path, "secret")
	writer.SetScryptWorkFactor(10)
	if err := writer.Save(ctx, sampleDocument()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	original, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		passphrase string
	}{
		{name: "Wrong passphrase", passphrase: "wrong"},
		{name: "No passphrase", passphrase: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewFileStore(nil, path, tt.passphrase)
			s.SetScryptWorkFactor(10)
			if err := s.Verify(ctx); !errors.Is(err, ErrWrongPassphrase) {
				t.Errorf("Verify() error = %v, expected ErrWrongPassphrase", err)
			}
			if err := s.Save(ctx, model.New(model.DefaultDefaults())); !errors.Is(err, ErrWrongPassphrase) {
				t.Errorf("Save() error = %v, expected ErrWrongPassphrase", err)
			}
			after, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(original, after) {
				t.Errorf("model file was rewritten after a failed unlock")
			}
		})
	}

	// The right passphrase still opens the untouched file.
	doc, err := NewFileStore(nil, path, "secret").Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if doc.Liquidity.StartingBalance != 1000 {
		t.Errorf("StartingBalance = %.2f, expected 1000", doc.Liquidity.StartingBalance)
	}
}

func TestFileStoreVerify(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "model.json")

	s := NewFileStore(nil, path, "secret")
	s.SetScryptWorkFactor(10)
	if err := s.Verify(ctx); err != nil {
		t.Errorf("Verify() of a missing file error = %v", err)
	}
	if encrypted, err := EncryptedFile(path); err != nil || encrypted {
		t.Errorf("EncryptedFile() of a missing file = %v, %v", encrypted, err)
	}
	if err := s.Save(ctx, sampleDocument()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if encrypted, err := EncryptedFile(path); err != nil || !encrypted {
		t.Errorf("EncryptedFile() after an encrypted save = %v, %v", encrypted, err)
	}
	if err := NewFileStore(nil, path, "secret").Verify(ctx); err != nil {
		t.Errorf("Verify() with the right passphrase error = %v", err)
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileStore(nil, path, "").Load(context.Background()); err == nil {
		t.Errorf("Load() of a corrupt file should fail")
	}
}
