package tokenstore

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

var ErrDecrypt = errors.New("tokenstore: cannot decrypt credentials file")

const (
	fileMagic = "PEYT1"
	saltLen   = 16
)

// File keeps all keys in one file encrypted with XChaCha20-Poly1305.
// Layout: magic | salt | nonce | ciphertext(json map).
type File struct {
	path string
	pass []byte

	mu   sync.Mutex
	salt []byte
	key  []byte
}

var _ Store = (*File)(nil)

func NewFile(path, passphrase string) (*File, error) {
	if path == "" {
		return nil, errors.New("tokenstore: empty file path")
	}
	if passphrase == "" {
		return nil, errors.New("tokenstore: empty passphrase")
	}
	return &File{path: path, pass: []byte(passphrase)}, nil
}

func (f *File) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	m, err := f.load()
	if err != nil {
		return "", err
	}
	v, ok := m[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (f *File) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	m, err := f.load()
	if err != nil {
		return err
	}
	m[key] = value
	return f.save(m)
}

func (f *File) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	m, err := f.load()
	if err != nil {
		return err
	}
	for _, k := range keys {
		delete(m, k)
	}
	return f.save(m)
}

func (f *File) deriveKey(salt []byte) []byte {
	if f.key != nil && bytes.Equal(f.salt, salt) {
		return f.key
	}
	f.salt = append([]byte(nil), salt...)
	f.key = argon2.IDKey(f.pass, salt, 1, 64*1024, 4, chacha20poly1305.KeySize)
	return f.key
}

func (f *File) load() (map[string]string, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	hdr := len(fileMagic) + saltLen + chacha20poly1305.NonceSizeX
	if len(raw) < hdr || string(raw[:len(fileMagic)]) != fileMagic {
		return nil, ErrDecrypt
	}
	salt := raw[len(fileMagic) : len(fileMagic)+saltLen]
	nonce := raw[len(fileMagic)+saltLen : hdr]

	aead, err := chacha20poly1305.NewX(f.deriveKey(salt))
	if err != nil {
		return nil, err
	}
	plain, err := aead.Open(nil, nonce, raw[hdr:], []byte(fileMagic))
	if err != nil {
		return nil, ErrDecrypt
	}

	m := map[string]string{}
	if err := json.Unmarshal(plain, &m); err != nil {
		return nil, fmt.Errorf("decode credentials: %w", err)
	}
	return m, nil
}

func (f *File) save(m map[string]string) error {
	if f.salt == nil {
		salt := make([]byte, saltLen)
		if _, err := io.ReadFull(rand.Reader, salt); err != nil {
			return err
		}
		f.deriveKey(salt)
	}
	aead, err := chacha20poly1305.NewX(f.key)
	if err != nil {
		return err
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return err
	}
	plain, err := json.Marshal(m)
	if err != nil {
		return err
	}

	out := make([]byte, 0, len(fileMagic)+saltLen+len(nonce)+len(plain)+aead.Overhead())
	out = append(out, fileMagic...)
	out = append(out, f.salt...)
	out = append(out, nonce...)
	out = aead.Seal(out, nonce, plain, []byte(fileMagic))

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create credentials dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".credentials-*")
	if err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(out); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write credentials: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod credentials: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return os.Rename(tmp.Name(), f.path)
}
