package session

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Keyring is the durable storage port for the bearer credential. A single key
// holds the token as plain text; absence of the key means unauthenticated.
//
// Implementations must be safe for concurrent use. Get returns
// ErrCredentialNotFound when nothing is persisted.
type Keyring interface {
	Get() (string, error)
	Set(credential string) error
	Delete() error
}

// MemoryKeyring is an in-process Keyring with no durability. Useful for tests
// and for callers that opt out of persistence.
type MemoryKeyring struct {
	mu         sync.RWMutex
	credential string
	set        bool
}

// NewMemoryKeyring creates an empty in-memory keyring.
func NewMemoryKeyring() *MemoryKeyring {
	return &MemoryKeyring{}
}

func (k *MemoryKeyring) Get() (string, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if !k.set {
		return "", ErrCredentialNotFound
	}
	return k.credential, nil
}

func (k *MemoryKeyring) Set(credential string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.credential = credential
	k.set = true
	return nil
}

func (k *MemoryKeyring) Delete() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.credential = ""
	k.set = false
	return nil
}

// FileKeyring persists the credential to a single file with 0600 permissions.
// Writes go through a temp file and rename so readers never observe a torn
// credential.
type FileKeyring struct {
	mu   sync.Mutex
	path string
}

// NewFileKeyring creates a file-backed keyring at path, creating parent
// directories as needed. The file itself is created lazily on first Set.
func NewFileKeyring(path string) (*FileKeyring, error) {
	if path == "" {
		return nil, errors.New("keyring path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.Join(ErrKeyringUnavailable, err)
	}
	return &FileKeyring{path: path}, nil
}

func (k *FileKeyring) Get() (string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	data, err := os.ReadFile(k.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrCredentialNotFound
		}
		return "", errors.Join(ErrKeyringUnavailable, err)
	}

	credential := strings.TrimSpace(string(data))
	if credential == "" {
		return "", ErrCredentialNotFound
	}
	return credential, nil
}

func (k *FileKeyring) Set(credential string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	tmp := k.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(credential), 0o600); err != nil {
		return errors.Join(ErrKeyringUnavailable, err)
	}
	if err := os.Rename(tmp, k.path); err != nil {
		_ = os.Remove(tmp)
		return errors.Join(ErrKeyringUnavailable, err)
	}
	return nil
}

func (k *FileKeyring) Delete() error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if err := os.Remove(k.path); err != nil && !os.IsNotExist(err) {
		return errors.Join(ErrKeyringUnavailable, err)
	}
	return nil
}
