package api

import (
	"errors"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoToken is returned when no bearer token has been stored.
var ErrNoToken = errors.New("api: no token stored")

// TokenStore supplies the bearer token injected into every request.
type TokenStore interface {
	// Token returns the stored token, or ErrNoToken.
	Token() (string, error)
	// SetToken stores a new token.
	SetToken(token string) error
	// Clear removes the stored token.
	Clear() error
}

// MemoryTokenStore keeps the token in memory only. Suitable for tests and
// short-lived sessions.
type MemoryTokenStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryTokenStore creates an empty in-memory token store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

// Token returns the stored token, or ErrNoToken.
func (s *MemoryTokenStore) Token() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return "", ErrNoToken
	}
	return s.token, nil
}

// SetToken stores a new token.
func (s *MemoryTokenStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

// Clear removes the stored token.
func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

// FileTokenStore persists the token to a local file so it survives process
// restarts. Reads are served from memory after the first load.
type FileTokenStore struct {
	mu     sync.Mutex
	path   string
	token  string
	loaded bool
}

// NewFileTokenStore creates a token store backed by the given file path.
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

// Token returns the stored token, loading it from disk on first use.
func (s *FileTokenStore) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		data, err := os.ReadFile(s.path)
		if err != nil {
			if !os.IsNotExist(err) {
				return "", err
			}
		} else {
			s.token = strings.TrimSpace(string(data))
		}
		s.loaded = true
	}

	if s.token == "" {
		return "", ErrNoToken
	}
	return s.token, nil
}

// SetToken stores a new token and writes it through to disk.
func (s *FileTokenStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.path, []byte(token), 0600); err != nil {
		return err
	}
	s.token = token
	s.loaded = true
	return nil
}

// Clear removes the stored token and deletes the backing file.
func (s *FileTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.loaded = true
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// TokenExpiry extracts the expiration time from a JWT without verifying its
// signature. The client never validates tokens; the backend is the sole
// authority. Returns false when the token is not a JWT or carries no expiry.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// TokenExpired reports whether the token carries an expiry in the past.
// Tokens without a readable expiry are assumed live.
func TokenExpired(token string) bool {
	exp, ok := TokenExpiry(token)
	if !ok {
		return false
	}
	return time.Now().After(exp)
}

var (
	_ TokenStore = (*MemoryTokenStore)(nil)
	_ TokenStore = (*FileTokenStore)(nil)
)
