package consoleclient

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// filePrefix is the well-known name prefix for persisted credentials. One
// opaque string lives under one file per session key.
const filePrefix = "opsdesk-session-"

// FileStore is a CredentialStore that persists the credential best-effort to
// a file under the OS temp directory, keyed by a caller-supplied session key.
// Reads are always served from an in-memory mirror, so Get never blocks.
//
// Every file operation failure is logged and swallowed: when the medium is
// unavailable the store degrades to in-memory-only and the session keeps
// working. The temp directory scoping means a credential survives re-checks
// within a process lifetime but not a host restart.
type FileStore struct {
	mu   sync.RWMutex
	cred string
	path string
	log  zerolog.Logger
}

// NewFileStore creates a FileStore for the given session key and loads any
// previously persisted credential into the mirror.
func NewFileStore(sessionKey string, log zerolog.Logger) *FileStore {
	s := &FileStore{
		path: filepath.Join(os.TempDir(), filePrefix+sanitizeKey(sessionKey)),
		log:  log,
	}
	if b, err := os.ReadFile(s.path); err == nil {
		s.cred = strings.TrimSpace(string(b))
	} else if !os.IsNotExist(err) {
		log.Warn().Err(err).Str("path", s.path).Msg("credential file unreadable, starting in-memory only")
	}
	return s
}

func (s *FileStore) Get() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred
}

func (s *FileStore) Set(cred string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = cred
	if err := os.WriteFile(s.path, []byte(cred), 0o600); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("credential not persisted, keeping in memory")
	}
}

func (s *FileStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = ""
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		s.log.Warn().Err(err).Str("path", s.path).Msg("credential file not removed")
	}
}

// sanitizeKey keeps the session key filesystem-safe.
func sanitizeKey(key string) string {
	if key == "" {
		return "default"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, key)
}
