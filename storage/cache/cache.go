// Package cache is an encrypted-at-rest, TTL-bound file cache for raw people
// listings. Everything here is best effort: a missing, expired, corrupt or
// undecryptable entry reads as a miss, never as an error the roster has to
// care about.
package cache

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/kundihq/kundi/core"
	"github.com/kundihq/kundi/core/roster"
)

var nowFunc = time.Now // mockable

type (
	entry struct {
		ExpiresAt time.Time       `json:"expires_at"`
		People    []roster.Person `json:"people"`
	}

	Store struct {
		dir    string
		ttl    time.Duration
		key    [chacha20poly1305.KeySize]byte
		logger core.Logger
		mu     sync.Mutex
	}
)

var _ roster.Cache = (*Store)(nil)

func New(conf *core.Config, logger core.Logger) (*Store, error) {
	if err := os.MkdirAll(conf.Cache.Dir, 0o700); err != nil {
		return nil, errors.Wrap(err, "creating cache dir")
	}
	s := &Store{
		dir:    conf.Cache.Dir,
		ttl:    conf.Cache.TTL,
		logger: logger,
	}
	// any passphrase works; the AEAD wants exactly 32 bytes
	s.key = sha256.Sum256([]byte(conf.Cache.Key + "|" + conf.SecretKey))
	return s, nil
}

func (s *Store) GetPeople(key string) ([]roster.Person, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := ioutil.ReadFile(s.path(key))
	if err != nil {
		return nil, false
	}
	plain, err := s.open(raw)
	if err != nil {
		s.logger.Warn(fmt.Sprintf("cache: discarding unreadable entry %q: %v", key, err))
		return nil, false
	}
	var ent entry
	if err = json.Unmarshal(plain, &ent); err != nil {
		return nil, false
	}
	if nowFunc().After(ent.ExpiresAt) {
		return nil, false
	}
	return ent.People, true
}

func (s *Store) SetPeople(key string, people []roster.Person) {
	s.mu.Lock()
	defer s.mu.Unlock()

	plain, err := json.Marshal(entry{
		ExpiresAt: nowFunc().Add(s.ttl),
		People:    people,
	})
	if err != nil {
		s.logger.Warn(fmt.Sprintf("cache: encoding entry %q: %v", key, err))
		return
	}
	sealed, err := s.seal(plain)
	if err != nil {
		s.logger.Warn(fmt.Sprintf("cache: sealing entry %q: %v", key, err))
		return
	}
	if err = ioutil.WriteFile(s.path(key), sealed, 0o600); err != nil {
		s.logger.Warn(fmt.Sprintf("cache: writing entry %q: %v", key, err))
	}
}

// Purge drops every cached entry.
func (s *Store) Purge() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	matches, err := filepath.Glob(filepath.Join(s.dir, "*.bin"))
	if err != nil {
		return errors.Wrap(err, "globbing cache dir")
	}
	for _, m := range matches {
		if err = os.Remove(m); err != nil {
			return errors.Wrap(err, "removing cache entry")
		}
	}
	return nil
}

func (s *Store) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(s.dir, fmt.Sprintf("%x.bin", sum[:8]))
}

// seal produces nonce || ciphertext.
func (s *Store) seal(plain []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(s.key[:])
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err = rand.Read(nonce); err != nil {
		return nil, err
	}
	return aead.Seal(nonce, nonce, plain, nil), nil
}

func (s *Store) open(sealed []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(s.key[:])
	if err != nil {
		return nil, err
	}
	if len(sealed) < aead.NonceSize() {
		return nil, errors.New("entry too short")
	}
	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	return aead.Open(nil, nonce, ciphertext, nil)
}
