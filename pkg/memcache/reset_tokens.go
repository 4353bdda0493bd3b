package mem

import (
	"crypto/subtle"
	"sync"
	"time"
)

const (
	// DefaultMaxResetAttempts is how many wrong guesses a reset code survives.
	DefaultMaxResetAttempts = 5
	// DefaultResendInterval is the minimum gap between two codes for one email.
	DefaultResendInterval = time.Minute

	resetKeyPrefix = "reset|"
)

// ResetTokenStore keeps at most one live reset code per email.
type ResetTokenStore interface {
	// Issue replaces any earlier code for email. It returns false, storing
	// nothing, while the previous code is younger than the resend interval.
	Issue(email, code string, ttl time.Duration) bool

	// Verify consumes the code on a match. Every miss counts against the
	// live code, which is dropped once its attempts are used up.
	Verify(email, code string) bool
}

// RevocationList remembers logged-out token ids until the token would have
// expired anyway.
type RevocationList interface {
	Revoke(tokenID string, until time.Time)
	IsRevoked(tokenID string) bool
}

type entry struct {
	value     string
	issuedAt  time.Time
	expiresAt time.Time
	attempts  int
}

// TTLStore is an in-process map with per-key expiry. It backs both the
// password reset codes and the JWT revocation list.
type TTLStore struct {
	mu   sync.RWMutex
	data map[string]entry
	now  func() time.Time

	maxAttempts    int
	resendInterval time.Duration
}

func NewTTLStore() *TTLStore {
	return &TTLStore{
		data:           make(map[string]entry),
		now:            time.Now,
		maxAttempts:    DefaultMaxResetAttempts,
		resendInterval: DefaultResendInterval,
	}
}

func (s *TTLStore) Issue(email, code string, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := resetKeyPrefix + email
	now := s.now()
	if prev, ok := s.data[key]; ok && now.Before(prev.expiresAt) && now.Sub(prev.issuedAt) < s.resendInterval {
		return false
	}
	s.data[key] = entry{
		value:     code,
		issuedAt:  now,
		expiresAt: now.Add(ttl),
	}
	return true
}

func (s *TTLStore) Verify(email, code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := resetKeyPrefix + email
	e, ok := s.data[key]
	if !ok {
		return false
	}
	if s.now().After(e.expiresAt) {
		delete(s.data, key)
		return false
	}

	if subtle.ConstantTimeCompare([]byte(e.value), []byte(code)) == 1 {
		delete(s.data, key) // single use
		return true
	}

	e.attempts++
	if e.attempts >= s.maxAttempts {
		delete(s.data, key)
	} else {
		s.data[key] = e
	}
	return false
}

func (s *TTLStore) peek(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[key]
	return ok && !s.now().After(e.expiresAt)
}

func (s *TTLStore) Revoke(tokenID string, until time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[tokenID] = entry{expiresAt: until}
}

func (s *TTLStore) IsRevoked(tokenID string) bool {
	return s.peek(tokenID)
}

// Sweep drops expired entries and returns how many were removed.
func (s *TTLStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for k, e := range s.data {
		if now.After(e.expiresAt) {
			delete(s.data, k)
			removed++
		}
	}
	return removed
}

func (s *TTLStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
