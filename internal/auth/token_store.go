package auth

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TokenStore issues and validates single-use join tokens for private
// matches. Only bcrypt digests are kept in memory; the plaintext token is
// returned once at issue time and never stored.
type TokenStore struct {
	ttl time.Duration

	mu     sync.Mutex
	tokens map[string]*storedToken
}

type storedToken struct {
	hash      []byte
	matchID   string
	expiresAt time.Time
}

// NewTokenStore creates a token store with the given token lifetime.
func NewTokenStore(ttl time.Duration) *TokenStore {
	return &TokenStore{
		ttl:    ttl,
		tokens: make(map[string]*storedToken),
	}
}

// Issue creates a join token for a match. The returned token ID identifies
// the token; the secret must be presented on redemption.
func (s *TokenStore) Issue(matchID string) (tokenID, secret string, err error) {
	secret = uuid.New().String()
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", "", fmt.Errorf("failed to hash join token: %w", err)
	}

	tokenID = uuid.New().String()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[tokenID] = &storedToken{
		hash:      hash,
		matchID:   matchID,
		expiresAt: time.Now().Add(s.ttl),
	}
	return tokenID, secret, nil
}

// Redeem validates a token and consumes it, returning the match it grants
// access to. A token can be redeemed once.
func (s *TokenStore) Redeem(tokenID, secret string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.tokens[tokenID]
	if !ok {
		return "", fmt.Errorf("unknown join token")
	}
	if time.Now().After(stored.expiresAt) {
		delete(s.tokens, tokenID)
		return "", fmt.Errorf("join token expired")
	}
	if err := bcrypt.CompareHashAndPassword(stored.hash, []byte(secret)); err != nil {
		return "", fmt.Errorf("join token rejected")
	}

	delete(s.tokens, tokenID)
	return stored.matchID, nil
}

// Prune drops expired tokens. Safe to call periodically.
func (s *TokenStore) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	pruned := 0
	for id, stored := range s.tokens {
		if now.After(stored.expiresAt) {
			delete(s.tokens, id)
			pruned++
		}
	}
	return pruned
}

// Len returns the number of outstanding tokens.
func (s *TokenStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens)
}
