package auth

import (
	"errors"
	"strings"
	"sync"
	"time"
)

var (
	ErrSignedOut    = errors.New("not signed in")
	ErrTokenExpired = errors.New("access token expired")
)

// Session carries the access credential used by remote calls. The token
// itself is obtained by an external consent flow and handed to SignIn.
type Session struct {
	mu     sync.RWMutex
	token  string
	expiry time.Time
	nowFn  func() time.Time
}

func NewSession() *Session {
	return &Session{nowFn: time.Now}
}

// SignIn stores token. A ttl of zero means the token does not expire locally.
func (s *Session) SignIn(token string, ttl time.Duration) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("empty access token")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.expiry = time.Time{}
	if ttl > 0 {
		s.expiry = s.nowFn().Add(ttl)
	}
	return nil
}

func (s *Session) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.expiry = time.Time{}
}

func (s *Session) AccessToken() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return "", ErrSignedOut
	}
	if !s.expiry.IsZero() && !s.nowFn().Before(s.expiry) {
		return "", ErrTokenExpired
	}
	return s.token, nil
}

func (s *Session) Active() bool {
	_, err := s.AccessToken()
	return err == nil
}
