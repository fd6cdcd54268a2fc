// Package auth handles accounts and cookie sessions. Passwords are stored
// as bcrypt hashes; sessions are uuid tokens held in memory with a TTL, so a
// restart simply signs everyone out.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/rsanthanam/techdesk/internal/common"
	"github.com/rsanthanam/techdesk/internal/sqlite"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = sqlite.ErrUsernameTaken
)

type session struct {
	userID  int64
	expires time.Time
}

type Service struct {
	store *sqlite.Store
	ttl   time.Duration

	mu       sync.Mutex
	sessions map[string]session
}

func New(store *sqlite.Store, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Service{
		store:    store,
		ttl:      ttl,
		sessions: make(map[string]session),
	}
}

// Signup creates a regular account.
func (s *Service) Signup(ctx context.Context, username, password string) (*sqlite.User, error) {
	return s.createUser(ctx, username, password, false)
}

func (s *Service) createUser(ctx context.Context, username, password string, isAdmin bool) (*sqlite.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return s.store.CreateUser(ctx, username, string(hash), isAdmin)
}

// Login verifies the credentials and opens a session, returning its token.
func (s *Service) Login(ctx context.Context, username, password string) (*sqlite.User, string, error) {
	user, err := s.store.UserByUsername(ctx, username)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}
	token := uuid.NewString()
	s.mu.Lock()
	s.sessions[token] = session{userID: user.ID, expires: time.Now().Add(s.ttl)}
	s.mu.Unlock()
	return user, token, nil
}

// Logout discards the session for a token. Unknown tokens are ignored.
func (s *Service) Logout(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// UserForToken resolves a session token to its account; nil when the token
// is unknown or expired.
func (s *Service) UserForToken(ctx context.Context, token string) (*sqlite.User, error) {
	if token == "" {
		return nil, nil
	}
	s.mu.Lock()
	sess, ok := s.sessions[token]
	if ok && time.Now().After(sess.expires) {
		delete(s.sessions, token)
		ok = false
	}
	s.mu.Unlock()
	if !ok {
		return nil, nil
	}
	return s.store.UserByID(ctx, sess.userID)
}

// SeedDefaults creates the stock accounts when they are absent: a regular
// "testuser" and an "admin" operator, matching the original deployment.
func (s *Service) SeedDefaults(ctx context.Context) error {
	logger := common.Logger()
	defaults := []struct {
		username string
		password string
		isAdmin  bool
	}{
		{"testuser", "password", false},
		{"admin", "admin123", true},
	}
	for _, d := range defaults {
		existing, err := s.store.UserByUsername(ctx, d.username)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		if _, err := s.createUser(ctx, d.username, d.password, d.isAdmin); err != nil {
			return err
		}
		logger.Info("auth: seeded default user", "username", d.username, "admin", d.isAdmin)
	}
	return nil
}
