// Package auth issues and validates the bearer tokens protecting the API.
//
// Users come from configuration with bcrypt password hashes. Tokens have the
// form "<id>|<secret>"; only a SHA-256 digest of the secret is kept, in memory,
// so tokens do not survive a restart.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"tech-debt-manager/src/config"
	"tech-debt-manager/src/util"
)

// secretBytes yields a 40 character hex secret
const secretBytes = 20

var (
	// ErrUnauthorized indicates missing, unknown, revoked or expired credentials
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredentials indicates a failed login
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// dummyHash is compared against for unknown users so both login paths pay for bcrypt
var dummyHash = sync.OnceValue(func() []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte("tech-debt-manager"), bcrypt.DefaultCost)
	if err != nil {
		panic(fmt.Sprintf("auth: generating dummy hash: %v", err))
	}
	return hash
})

// User is an authenticated API user
type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type tokenRecord struct {
	digest    [sha256.Size]byte
	user      User
	expiresAt time.Time // zero means no expiry
}

// Service holds the configured users and the issued tokens
type Service struct {
	users map[string]config.UserConfig // keyed by lower-cased email
	ttl   time.Duration

	mu     sync.RWMutex
	tokens map[uuid.UUID]tokenRecord

	now     func() time.Time
	compare func(hash, password []byte) error
}

// NewService creates a token service for the configured users
func NewService(cfg config.AuthConfig) *Service {
	users := make(map[string]config.UserConfig, len(cfg.Users))
	for _, u := range cfg.Users {
		users[strings.ToLower(u.Email)] = u
	}
	if len(users) == 0 {
		util.Warn("No API users configured, every login will be rejected")
	}

	return &Service{
		users:   users,
		ttl:     cfg.TokenTTL,
		tokens:  make(map[uuid.UUID]tokenRecord),
		now:     time.Now,
		compare: bcrypt.CompareHashAndPassword,
	}
}

// Login checks the credentials and issues a new token
func (s *Service) Login(email, password string) (string, User, error) {
	u, ok := s.users[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		_ = s.compare(dummyHash(), []byte(password))
		return "", User{}, ErrInvalidCredentials
	}
	if err := s.compare([]byte(u.PasswordHash), []byte(password)); err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			util.Warn("Password hash for %s is unusable: %v", u.Email, err)
		}
		return "", User{}, ErrInvalidCredentials
	}

	secret := make([]byte, secretBytes)
	if _, err := rand.Read(secret); err != nil {
		return "", User{}, fmt.Errorf("failed to generate token: %w", err)
	}
	secretHex := hex.EncodeToString(secret)

	user := User{Name: u.Name, Email: u.Email}
	record := tokenRecord{
		digest: sha256.Sum256([]byte(secretHex)),
		user:   user,
	}
	if s.ttl > 0 {
		record.expiresAt = s.now().Add(s.ttl)
	}

	id := uuid.New()
	s.mu.Lock()
	s.pruneLocked()
	s.tokens[id] = record
	s.mu.Unlock()

	util.Debug("Issued token %s for %s", id, user.Email)
	return id.String() + "|" + secretHex, user, nil
}

// Validate returns the user a token was issued to
func (s *Service) Validate(token string) (User, error) {
	id, secret, ok := parseToken(token)
	if !ok {
		return User{}, ErrUnauthorized
	}

	s.mu.RLock()
	record, found := s.tokens[id]
	s.mu.RUnlock()
	if !found {
		return User{}, ErrUnauthorized
	}

	digest := sha256.Sum256([]byte(secret))
	if subtle.ConstantTimeCompare(digest[:], record.digest[:]) != 1 {
		return User{}, ErrUnauthorized
	}
	if s.expired(record) {
		s.mu.Lock()
		delete(s.tokens, id)
		s.mu.Unlock()
		return User{}, ErrUnauthorized
	}

	return record.user, nil
}

// Revoke drops a token. Unknown tokens are ignored.
func (s *Service) Revoke(token string) {
	if _, err := s.Validate(token); err != nil {
		return
	}
	id, _, _ := parseToken(token)

	s.mu.Lock()
	delete(s.tokens, id)
	s.mu.Unlock()
}

// ActiveTokens returns the number of tokens currently stored
func (s *Service) ActiveTokens() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tokens)
}

func (s *Service) expired(r tokenRecord) bool {
	return !r.expiresAt.IsZero() && !s.now().Before(r.expiresAt)
}

// pruneLocked drops expired tokens. Caller holds s.mu.
func (s *Service) pruneLocked() {
	for id, r := range s.tokens {
		if s.expired(r) {
			delete(s.tokens, id)
		}
	}
}

func parseToken(token string) (uuid.UUID, string, bool) {
	idPart, secret, ok := strings.Cut(strings.TrimSpace(token), "|")
	if !ok || len(secret) != secretBytes*2 {
		return uuid.UUID{}, "", false
	}
	id, err := uuid.Parse(idPart)
	if err != nil {
		return uuid.UUID{}, "", false
	}
	return id, secret, true
}

// HashPassword returns a bcrypt hash suitable for auth.users[].password_hash
func HashPassword(password string) (string, error) {
	return HashPasswordWithCost(password, bcrypt.DefaultCost)
}

// HashPasswordWithCost is HashPassword with an explicit bcrypt cost
func HashPasswordWithCost(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
