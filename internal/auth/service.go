// Package auth is the mock login: one configured credential pair and a
// persisted logged-in flag. A bearer token is only honoured while the flag is
// set, so logging out invalidates every token issued before.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bookbrowser/internal/store"

	"go.uber.org/zap"
)

const (
	DefaultUsername = "admin"
	DefaultPassword = "admin123"
	DefaultTokenTTL = 24 * time.Hour

	loggedInValue = "true"
)

// Messages shown on the login form.
const (
	MsgMissingCredentials = "Please enter both username and password"
	MsgInvalidCredentials = "Incorrect username or password"
)

var (
	ErrMissingCredentials = errors.New("auth: missing credentials")
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
)

type Config struct {
	Secret       string
	Username     string
	PasswordHash string // bcrypt; empty means DefaultPassword
	TokenTTL     time.Duration
}

type Service struct {
	kv           store.Store
	secret       string
	username     string
	passwordHash string
	ttl          time.Duration
	logger       *zap.Logger
}

func NewService(kv store.Store, cfg Config, logger *zap.Logger) (*Service, error) {
	if cfg.Secret == "" {
		return nil, errors.New("auth: secret is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Username == "" {
		cfg.Username = DefaultUsername
	}
	if cfg.PasswordHash == "" {
		hash, err := HashPassword(DefaultPassword)
		if err != nil {
			return nil, fmt.Errorf("auth: hash default password: %w", err)
		}
		cfg.PasswordHash = hash
	}
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = DefaultTokenTTL
	}
	return &Service{
		kv:           kv,
		secret:       cfg.Secret,
		username:     cfg.Username,
		passwordHash: cfg.PasswordHash,
		ttl:          cfg.TokenTTL,
		logger:       logger,
	}, nil
}

// Login checks the credentials, sets the logged-in flag and returns a signed
// token with its lifetime in seconds.
func (s *Service) Login(ctx context.Context, username, password string) (string, int, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return "", 0, ErrMissingCredentials
	}
	if username != s.username || !VerifyPassword(s.passwordHash, password) {
		return "", 0, ErrInvalidCredentials
	}

	token, jti, err := GenerateToken(s.secret, username, s.ttl)
	if err != nil {
		return "", 0, err
	}
	if err := s.kv.Set(ctx, store.KeyLoggedIn, []byte(loggedInValue)); err != nil {
		return "", 0, fmt.Errorf("persist login: %w", err)
	}
	s.logger.Info("user logged in", zap.String("user", username), zap.String("jti", jti))

	return token, int(s.ttl.Seconds()), nil
}

func (s *Service) Logout(ctx context.Context) error {
	if err := s.kv.Delete(ctx, store.KeyLoggedIn); err != nil {
		return fmt.Errorf("clear login: %w", err)
	}
	s.logger.Info("user logged out")
	return nil
}

// IsLoggedIn reads the persisted flag; storage failures read as logged out.
func (s *Service) IsLoggedIn(ctx context.Context) bool {
	v, err := s.kv.Get(ctx, store.KeyLoggedIn)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("error reading login state", zap.Error(err))
		}
		return false
	}
	return string(v) == loggedInValue
}

// Authenticate validates a bearer token against the current login.
func (s *Service) Authenticate(ctx context.Context, token string) (*Claims, error) {
	claims, err := ParseToken(s.secret, token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	if !s.IsLoggedIn(ctx) {
		return nil, ErrUnauthorized
	}
	return claims, nil
}
