package services

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/ideabank/internal/common"
	"github.com/dmitrijs2005/ideabank/internal/logging"
	"github.com/dmitrijs2005/ideabank/internal/server/auth"
)

// dummyHash is compared against when the username is unknown so both
// paths cost one bcrypt evaluation.
var dummyHash = []byte("$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z4P6N2bY5j9Gx7Jz6C3vJz8a")

// AuthService authenticates administrators against bcrypt hashes from the
// configuration and issues access tokens.
type AuthService struct {
	admins   map[string]string
	secret   []byte
	validity time.Duration
	logger   logging.Logger
}

func NewAuthService(admins map[string]string, secret string, validity time.Duration, logger logging.Logger) *AuthService {
	return &AuthService{admins: admins, secret: []byte(secret), validity: validity, logger: logger.With("module", "auth")}
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	hash, ok := s.admins[username]
	if !ok {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		s.logger.Warn(ctx, "login rejected", "username", username)
		return "", common.ErrorUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		s.logger.Warn(ctx, "login rejected", "username", username)
		return "", common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(username, s.secret, s.validity)
	if err != nil {
		return "", common.ErrorInternal
	}
	s.logger.Info(ctx, "login", "username", username)
	return token, nil
}

// Verify returns the username carried by a valid access token.
func (s *AuthService) Verify(token string) (string, error) {
	return auth.GetUsernameFromToken(token, s.secret)
}

// HashPassword returns the bcrypt hash stored in the admins configuration.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
