// Package auth issues and reads the bearer tokens that identify account owners.
// Users are managed by an upstream identity service; this package only trusts
// the user_id claim of a token signed with the shared secret.
package auth

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/goldvault/pkg/config"
	"github.com/amirasaad/goldvault/pkg/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// UserIDClaim carries the owner's id.
const UserIDClaim = "user_id"

type Service struct {
	cfg    *config.Jwt
	logger *slog.Logger
	now    func() time.Time
}

func New(cfg *config.Jwt, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{cfg: cfg, logger: logger.With("service", "auth"), now: time.Now}
}

// GenerateToken signs an HS256 token for userID valid for the configured expiry.
func (s *Service) GenerateToken(userID uuid.UUID) (string, error) {
	log := s.logger.With("userID", userID)
	log.Debug("GenerateToken called")
	if s.cfg == nil || s.cfg.Secret == "" {
		return "", fmt.Errorf("jwt secret is not configured")
	}
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		UserIDClaim: userID.String(),
		"iat":       now.Unix(),
		"exp":       now.Add(s.cfg.Expiry).Unix(),
	})
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		log.Error("GenerateToken failed", "error", err)
		return "", err
	}
	log.Info("GenerateToken successful")
	return signed, nil
}

// GetCurrentUserID reads the user id from a token the middleware already verified.
func (s *Service) GetCurrentUserID(token *jwt.Token) (uuid.UUID, error) {
	if token == nil {
		return uuid.Nil, domain.ErrUnauthorized
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, domain.ErrUnauthorized
	}
	raw, ok := claims[UserIDClaim].(string)
	if !ok {
		s.logger.Error("GetCurrentUserID failed", "error", "missing user_id claim")
		return uuid.Nil, domain.ErrUnauthorized
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		s.logger.Error("GetCurrentUserID failed", "error", err)
		return uuid.Nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	return userID, nil
}

// ParseToken verifies a signed token. The HTTP layer uses the jwt middleware
// instead; this serves the CLI and tests.
func (s *Service) ParseToken(signed string) (*jwt.Token, error) {
	token, err := jwt.Parse(signed, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	return token, nil
}
