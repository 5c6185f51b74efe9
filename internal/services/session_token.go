package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/probiller/purchase-gateway/internal/platform/logger"
)

// DefaultSessionTokenTTL bounds how long an init token can drive a session.
const DefaultSessionTokenTTL = 30 * time.Minute

// SessionTokenService issues and verifies the bearer token that ties the
// process and complete calls back to the init session.
type SessionTokenService interface {
	Issue(sessionID uuid.UUID) (string, error)
	Verify(token string) (uuid.UUID, error)
}

type sessionTokenService struct {
	log    *logger.Logger
	secret []byte
	ttl    time.Duration
}

func NewSessionTokenService(log *logger.Logger, secret string, ttl time.Duration) SessionTokenService {
	serviceLog := log.With("service", "SessionTokenService")
	return &sessionTokenService{log: serviceLog, secret: []byte(secret), ttl: ttl}
}

func (s *sessionTokenService) Issue(sessionID uuid.UUID) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sessionId": sessionID.String(),
		"iat":       now.Unix(),
		"exp":       now.Add(s.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

func (s *sessionTokenService) Verify(raw string) (uuid.UUID, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse session token: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return uuid.Nil, fmt.Errorf("invalid session token")
	}
	raw, ok = claims["sessionId"].(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("session token missing sessionId claim")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("session token sessionId claim: %w", err)
	}
	return id, nil
}
