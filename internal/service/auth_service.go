package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"speakscore/internal/config"
	"speakscore/internal/domain"
	"speakscore/internal/logger"
	"speakscore/internal/util"
)

var ErrInvalidJWTToken = errors.New("invalid jwt token")

// SessionClaims identifies the user and practice session a request belongs to.
type SessionClaims struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// IssuedSession is returned to the client when a practice session starts.
type IssuedSession struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthService issues and validates session tokens.
type AuthService interface {
	// StartSession issues a token for a new session. An empty userID creates a new user id.
	StartSession(userID string) (*IssuedSession, error)
	ValidateToken(tokenString string) (*SessionClaims, error)
}

type authService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthService(cfg config.AuthConfig) (AuthService, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("auth.jwt_secret is required")
	}
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &authService{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.Issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

func (s *authService) StartSession(userID string) (*IssuedSession, error) {
	if userID == "" {
		userID = util.NewULID()
	}
	sessionID := util.NewULID()
	now := s.now()
	expiresAt := now.Add(s.ttl)

	claims := SessionClaims{
		UserID:    userID,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, domain.NewInternalError("failed to sign session token", err)
	}

	return &IssuedSession{
		Token:     token,
		UserID:    userID,
		SessionID: sessionID,
		ExpiresAt: expiresAt.UTC(),
	}, nil
}

func (s *authService) ValidateToken(tokenString string) (*SessionClaims, error) {
	options := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.issuer != "" {
		options = append(options, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, options...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			logger.Get().Debug("Session token expired", zap.Error(err))
		} else {
			logger.Get().Warn("Session token validation failed", zap.Error(err))
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidJWTToken, err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.UserID == "" || claims.SessionID == "" {
		return nil, ErrInvalidJWTToken
	}
	return claims, nil
}
