package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/golang-jwt/jwt/v5"
	"github.com/smallbiznis/quill/internal/clock"
	"github.com/smallbiznis/quill/internal/config"
	"go.uber.org/zap"
)

var (
	ErrInvalidToken  = errors.New("invalid_token")
	ErrMissingSecret = errors.New("auth_jwt_secret_required")
)

const issuer = "quill"

// Claims carry the account identity inside a bearer token.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

type Token struct {
	Value     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TokenManager issues and validates HS256 bearer tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

func NewTokenManager(cfg config.Config, clk clock.Clock, log *zap.Logger) (*TokenManager, error) {
	secret := strings.TrimSpace(cfg.AuthJWTSecret)
	if secret == "" {
		if cfg.IsProduction() {
			return nil, ErrMissingSecret
		}
		buf := make([]byte, 32)
		if _, err := rand.Read(buf); err != nil {
			return nil, err
		}
		secret = hex.EncodeToString(buf)
		log.Warn("AUTH_JWT_SECRET not set, using an ephemeral secret; tokens will not survive restarts")
	}

	days := cfg.AuthTokenTTLDay
	if days <= 0 {
		days = 30
	}
	return NewTokenManagerWithSecret(secret, time.Duration(days)*24*time.Hour, clk), nil
}

func NewTokenManagerWithSecret(secret string, ttl time.Duration, clk clock.Clock) *TokenManager {
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, clock: clk}
}

func (m *TokenManager) Issue(accountID snowflake.ID, email string) (Token, error) {
	now := m.clock.Now()
	expiresAt := now.Add(m.ttl)
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   accountID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}
	return Token{Value: signed, ExpiresAt: expiresAt}, nil
}

// Parse validates value and returns the account id in its subject.
func (m *TokenManager) Parse(value string) (snowflake.ID, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(strings.TrimSpace(value), claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(m.clock.Now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	id, err := snowflake.ParseString(claims.Subject)
	if err != nil || id == 0 {
		return 0, ErrInvalidToken
	}
	return id, nil
}
