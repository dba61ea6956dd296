package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/golang-jwt/jwt/v5"

	"github.com/gravitas-games/hexworld/internal/config"
)

// Identity is an authenticated client.
type Identity struct {
	ID   string
	Name string
}

// Claims are the JWT token claims the gateway accepts.
type Claims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// TokenValidator validates HS256 gateway tokens and consults the Redis
// token blacklist. A nil Redis client skips the blacklist check.
type TokenValidator struct {
	secret          []byte
	issuer          string
	blacklistPrefix string
	redis           *redis.Client
}

// NewTokenValidator creates a validator from the auth config. Returns nil
// when no secret is configured (authentication disabled).
func NewTokenValidator(cfg *config.Config, redisClient *redis.Client) *TokenValidator {
	if cfg.Auth.Secret == "" {
		return nil
	}
	return &TokenValidator{
		secret:          []byte(cfg.Auth.Secret),
		issuer:          cfg.Auth.Issuer,
		blacklistPrefix: cfg.Redis.BlacklistPrefix,
		redis:           redisClient,
	}
}

// ValidateToken parses and validates a token and returns the client
// identity.
func (v *TokenValidator) ValidateToken(ctx context.Context, tokenString string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if v.issuer != "" && claims.Issuer != v.issuer {
		return nil, fmt.Errorf("invalid issuer: expected %s, got %s", v.issuer, claims.Issuer)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token missing subject")
	}

	// Check Redis blacklist; don't fail authentication if Redis is down
	if v.redis != nil {
		blacklistKey := v.blacklistPrefix + claims.Subject
		isBlacklisted, err := v.redis.Exists(ctx, blacklistKey).Result()
		if err != nil {
			log.Printf("Warning: failed to check blacklist: %v", err)
		} else if isBlacklisted > 0 {
			return nil, fmt.Errorf("token is blacklisted")
		}
	}

	name := claims.Name
	if name == "" {
		name = claims.Subject
	}
	return &Identity{ID: claims.Subject, Name: name}, nil
}

// extractTokenFromHeader extracts the JWT token from a WebSocket upgrade
// request.
func extractTokenFromHeader(r *http.Request) string {
	// Sec-WebSocket-Protocol: "access_token, <token>"
	protocols := r.Header.Get("Sec-WebSocket-Protocol")
	if protocols != "" {
		var parts []string
		for _, p := range strings.Split(protocols, ",") {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				parts = append(parts, trimmed)
			}
		}
		if len(parts) == 2 && parts[0] == "access_token" {
			return parts[1]
		}
	}

	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return auth[len("Bearer "):]
	}

	return r.URL.Query().Get("token")
}
