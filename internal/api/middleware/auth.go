package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Context keys for storing user information
type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	JWTClaimsKey contextKey = "jwt_claims"
)

// TokenIssuer is the iss claim of tokens minted by SignToken
const TokenIssuer = "handbook"

// AuthMiddleware authenticates HS256 bearer tokens whose sub claim is the
// user id. Sessions are owned by the account service; this side only
// verifies.
type AuthMiddleware struct {
	secret     []byte
	skipVerify bool
}

// NewAuthMiddleware creates a new auth middleware
// skipVerify: if true, only parses the token without checking the signature (local dev)
func NewAuthMiddleware(secret string, skipVerify bool) *AuthMiddleware {
	return &AuthMiddleware{
		secret:     []byte(secret),
		skipVerify: skipVerify,
	}
}

// RequireAuth ensures the request carries a valid token.
// If not authenticated, returns 401.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeAuthError(w, "Missing or malformed Authorization header. Expected: Bearer <token>")
			return
		}

		claims, userID, err := m.authenticate(token)
		if err != nil {
			slog.Warn("auth failure",
				slog.String("ip", r.RemoteAddr),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("error", err.Error()),
			)
			writeAuthError(w, "Invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), userID, claims)))
	})
}

// OptionalAuth loads the user if a valid token is present, but doesn't
// require it. Invalid tokens are treated as anonymous.
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		claims, userID, err := m.authenticate(token)
		if err != nil {
			slog.Debug("optional auth failed", slog.String("error", err.Error()))
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), userID, claims)))
	})
}

// authenticate parses (and unless skipVerify, verifies) a token and
// extracts the user id from its subject
func (m *AuthMiddleware) authenticate(token string) (*jwt.RegisteredClaims, uuid.UUID, error) {
	claims := &jwt.RegisteredClaims{}

	if m.skipVerify {
		if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
			return nil, uuid.Nil, fmt.Errorf("parse token: %w", err)
		}
	} else {
		_, err := jwt.ParseWithClaims(token, claims,
			func(*jwt.Token) (interface{}, error) { return m.secret, nil },
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
		)
		if err != nil {
			return nil, uuid.Nil, fmt.Errorf("verify token: %w", err)
		}
	}

	if claims.Subject == "" {
		return nil, uuid.Nil, errors.New("missing subject claim")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil || userID == uuid.Nil {
		return nil, uuid.Nil, fmt.Errorf("invalid subject claim %q", claims.Subject)
	}

	return claims, userID, nil
}

// SignToken mints an HS256 token for userID, valid for ttl
func SignToken(secret string, userID uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		Issuer:    TokenIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	return token, token != ""
}

func withUser(ctx context.Context, userID uuid.UUID, claims *jwt.RegisteredClaims) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	return context.WithValue(ctx, JWTClaimsKey, claims)
}

// GetUserID extracts the user's id from the request context.
// Returns uuid.Nil if not authenticated.
func GetUserID(r *http.Request) uuid.UUID {
	id, _ := r.Context().Value(UserIDKey).(uuid.UUID)
	return id
}

// GetJWTClaims extracts the JWT claims from the request context
// Returns nil if not authenticated
func GetJWTClaims(r *http.Request) *jwt.RegisteredClaims {
	claims, _ := r.Context().Value(JWTClaimsKey).(*jwt.RegisteredClaims)
	return claims
}

// SetTestUserID sets the user id in the context for testing purposes
// This function should ONLY be used in tests to mock authenticated users
func SetTestUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// writeAuthError writes a JSON error response for authentication failures
func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	response := `{"error":"AuthenticationRequired","message":"` + message + `"}`
	if _, err := w.Write([]byte(response)); err != nil {
		slog.Error("failed to write auth error response", slog.String("error", err.Error()))
	}
}
