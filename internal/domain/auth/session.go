package auth

import (
	"context"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
)

// Session is the authenticated caller of one request. It is built from verified
// token claims by the HTTP layer and passed down explicitly.
type Session struct {
	UserID     string
	EmployeeID string
	Role       employee.Role
}

func (s Session) IsManager() bool {
	return s.Role == employee.RoleManager
}

const (
	TokenTypeAccess = "access"
	TokenTypeStream = "stream"
)

// SessionFromClaims reads the access-token claims issued by the identity service.
// Stream tokens are rejected.
func SessionFromClaims(claims map[string]interface{}) (Session, error) {
	return sessionFromClaims(claims, TokenTypeAccess)
}

// StreamSessionFromClaims accepts only the short-lived tokens minted for the live feed.
func StreamSessionFromClaims(claims map[string]interface{}) (Session, error) {
	return sessionFromClaims(claims, TokenTypeStream)
}

func sessionFromClaims(claims map[string]interface{}, tokenType string) (Session, error) {
	if t, _ := claims["type"].(string); t != tokenType {
		return Session{}, ErrInvalidToken
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return Session{}, ErrInvalidToken
	}

	role := employee.Role(stringClaim(claims, "role"))
	if !role.IsValid() {
		return Session{}, ErrInvalidToken
	}

	return Session{
		UserID:     userID,
		EmployeeID: stringClaim(claims, "employee_id"),
		Role:       role,
	}, nil
}

func stringClaim(claims map[string]interface{}, key string) string {
	v, _ := claims[key].(string)
	return v
}

type sessionKey struct{}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func SessionFromContext(ctx context.Context) (Session, error) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	if !ok {
		return Session{}, ErrSessionMissing
	}
	return s, nil
}
