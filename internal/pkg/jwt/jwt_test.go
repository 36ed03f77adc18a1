package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/employee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken_RoundTripsToSession(t *testing.T) {
	svc := NewJWTService("test-secret", "1h")
	employeeID := "e1"

	token, expiresAt, err := svc.GenerateAccessToken("u1", &employeeID, employee.RoleEmployee)
	require.NoError(t, err)
	assert.InDelta(t, time.Now().Add(time.Hour).Unix(), expiresAt, 5)

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)

	session, err := auth.SessionFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, auth.Session{UserID: "u1", EmployeeID: "e1", Role: employee.RoleEmployee}, session)
}

func TestGenerateAccessToken_InvalidExpiration(t *testing.T) {
	svc := NewJWTService("test-secret", "soon")
	_, _, err := svc.GenerateAccessToken("u1", nil, employee.RoleManager)
	assert.Error(t, err)
}

func TestGenerateStreamToken(t *testing.T) {
	svc := NewJWTService("test-secret", "1h")

	token, expiresIn, err := svc.GenerateStreamToken("u2", employee.RoleManager)
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)

	assert.Equal(t, auth.TokenTypeStream, claims["type"])

	_, err = auth.SessionFromClaims(claims)
	assert.ErrorIs(t, err, auth.ErrInvalidToken, "stream tokens are not access tokens")

	session, err := auth.StreamSessionFromClaims(claims)
	require.NoError(t, err)
	assert.True(t, session.IsManager())
	assert.Empty(t, session.EmployeeID)
}

func TestDecode_RejectsForeignSignature(t *testing.T) {
	token, _, err := NewJWTService("one-secret", "1h").GenerateAccessToken("u1", nil, employee.RoleManager)
	require.NoError(t, err)

	_, err = NewJWTService("other-secret", "1h").JWTAuth().Decode(token)
	assert.Error(t, err)
}
