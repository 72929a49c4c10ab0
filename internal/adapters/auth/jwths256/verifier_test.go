package jwths256

import (
	"context"
	"testing"
	"time"

	"pet-patients-service/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func sign(t *testing.T, key string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return s
}

func TestVerify_OK(t *testing.T) {
	v := NewVerifier(secret)

	token := sign(t, secret, jwt.MapClaims{
		"id":    int64(7),
		"email": "recep@clinic.com",
		"role":  map[string]any{"id": 2, "name": "receptionist"},
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	claims, err := v.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "recep@clinic.com", claims.Email)
	assert.Equal(t, int64(2), claims.Role.ID)
	assert.Equal(t, "receptionist", claims.Role.Name)
}

func TestVerify_Expired(t *testing.T) {
	v := NewVerifier(secret)

	token := sign(t, secret, jwt.MapClaims{
		"id":  int64(7),
		"exp": time.Now().Add(-time.Minute).Unix(),
	})

	_, err := v.Verify(context.Background(), token)
	assert.ErrorIs(t, err, auth.ErrTokenExpired)
}

func TestVerify_WrongSecret(t *testing.T) {
	v := NewVerifier(secret)

	token := sign(t, "otro-secreto", jwt.MapClaims{
		"id":  int64(7),
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := v.Verify(context.Background(), token)
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
	assert.NotErrorIs(t, err, auth.ErrTokenExpired)
}

func TestVerify_Garbage(t *testing.T) {
	v := NewVerifier(secret)

	for _, token := range []string{"", "   ", "not-a-jwt", "a.b.c"} {
		_, err := v.Verify(context.Background(), token)
		assert.ErrorIs(t, err, auth.ErrTokenInvalid, "token=%q", token)
	}
}

func TestVerify_RejectsUnsignedAlg(t *testing.T) {
	v := NewVerifier(secret)

	// alg=none nunca pasa, aunque el payload sea correcto
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"id":  int64(7),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = v.Verify(context.Background(), s)
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}

func TestVerify_MissingUserID(t *testing.T) {
	v := NewVerifier(secret)

	token := sign(t, secret, jwt.MapClaims{
		"email": "recep@clinic.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	_, err := v.Verify(context.Background(), token)
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)
}
