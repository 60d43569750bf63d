package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJWTer() *JWTer {
	return &JWTer{Secret: []byte("test-secret"), Issuer: "test", TTL: time.Hour}
}

func TestIssueParse(t *testing.T) {
	j := newJWTer()
	tok, err := j.Issue("user-1")
	require.NoError(t, err)

	c, err := j.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", c.UID)
	assert.Equal(t, "user-1", c.Subject)
}

func TestParseRejects(t *testing.T) {
	j := newJWTer()
	tok, err := j.Issue("user-1")
	require.NoError(t, err)

	t.Run("tampered signature", func(t *testing.T) {
		other := &JWTer{Secret: []byte("other"), Issuer: "test", TTL: time.Hour}
		_, err := other.Parse(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := &JWTer{Secret: j.Secret, Issuer: "elsewhere", TTL: time.Hour}
		_, err := other.Parse(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		later := &JWTer{Secret: j.Secret, Issuer: "test", TTL: time.Hour,
			Now: func() time.Time { return time.Now().Add(2 * time.Hour) }}
		_, err := later.Parse(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := j.Parse("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("alg none", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UID: "user-1",
			RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1", Issuer: "test",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}})
		s, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = j.Parse(s)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestIssueWithoutSecret(t *testing.T) {
	_, err := (&JWTer{TTL: time.Hour}).Issue("u")
	assert.Error(t, err)
}
