package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/capital/finance/pkg/constant"
	"github.com/capital/finance/pkg/entities"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestIssueAndParse(t *testing.T) {
	now := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	issuer := NewTokenIssuer("s3cret", WithIssuerClock(fixedClock(now)))
	user := entities.User{Model: gorm.Model{ID: 7}, Email: "ana@example.com"}

	raw, expiresAt, err := issuer.Issue(user)
	require.NoError(t, err)
	assert.Equal(t, now.Add(constant.TokenTTL), expiresAt)

	claims, err := issuer.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, expiresAt.Unix(), claims.ExpiresAt)
}

func TestParseExpired(t *testing.T) {
	issuedAt := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	raw, _, err := NewTokenIssuer("s3cret", WithIssuerClock(fixedClock(issuedAt))).Issue(entities.User{Model: gorm.Model{ID: 1}})
	require.NoError(t, err)

	justBefore := NewTokenIssuer("s3cret", WithIssuerClock(fixedClock(issuedAt.Add(constant.TokenTTL-time.Second))))
	_, err = justBefore.Parse(raw)
	assert.NoError(t, err)

	atExpiry := NewTokenIssuer("s3cret", WithIssuerClock(fixedClock(issuedAt.Add(constant.TokenTTL))))
	_, err = atExpiry.Parse(raw)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseMalformed(t *testing.T) {
	issuer := NewTokenIssuer("s3cret")
	good, _, err := issuer.Issue(entities.User{Model: gorm.Model{ID: 3}})
	require.NoError(t, err)

	otherKey, _, err := NewTokenIssuer("different").Issue(entities.User{Model: gorm.Model{ID: 3}})
	require.NoError(t, err)

	parts := strings.Split(good, ".")
	tamperedPayload := parts[0] + "." + parts[1] + "x." + parts[2]

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID:         3,
		StandardClaims: jwt.StandardClaims{ExpiresAt: time.Now().Add(time.Hour).Unix()},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noUser, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		StandardClaims: jwt.StandardClaims{ExpiresAt: time.Now().Add(time.Hour).Unix()},
	}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{UserID: 3}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	for name, raw := range map[string]string{
		"garbage":   "not.a.token",
		"empty":     "",
		"wrong key": otherKey,
		"tampered":  tamperedPayload,
		"alg none":  unsigned,
		"no user":   noUser,
		"no exp":    noExpiry,
	} {
		_, err := issuer.Parse(raw)
		assert.ErrorIs(t, err, ErrTokenMalformed, name)
		assert.NotErrorIs(t, err, ErrTokenExpired, name)
	}
}
