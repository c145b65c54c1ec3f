package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/capital/finance/pkg/constant"
	"github.com/capital/finance/pkg/entities"
	"github.com/golang-jwt/jwt"
)

var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("token malformed")
	ErrUnknownUser    = errors.New("token user unknown or inactive")
)

// Claims is the payload of a session token.
type Claims struct {
	UserID uint   `json:"id"`
	Email  string `json:"email"`
	jwt.StandardClaims
}

// TokenIssuer mints and checks HS256 session tokens. Tokens are not stored;
// they stop working only when they expire.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type IssuerOption func(*TokenIssuer)

func WithIssuerClock(now func() time.Time) IssuerOption {
	return func(i *TokenIssuer) { i.now = now }
}

func NewTokenIssuer(secret string, opts ...IssuerOption) *TokenIssuer {
	i := &TokenIssuer{
		secret: []byte(secret),
		ttl:    constant.TokenTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Issue returns a signed token for user and the moment it expires.
func (i *TokenIssuer) Issue(user entities.User) (string, time.Time, error) {
	now := i.now()
	expiresAt := now.Add(i.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: user.ID,
		Email:  user.Email,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: expiresAt.Unix(),
		},
	})

	tokenString, err := token.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return tokenString, expiresAt, nil
}

// Parse verifies the signature and expiry of raw. Failures wrap ErrTokenMalformed
// or ErrTokenExpired.
func (i *TokenIssuer) Parse(raw string) (*Claims, error) {
	// expiry is checked below against the issuer clock
	parser := jwt.Parser{
		ValidMethods:         []string{jwt.SigningMethodHS256.Alg()},
		SkipClaimsValidation: true,
	}

	claims := &Claims{}
	token, err := parser.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
	if !token.Valid || claims.UserID == 0 || claims.ExpiresAt == 0 {
		return nil, ErrTokenMalformed
	}

	if i.now().Unix() >= claims.ExpiresAt {
		return nil, ErrTokenExpired
	}
	return claims, nil
}
