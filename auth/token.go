package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var (
	ErrMissingToken    = errors.New("a valid token is missing")
	ErrInvalidToken    = errors.New("token is invalid")
	ErrUnknownIdentity = errors.New("token user does not exist")
)

// Claims carries the acting user's id under the "id" claim.
type Claims struct {
	UserID uint `json:"id"`
	jwt.RegisteredClaims
}

// Tokens signs and verifies HS256 access tokens with a fixed secret.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	issuer string
	parser *jwt.Parser
}

func NewTokens(secret []byte, ttl time.Duration, issuer string) *Tokens {
	return &Tokens{
		secret: secret,
		ttl:    ttl,
		issuer: issuer,
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}
}

func (t *Tokens) Issue(uid uint) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: uid,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    t.issuer,
			Subject:   strconv.FormatUint(uint64(uid), 10),
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(t.secret)
}

// Verify returns the user id asserted by s. Every failure, whether a bad
// signature, an expired or malformed token or a missing id, is ErrInvalidToken.
func (t *Tokens) Verify(s string) (uint, error) {
	if s == "" {
		return 0, ErrMissingToken
	}
	var c Claims
	token, err := t.parser.ParseWithClaims(s, &c, func(*jwt.Token) (any, error) {
		return t.secret, nil
	})
	if err != nil || !token.Valid || c.UserID == 0 {
		return 0, ErrInvalidToken
	}
	return c.UserID, nil
}
