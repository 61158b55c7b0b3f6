package service

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"github.com/messagely/messagely/internal/common/clock"
	commonerrors "github.com/messagely/messagely/internal/common/errors"
)

// Claims is the identity a verified token proves.
type Claims struct {
	Username string
}

// TokenService issues and verifies stateless HS256 identity tokens. The
// signing secret is injected at construction; there is no ambient global.
//
// Tokens carry no expiry and cannot be revoked: a token stays valid until
// the secret changes. That is a deliberate trade-off of this design, not an
// oversight.
type TokenService struct {
	secret []byte
	clock  clock.Clock
}

func NewTokenService(secret string, clk clock.Clock) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		clock:  clk,
	}
}

func (ts *TokenService) Issue(username string) (string, error) {
	claims := jwt.MapClaims{
		"user": username,
		"iat":  ts.clock.Now().Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := t.SignedString(ts.secret)
	if err != nil {
		return "", err
	}

	incrementTokensIssued()
	return tokenString, nil
}

func (ts *TokenService) Verify(tokenString string) (Claims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return ts.secret, nil
	})
	if err != nil || !parsed.Valid {
		incrementTokenVerificationsFailed()
		if err == nil {
			err = errors.New("token is not valid")
		}
		return Claims{}, commonerrors.ErrInvalidToken.WithCause(err)
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		incrementTokenVerificationsFailed()
		return Claims{}, commonerrors.ErrInvalidToken.WithCause(errors.New("invalid claims type"))
	}

	username, _ := mapClaims["user"].(string)
	if username == "" {
		incrementTokenVerificationsFailed()
		return Claims{}, commonerrors.ErrInvalidToken.WithCause(errors.New("missing user claim"))
	}

	return Claims{Username: username}, nil
}
