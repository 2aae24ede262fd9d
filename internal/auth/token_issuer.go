package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const defaultTokenTTL = 30 * 24 * time.Hour

var (
	errMissingSigningSecret = errors.New("signing secret must be provided")
	errMissingClientID      = errors.New("client identifier must be provided")
	errInvalidSubjectClaim  = errors.New("subject claim missing or malformed")
)

// ClientTokenIssuerConfig configures the client login token issuer.
type ClientTokenIssuerConfig struct {
	SigningSecret []byte
	Issuer        string
	Audience      string
	TokenTTL      time.Duration
	Clock         func() time.Time
}

// ClientTokenIssuer signs the tokens embedded in client login URLs.
type ClientTokenIssuer struct {
	config ClientTokenIssuerConfig
	clock  func() time.Time
}

// NewClientTokenIssuer constructs a ClientTokenIssuer with sane defaults.
func NewClientTokenIssuer(cfg ClientTokenIssuerConfig) *ClientTokenIssuer {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &ClientTokenIssuer{config: cfg, clock: cfg.Clock}
}

// IssueClientToken produces a signed JWT for the given client and its expiry in seconds.
func (i *ClientTokenIssuer) IssueClientToken(_ context.Context, clientID uint) (string, int64, error) {
	if len(i.config.SigningSecret) == 0 {
		return "", 0, errMissingSigningSecret
	}
	if clientID == 0 {
		return "", 0, errMissingClientID
	}

	now := i.clock().UTC()
	expiresAt := now.Add(i.config.TokenTTL).UTC()

	registered := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(clientID), 10),
		Issuer:    i.config.Issuer,
		Audience:  []string{i.config.Audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, registered)
	signed, err := token.SignedString(i.config.SigningSecret)
	if err != nil {
		return "", 0, err
	}

	return signed, int64(expiresAt.Sub(now).Seconds()), nil
}

// ValidateToken ensures the token is well formed and returns the client id it names.
func (i *ClientTokenIssuer) ValidateToken(tokenString string) (uint, error) {
	if len(i.config.SigningSecret) == 0 {
		return 0, errMissingSigningSecret
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, fmt.Errorf("unexpected signing algorithm: %s", token.Method.Alg())
			}
			return i.config.SigningSecret, nil
		},
		jwt.WithAudience(i.config.Audience),
		jwt.WithIssuer(i.config.Issuer),
		jwt.WithTimeFunc(i.clock),
	)
	if err != nil {
		return 0, err
	}

	clientID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || clientID == 0 {
		return 0, errInvalidSubjectClaim
	}
	return uint(clientID), nil
}
