package echoapi

import (
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4/middleware"

	"github.com/kundihq/kundi/core"
)

var errTokenSigningFailed = errors.New("failed to sign token")

// Claims represents the authorization claims transmitted via a JWT.
// The operator authenticates with their upstream credential pair; the token
// only carries the non-secret half plus the sandbox marker for the UI.
type Claims struct {
	jwt.StandardClaims
	Sandbox bool `json:"sandbox,omitempty"`
}

// newJWTConfig builds the JWT auth middleware config.
func newJWTConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    "operatorToken",
		Claims:        new(Claims),
	}
}

func getOperatorClaims(conf *core.Config, appID string) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   appID,
			Audience:  "Stewardship",
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Sandbox: conf.Chms.Sandbox,
	}
}

// GenerateToken generates a signed JWT token string representing the operator Claims.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	cfg := newJWTConfig(conf)
	method := jwt.GetSigningMethod(cfg.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(cfg.SigningKey)
	if err != nil {
		return "", errTokenSigningFailed
	}
	return ss, nil
}
