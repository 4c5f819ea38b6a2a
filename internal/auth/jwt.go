package auth

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"github.com/wolfeidau/backoffice/internal/access"
)

// ErrDecode matches every *DecodeError.
var ErrDecode = errors.New("token decode failed")

// DecodeError is returned when a bearer token cannot be turned into usable claims.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrDecode, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrDecode, e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrDecode) true for any DecodeError.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// Claims is the payload issued by the authentication backend.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// AccessRole returns the typed role. Decode guarantees it is valid.
func (c *Claims) AccessRole() access.Role {
	return access.Role(c.Role)
}

// Expired reports whether the token is no longer valid at now.
// Comparison is done in whole seconds, the unit of the exp claim: a token
// whose exp equals the current second is expired.
func (c *Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return true
	}
	return now.Unix() >= c.ExpiresAt.Unix()
}

// Decoder turns bearer tokens into claims. It holds no mutable state and is
// safe for concurrent use.
type Decoder struct {
	parser    *jwt.Parser
	publicKey *ecdsa.PublicKey
}

// NewDecoder returns a decoder that reads claims without checking the signature.
// The client never holds the backend signing secret; the backend verifies every
// request it receives.
func NewDecoder() *Decoder {
	return &Decoder{
		parser: jwt.NewParser(jwt.WithoutClaimsValidation()),
	}
}

// NewVerifyingDecoder returns a decoder that also verifies an ES256 signature
// against the PEM-encoded public key.
func NewVerifyingDecoder(publicKeyPEM string) (*Decoder, error) {
	if publicKeyPEM == "" {
		return nil, errors.New("JWT public key not provided")
	}

	publicKey, err := jwt.ParseECPublicKeyFromPEM([]byte(publicKeyPEM))
	if err != nil {
		return nil, err
	}

	return &Decoder{
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodES256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
		publicKey: publicKey,
	}, nil
}

// Decode parses token and returns its claims. Expiry is not checked here;
// callers use Claims.Expired so that an expired but well formed token can be
// told apart from a corrupted one in logs.
func (d *Decoder) Decode(token string) (*Claims, error) {
	if token == "" {
		return nil, &DecodeError{Reason: "empty token"}
	}

	claims := &Claims{}

	if d.publicKey == nil {
		if _, _, err := d.parser.ParseUnverified(token, claims); err != nil {
			return nil, &DecodeError{Reason: "malformed token", Err: err}
		}
	} else {
		parsed, err := d.parser.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
			return d.publicKey, nil
		})
		if err != nil {
			log.Debug().Err(err).Msg("JWT parse error")
			return nil, &DecodeError{Reason: "invalid token", Err: err}
		}
		if !parsed.Valid {
			return nil, &DecodeError{Reason: "token invalid"}
		}
	}

	if claims.ExpiresAt == nil {
		return nil, &DecodeError{Reason: "missing exp claim"}
	}

	if claims.Role == "" {
		return nil, &DecodeError{Reason: "missing role claim"}
	}

	if _, ok := access.ParseRole(claims.Role); !ok {
		return nil, &DecodeError{Reason: fmt.Sprintf("unknown role %q", claims.Role)}
	}

	return claims, nil
}
