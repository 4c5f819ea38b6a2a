package auth

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mr-tron/base58"
	"github.com/wolfeidau/backoffice/internal/access"
)

// Issuer identifies tokens minted by this tool rather than the backend.
const Issuer = "backoffice-dev"

// IssueToken creates a signed JWT for the given subject and role.
// signingKeyPEM is the PEM-encoded ECDSA private key.
func IssueToken(signingKeyPEM string, subject string, role access.Role, ttl time.Duration) (string, error) {
	signingKey, err := jwt.ParseECPrivateKeyFromPEM([]byte(signingKeyPEM))
	if err != nil {
		return "", err
	}

	now := time.Now()
	return SignTokenWithKey(signingKey, subject, role, now, now.Add(ttl))
}

// SignTokenWithKey creates an ES256 token with explicit issue and expiry times.
// Used by IssueToken and by tests that need exact expiry boundaries.
func SignTokenWithKey(privateKey *ecdsa.PrivateKey, subject string, role access.Role, issuedAt, expiresAt time.Time) (string, error) {
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Role: string(role),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	return token.SignedString(privateKey)
}

// Fingerprint returns a short, stable identifier for a bearer token that is
// safe to log (Base58-encoded SHA256, first 12 characters).
func Fingerprint(token string) string {
	if token == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(token))
	fp := base58.Encode(hash[:])
	if len(fp) > 12 {
		fp = fp[:12]
	}
	return fp
}
