package identity

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"reliefregistry/internal/registry"
)

// registrationClaims are the JWT claims of a registrar-signed registration
// credential. The subject claim carries the registered principal's address.
type registrationClaims struct {
	jwt.RegisteredClaims
}

// CredentialVerifier validates registrar-signed registration credentials.
// A verified credential proves its subject was registered by the registrar,
// which lets a deployment seed the roster from tokens instead of a shared
// database.
type CredentialVerifier struct {
	signingKey []byte
	issuer     string
}

func NewCredentialVerifier(signingKey, issuer string) *CredentialVerifier {
	return &CredentialVerifier{signingKey: []byte(signingKey), issuer: issuer}
}

// Issue signs a registration credential for the given principal. Used by the
// registrar side and by tests.
func (v *CredentialVerifier) Issue(addr registry.Address, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, registrationClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   string(addr),
			Issuer:    v.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return token.SignedString(v.signingKey)
}

// Verify parses and validates a credential and returns the registered
// principal's address.
func (v *CredentialVerifier) Verify(tokenString string) (registry.Address, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &registrationClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return v.signingKey, nil
	}, jwt.WithIssuer(v.issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", errors.New("registration credential has expired")
		}
		return "", errors.New("invalid registration credential")
	}
	claims, ok := parsed.Claims.(*registrationClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return "", errors.New("invalid registration credential")
	}
	return registry.Address(claims.Subject), nil
}

// SeedRoster verifies each credential and registers its subject. Invalid
// credentials are skipped and reported; valid ones are never rolled back.
func SeedRoster(roster *Roster, verifier *CredentialVerifier, credentials []string) (int, error) {
	var seeded int
	var errs error
	for _, cred := range credentials {
		addr, err := verifier.Verify(cred)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		roster.Register(addr)
		seeded++
	}
	return seeded, errs
}
