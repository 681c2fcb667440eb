package identity

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenMinter signs short-lived RS256 custom tokens that the client app
// exchanges for a session with the identity service.
type TokenMinter struct {
	privateKey *rsa.PrivateKey
	issuer     string
	ttl        time.Duration
}

// NewTokenMinter builds a minter from an already loaded key.
func NewTokenMinter(key *rsa.PrivateKey, issuer string, ttl time.Duration) *TokenMinter {
	if ttl == 0 {
		ttl = time.Hour
	}
	return &TokenMinter{privateKey: key, issuer: issuer, ttl: ttl}
}

// NewTokenMinterFromFile loads a PEM encoded RSA private key from disk.
func NewTokenMinterFromFile(path, issuer string, ttl time.Duration) (*TokenMinter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read signing key: %w", err)
	}
	key, err := parsePrivateKey(data)
	if err != nil {
		return nil, err
	}
	return NewTokenMinter(key, issuer, ttl), nil
}

// CustomClaims is the claim set carried by minted custom tokens.
type CustomClaims struct {
	UID string `json:"uid"`
	jwt.RegisteredClaims
}

// Mint signs a custom token for the given principal id.
func (m *TokenMinter) Mint(uid string) (string, error) {
	now := time.Now()
	claims := CustomClaims{
		UID: uid,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   uid,
			Audience:  jwt.ClaimStrings{"ridelink-identity"},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(m.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign custom token: %w", err)
	}
	return signed, nil
}

func parsePrivateKey(data []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("signing key is not valid PEM")
	}

	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse signing key: %w", err)
	}
	rsaKey, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("signing key is not an RSA key")
	}
	return rsaKey, nil
}
