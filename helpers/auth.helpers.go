package helpers

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	Errors "errors"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt"
)

// ErrTokenExpired is returned by ParseJWT for well-signed but expired tokens
var ErrTokenExpired = Errors.New("jwt: token expired")

// ReadPublicKey loads a PEM encoded RSA public key from path
func ReadPublicKey(path string) (*rsa.PublicKey, error) {
	stream, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParsePublicKey(stream)
}

// ParsePublicKey accepts PKCS1 and PKIX encoded RSA public keys
func ParsePublicKey(stream []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(stream)
	if block == nil {
		return nil, Errors.New("pem: no key block found")
	}

	if key, err := x509.ParsePKCS1PublicKey(block.Bytes); err == nil {
		return key, nil
	}

	parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("pem: %w", err)
	}
	key, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, Errors.New("pem: key is not RSA")
	}
	return key, nil
}

// ParseJWT verifies an RS256 access token and returns its "id" claim
func ParseJWT(key *rsa.PublicKey, jwtString string) (string, error) {
	token, err := jwt.Parse(jwtString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("jwt: unexpected signing method %v", token.Header["alg"])
		}
		return key, nil
	})
	if err != nil {
		var validationErr *jwt.ValidationError
		if Errors.As(err, &validationErr) && validationErr.Errors&jwt.ValidationErrorExpired != 0 {
			return "", ErrTokenExpired
		}
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", Errors.New("jwt: invalid claims")
	}
	userID, ok := claims["id"].(string)
	if !ok || userID == "" {
		return "", Errors.New("jwt: missing id claim")
	}
	return userID, nil
}
