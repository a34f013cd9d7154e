package tokens

import (
	"fmt"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// GitHub rejects app tokens that are valid for more than ten minutes.
const DefaultDuration = time.Second * 600

// ParsePrivateKey reads a PEM encoded RSA private key and returns
// a key usable for signing app tokens.
func ParsePrivateKey(pemData []byte) (jwk.Key, error) {
	key, err := jwk.ParseKey(pemData, jwk.WithPEM(true))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	if key.KeyType() != jwa.RSA {
		return nil, fmt.Errorf("private key is of type %s, need RSA", key.KeyType())
	}
	return key, nil
}

// AppToken creates a new GitHub App JWT, signed with the specified key and
// encoded using the RS256 algorithm.
//
// See https://docs.github.com/en/apps/creating-github-apps/authenticating-with-a-github-app/generating-a-json-web-token-jwt-for-a-github-app
func AppToken(key jwk.Key, appID string, duration time.Duration) (string, error) {
	if len(appID) == 0 {
		return "", fmt.Errorf("empty app id")
	}

	now := time.Now().Truncate(time.Second)
	token, err := jwt.NewBuilder().
		IssuedAt(now).
		Expiration(now.Add(duration)).
		Issuer(appID).
		Build()
	if err != nil {
		return "", fmt.Errorf("build claims: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.RS256, key))
	if err != nil {
		return "", fmt.Errorf("sign app token: %w", err)
	}

	return string(signed), nil
}
