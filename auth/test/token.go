package test

import (
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/hlra-health/profilesync/test"
)

// SignedAccessToken returns an HS256 access token for the subject that expires at the given time
func SignedAccessToken(subject string, expiresAt time.Time) string {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(expiresAt.Add(-time.Hour)),
		ID:        test.Faker.UUID().V4(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-signing-key"))
	if err != nil {
		panic(err)
	}
	return token
}
