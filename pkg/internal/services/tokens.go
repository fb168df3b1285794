package services

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
)

func jwtSecret() ([]byte, error) {
	secret := viper.GetString("security.jwt_secret")
	if len(secret) == 0 {
		return nil, fmt.Errorf("jwt secret is not configured")
	}
	return []byte(secret), nil
}

func NewAccessToken(account uint) (string, error) {
	secret, err := jwtSecret()
	if err != nil {
		return "", err
	}

	ttl := viper.GetDuration("security.token_ttl")
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.Itoa(int(account)),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ParseAccessToken verifies the token and yields the account id in its subject.
func ParseAccessToken(token string) (uint, error) {
	secret, err := jwtSecret()
	if err != nil {
		return 0, err
	}

	tk, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !tk.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := tk.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return 0, ErrInvalidToken
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidToken
	}

	return uint(id), nil
}
