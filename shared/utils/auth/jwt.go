package utils

import (
	"errors"
	"strconv"
	"time"

	"inventra-backend/shared/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims carried by issued credentials. Role is authoritative; it is never
// re-derived from data on the resolving side.
type Claims struct {
	PrincipalID string `json:"principal_id"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	Verified    bool   `json:"verified"`
	jwt.RegisteredClaims
}

var jwtSecret = []byte(getJWTSecret())

func getJWTSecret() string {
	cfg := config.GetConfig()
	if cfg.JWTSecret == "" {
		return "fallback-secret-key-for-development"
	}
	return cfg.JWTSecret
}

// GetJWTExpireDuration returns the access token lifetime from config
func GetJWTExpireDuration() time.Duration {
	if hours, err := strconv.Atoi(config.GetConfig().JWTExpireHours); err == nil {
		return time.Duration(hours) * time.Hour
	}
	return 24 * time.Hour
}

// GetJWTRefreshExpireDuration returns the refresh token lifetime from config
func GetJWTRefreshExpireDuration() time.Duration {
	if days, err := strconv.Atoi(config.GetConfig().JWTRefreshExpireDays); err == nil {
		return time.Duration(days) * 24 * time.Hour
	}
	return 7 * 24 * time.Hour
}

func signClaims(claims Claims, lifetime time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
}

func parseClaims(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// GenerateJWT issues an access token for the principal
func GenerateJWT(principalID uuid.UUID, email string, role string, verified bool) (string, error) {
	return signClaims(Claims{
		PrincipalID: principalID.String(),
		Email:       email,
		Role:        role,
		Verified:    verified,
	}, GetJWTExpireDuration())
}

// GenerateRefreshJWT issues a refresh token for the principal
func GenerateRefreshJWT(principalID uuid.UUID, email string, role string) (string, error) {
	return signClaims(Claims{
		PrincipalID: principalID.String(),
		Email:       email,
		Role:        role,
	}, GetJWTRefreshExpireDuration())
}

// ValidateJWT verifies the signature and lifetime of an access token
func ValidateJWT(tokenString string) (*Claims, error) {
	return parseClaims(tokenString)
}

// ValidateRefreshJWT verifies a refresh token
func ValidateRefreshJWT(tokenString string) (*Claims, error) {
	claims, err := parseClaims(tokenString)
	if err != nil {
		return nil, errors.New("invalid refresh token")
	}
	return claims, nil
}

// IsTokenExpired reports whether the token no longer validates or has expired
func IsTokenExpired(tokenString string) bool {
	claims, err := parseClaims(tokenString)
	if err != nil {
		return true
	}
	return claims.ExpiresAt.Before(time.Now())
}
