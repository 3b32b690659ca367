package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	apperrors "github.com/yourusername/storyquiz-api/internal/pkg/errors"
)

// StaffClaims identify a teacher/admin on the staff surface. The token
// is minted by the external identity provider integration (or by local
// tooling in development); this service only verifies it. The mirror
// user row's status decides whether the bearer may actually act.
type StaffClaims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// StaffTokenService verifies staff access tokens.
type StaffTokenService struct {
	secretKey []byte
	expiry    time.Duration
}

// NewStaffTokenService creates the service.
func NewStaffTokenService(secretKey string, expirationHrs int) (*StaffTokenService, error) {
	if secretKey == "" {
		return nil, errors.New("staff token secret key is required")
	}
	if expirationHrs <= 0 {
		expirationHrs = 24
	}
	return &StaffTokenService{
		secretKey: []byte(secretKey),
		expiry:    time.Duration(expirationHrs) * time.Hour,
	}, nil
}

// GenerateToken mints a staff token. Used by development tooling and
// tests; production tokens come from the identity provider callback.
func (s *StaffTokenService) GenerateToken(email, name string) (string, error) {
	now := time.Now()
	claims := StaffClaims{
		Email: email,
		Name:  name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

// ParseToken verifies a staff token and returns its claims.
func (s *StaffTokenService) ParseToken(tokenString string) (*StaffClaims, error) {
	claims := &StaffClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.ErrUnauthorized
	}
	if claims.Email == "" {
		return nil, apperrors.ErrUnauthorized
	}
	return claims, nil
}
