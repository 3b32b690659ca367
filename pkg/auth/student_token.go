package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"

	apperrors "github.com/yourusername/storyquiz-api/internal/pkg/errors"
)

// Cookie names of the student session. There is no server-side session
// store: the signed cookie is the whole session.
const (
	StudentInfoCookie    = "student_info"
	PrivacyConsentCookie = "privacy_consent"
)

// StudentIdentity is the client-asserted student triple plus the code
// the student last entered. It is reconstructed from the signed
// student_info cookie on every request and passed explicitly to
// services; nothing about the student is ambient state.
type StudentIdentity struct {
	FullName       string `json:"name"`
	Section        string `json:"section"`
	DeviceID       string `json:"device_id"`
	AuthorizedCode string `json:"authorized_code,omitempty"`
}

// studentClaims wraps StudentIdentity as JWT claims.
type studentClaims struct {
	StudentIdentity
	jwt.RegisteredClaims
}

// StudentTokenService signs and verifies the student_info cookie.
type StudentTokenService struct {
	secretKey      []byte
	expiry         time.Duration
	cookieSecure   bool
	cookieSameSite http.SameSite
}

// NewStudentTokenService creates the service. expiryDays is the cookie
// lifetime (the spec's session length is 30 days).
func NewStudentTokenService(secretKey string, expiryDays int, production bool) (*StudentTokenService, error) {
	if secretKey == "" {
		return nil, errors.New("student token secret key is required")
	}
	if expiryDays <= 0 {
		expiryDays = 30
	}
	return &StudentTokenService{
		secretKey:      []byte(secretKey),
		expiry:         time.Duration(expiryDays) * 24 * time.Hour,
		cookieSecure:   production,
		cookieSameSite: http.SameSiteStrictMode,
	}, nil
}

// GenerateToken signs the identity as an HS256 JWT.
func (s *StudentTokenService) GenerateToken(identity StudentIdentity) (string, error) {
	now := time.Now()
	claims := studentClaims{
		StudentIdentity: identity,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

// ParseToken verifies the signature and returns the identity. Any
// failure (bad signature, expiry, malformed payload) maps to
// ErrUnauthorized: an untrusted cookie is the same as no cookie.
func (s *StudentTokenService) ParseToken(tokenString string) (*StudentIdentity, error) {
	claims := &studentClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.ErrUnauthorized
	}
	if claims.FullName == "" || claims.Section == "" {
		return nil, apperrors.ErrUnauthorized
	}
	return &claims.StudentIdentity, nil
}

// SetIdentityCookie signs the identity and writes the student_info
// cookie (httpOnly, SameSite=Strict, 30-day expiry).
func (s *StudentTokenService) SetIdentityCookie(w http.ResponseWriter, identity StudentIdentity) error {
	token, err := s.GenerateToken(identity)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     StudentInfoCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: s.cookieSameSite,
		MaxAge:   int(s.expiry.Seconds()),
	})
	return nil
}

// IdentityFromRequest reads and verifies the student_info cookie.
func (s *StudentTokenService) IdentityFromRequest(r *http.Request) (*StudentIdentity, error) {
	cookie, err := r.Cookie(StudentInfoCookie)
	if err != nil || cookie.Value == "" {
		return nil, apperrors.ErrUnauthorized
	}
	return s.ParseToken(cookie.Value)
}

// SetConsentCookie records privacy consent. Not signed: it carries no
// identity, only the literal "true".
func (s *StudentTokenService) SetConsentCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     PrivacyConsentCookie,
		Value:    "true",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: s.cookieSameSite,
		MaxAge:   int(s.expiry.Seconds()),
	})
}

// HasConsent reports whether the consent cookie is present.
func HasConsent(r *http.Request) bool {
	cookie, err := r.Cookie(PrivacyConsentCookie)
	return err == nil && cookie.Value == "true"
}
