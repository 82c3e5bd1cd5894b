package service

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/classroom-api/internal/models"
	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
)

// sessionTokenClaims is the payload of tokens minted by the auth service.
type sessionTokenClaims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// SessionService verifies bearer tokens issued by the external auth service.
type SessionService struct {
	secret []byte
}

// NewSessionService constructs a verifier for HS256 tokens signed with secret.
func NewSessionService(secret string) *SessionService {
	return &SessionService{secret: []byte(secret)}
}

// Verify parses and validates token, returning the caller identity.
func (s *SessionService) Verify(token string) (*models.SessionClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &sessionTokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := parsed.Claims.(*sessionTokenClaims)
	if !ok || !parsed.Valid || strings.TrimSpace(claims.Subject) == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	role, err := models.ParseUserRole(claims.Role)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token role")
	}
	return &models.SessionClaims{UserID: claims.Subject, Email: claims.Email, Role: role}, nil
}
