package service

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrAuthenticationFailed = errors.New("authentication failed: invalid client id or secret")
	ErrTokenGeneration      = errors.New("failed to generate access token")
)

const tokenIssuer = "nutriai-inference-proxy"

// ClientClaims is the payload of a proxy access token.
type ClientClaims struct {
	ClientID string `json:"cid"`
	jwt.RegisteredClaims
}

// AuthService authenticates the single client application allowed to use
// the inference proxy and issues its short-lived access tokens.
type AuthService interface {
	IssueToken(clientID, clientSecret string) (token string, expiresAt time.Time, err error)
	JWTSecret() string
}

type authService struct {
	clientID         string
	clientSecretHash []byte
	jwtSecret        string
	jwtExpiration    time.Duration
	now              func() time.Time
}

// NewAuthService creates the proxy auth service. clientSecretHash is a bcrypt hash.
func NewAuthService(clientID, clientSecretHash, jwtSecret string, jwtExpiration time.Duration) (AuthService, error) {
	if jwtSecret == "" {
		return nil, errors.New("JWT secret cannot be empty")
	}
	if clientID == "" || clientSecretHash == "" {
		return nil, errors.New("proxy client id and secret hash are required")
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour
	}
	return &authService{
		clientID:         clientID,
		clientSecretHash: []byte(clientSecretHash),
		jwtSecret:        jwtSecret,
		jwtExpiration:    jwtExpiration,
		now:              time.Now,
	}, nil
}

func (s *authService) IssueToken(clientID, clientSecret string) (string, time.Time, error) {
	if clientID == "" || clientSecret == "" {
		return "", time.Time{}, ErrAuthenticationFailed
	}
	idMatch := subtle.ConstantTimeCompare([]byte(clientID), []byte(s.clientID)) == 1
	// Always run bcrypt so an unknown id costs the same as a wrong secret.
	secretErr := bcrypt.CompareHashAndPassword(s.clientSecretHash, []byte(clientSecret))
	if !idMatch || secretErr != nil {
		return "", time.Time{}, ErrAuthenticationFailed
	}

	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.jwtExpiration)
	claims := &ClientClaims{
		ClientID: clientID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   clientID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			Issuer:    tokenIssuer,
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", time.Time{}, ErrTokenGeneration
	}
	return signed, expiresAt, nil
}

// JWTSecret returns the signing secret for the auth middleware.
func (s *authService) JWTSecret() string {
	return s.jwtSecret
}
