package jwt

import (
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TokenTypeAccess = "access"
	TokenTypeStream = "stream"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the identity carried by an access token.
type Claims struct {
	UserID     string
	Email      string
	EmployeeID *string
	CompanyID  *string
	Role       string
}

type Service interface {
	GenerateAccessToken(claims Claims) (token string, expiresAt int64, err error)
	// GenerateStreamToken issues a short-lived token for SSE connections,
	// which cannot send an Authorization header.
	GenerateStreamToken(claims Claims) (token string, expiresIn int, err error)
	ValidateStreamToken(token string) (Claims, error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTTL time.Duration
	streamTTL time.Duration
	tokenAuth *jwtauth.JWTAuth
}

func NewJWTService(secretKey string, accessTTL time.Duration) *JWTService {
	return &JWTService{
		accessTTL: accessTTL,
		streamTTL: 5 * time.Minute,
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(claims Claims) (string, int64, error) {
	expiresAt := time.Now().Add(j.accessTTL).Unix()
	_, token, err := j.tokenAuth.Encode(j.encode(claims, TokenTypeAccess, expiresAt))
	return token, expiresAt, err
}

func (j *JWTService) GenerateStreamToken(claims Claims) (string, int, error) {
	expiresAt := time.Now().Add(j.streamTTL).Unix()
	_, token, err := j.tokenAuth.Encode(j.encode(claims, TokenTypeStream, expiresAt))
	if err != nil {
		return "", 0, err
	}
	return token, int(j.streamTTL.Seconds()), nil
}

func (j *JWTService) ValidateStreamToken(tokenString string) (Claims, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}

	claims, err := ClaimsFromMap(token.PrivateClaims())
	if err != nil {
		return Claims{}, err
	}
	if tokenType, _ := token.PrivateClaims()["type"].(string); tokenType != TokenTypeStream {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}

func (j *JWTService) encode(c Claims, tokenType string, expiresAt int64) map[string]any {
	return map[string]any{
		"user_id":     c.UserID,
		"email":       c.Email,
		"employee_id": valueOrNil(c.EmployeeID),
		"company_id":  valueOrNil(c.CompanyID),
		"role":        c.Role,
		"type":        tokenType,
		"exp":         expiresAt,
	}
}

// ClaimsFromMap reads the identity claims back from a decoded token.
func ClaimsFromMap(m map[string]any) (Claims, error) {
	userID, ok := m["user_id"].(string)
	if !ok || userID == "" {
		return Claims{}, ErrInvalidToken
	}
	role, ok := m["role"].(string)
	if !ok || role == "" {
		return Claims{}, ErrInvalidToken
	}
	email, _ := m["email"].(string)

	return Claims{
		UserID:     userID,
		Email:      email,
		EmployeeID: stringOrNil(m["employee_id"]),
		CompanyID:  stringOrNil(m["company_id"]),
		Role:       role,
	}, nil
}

func valueOrNil(value *string) any {
	if value == nil {
		return nil
	}
	return *value
}

func stringOrNil(v any) *string {
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}
