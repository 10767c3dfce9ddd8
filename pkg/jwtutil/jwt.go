package jwtutil

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// ErrRevoked is returned for a token that was revoked at logout
var ErrRevoked = errors.New("token revoked")

// Session roles carried in tokens
const (
	RoleMerchant = "merchant"
	RoleAdmin    = "admin"
)

// JWTConfig holds JWT configuration
type JWTConfig struct {
	SigningKey      string
	ExpirationHours int
}

// UserClaims represents the JWT claims for a dashboard session
type UserClaims struct {
	Subject    string `json:"sub_id"`
	Email      string `json:"email,omitempty"`
	MerchantID string `json:"merchant_id,omitempty"`
	Role       string `json:"role"`
	Demo       bool   `json:"demo,omitempty"`
	jwt.RegisteredClaims
}

// JWTUtil is a utility for JWT token operations
type JWTUtil struct {
	config *JWTConfig
	now    func() time.Time

	mu      sync.Mutex
	revoked map[string]time.Time // token id -> expiry
}

// NewJWTUtil creates a new JWT utility with the given configuration
func NewJWTUtil(config *JWTConfig) *JWTUtil {
	return &JWTUtil{
		config:  config,
		now:     time.Now,
		revoked: make(map[string]time.Time),
	}
}

// GenerateMerchantToken issues a token for the merchant session
func (j *JWTUtil) GenerateMerchantToken(merchantID, email string, demo bool) (string, error) {
	return j.generate(UserClaims{
		Subject:    merchantID,
		Email:      email,
		MerchantID: merchantID,
		Role:       RoleMerchant,
		Demo:       demo,
	})
}

// GenerateAdminToken issues a token for the founder dashboard
func (j *JWTUtil) GenerateAdminToken(username string) (string, error) {
	return j.generate(UserClaims{
		Subject: username,
		Role:    RoleAdmin,
	})
}

func (j *JWTUtil) generate(claims UserClaims) (string, error) {
	if j.config == nil {
		return "", errors.New("JWT configuration not provided")
	}

	now := j.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(j.config.ExpirationHours) * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(now),
		ID:        uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.config.SigningKey))
}

// ValidateToken validates and parses the JWT token
func (j *JWTUtil) ValidateToken(tokenString string) (*UserClaims, error) {
	if j.config == nil {
		return nil, errors.New("JWT configuration not provided")
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&UserClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(j.config.SigningKey), nil
		},
	)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*UserClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if j.isRevoked(claims.ID) {
		return nil, ErrRevoked
	}
	return claims, nil
}

// Revoke rejects the token carrying claims from now until it expires.
// Revocations live in memory and are dropped on restart.
func (j *JWTUtil) Revoke(claims *UserClaims) {
	if claims == nil || claims.ID == "" || j.config == nil {
		return
	}
	expiry := j.now().Add(time.Duration(j.config.ExpirationHours) * time.Hour)
	if claims.ExpiresAt != nil {
		expiry = claims.ExpiresAt.Time
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	now := j.now()
	for id, exp := range j.revoked {
		if !exp.After(now) {
			delete(j.revoked, id)
		}
	}
	j.revoked[claims.ID] = expiry
}

func (j *JWTUtil) isRevoked(id string) bool {
	if id == "" {
		return false
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	_, ok := j.revoked[id]
	return ok
}
