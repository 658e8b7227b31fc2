package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"bingo-sales-platform/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenClaims is the JWT payload of an access token
type TokenClaims struct {
	Role     models.UserRole `json:"role"`
	SellerID int64           `json:"seller_id,omitempty"`
	jwt.RegisteredClaims
}

// AuthService issues and verifies HS256 access tokens
type AuthService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(secret, issuer string, ttl time.Duration) *AuthService {
	return &AuthService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// IssueToken signs a token for the user
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	if err := user.Validate(); err != nil {
		return "", err
	}

	subject := user.Subject
	if subject == "" {
		subject = string(user.Role)
		if user.Role == models.UserRoleSeller {
			subject = "seller-" + strconv.FormatInt(user.SellerID, 10)
		}
	}

	now := s.now()
	claims := TokenClaims{
		Role:     user.Role,
		SellerID: user.SellerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies the signature, issuer and expiry and returns the caller
func (s *AuthService) ValidateToken(tokenString string) (*models.User, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUnauthorized, err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", models.ErrUnauthorized)
	}

	user := &models.User{Subject: claims.Subject, Role: claims.Role, SellerID: claims.SellerID}
	if err := user.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUnauthorized, err)
	}
	return user, nil
}
