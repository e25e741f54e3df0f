package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vendorwatch/vendorwatch/internal/models"
)

// Claims is the JWT payload issued at login. It carries the full principal
// tuple so request handling never has to re-resolve identity.
type Claims struct {
	UserID         string `json:"userId"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	OrganizationID string `json:"organizationId"`
	jwt.RegisteredClaims
}

type TokenIssuer struct {
	secret []byte
	expiry time.Duration
}

func NewTokenIssuer(secret string, expiry time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), expiry: expiry}
}

func (t *TokenIssuer) Issue(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:         user.ID.String(),
		Email:          user.Email,
		Role:           string(user.Role),
		OrganizationID: user.OrganizationID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify parses and validates a token and resolves it to a Principal.
// An unrecognized role string still yields a valid principal; the permission
// map treats it as holding nothing.
func (t *TokenIssuer) Verify(tokenStr string) (Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(tk *jwt.Token) (interface{}, error) {
		if _, ok := tk.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tk.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return Principal{}, models.ErrUnauthorized
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return Principal{}, models.ErrUnauthorized
	}
	orgID, err := uuid.Parse(claims.OrganizationID)
	if err != nil {
		return Principal{}, models.ErrUnauthorized
	}

	role, _ := models.ParseRole(claims.Role)
	return Principal{
		UserID:         userID,
		Email:          claims.Email,
		Role:           role,
		OrganizationID: orgID,
	}, nil
}
