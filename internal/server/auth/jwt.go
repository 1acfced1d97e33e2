// Package auth issues and parses the HS256 access tokens that carry a
// principal between the HTTP layer and the services.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/leavedesk/internal/common"
	"github.com/dmitrijs2005/leavedesk/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// Claims embeds the registered claims and adds the fields that make up a
// Principal: the user's id, role and (for employees) assigned manager.
type Claims struct {
	jwt.RegisteredClaims
	UserID    int64       `json:"user_id"`
	Role      models.Role `json:"role"`
	ManagerID *int64      `json:"manager_id,omitempty"`
}

// Principal is the authenticated identity on whose behalf an operation
// executes.
type Principal struct {
	UserID    int64
	Role      models.Role
	ManagerID *int64
}

// GenerateToken mints a signed access token for the given user.
func GenerateToken(user *models.User, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   user.Email,
		},
		UserID:    user.ID,
		Role:      user.Role,
		ManagerID: user.ManagerID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// PrincipalFromToken validates the token signature and expiry and returns the
// embedded principal.
func PrincipalFromToken(tokenString string, secretKey []byte) (*Principal, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return &Principal{UserID: claims.UserID, Role: claims.Role, ManagerID: claims.ManagerID}, nil
}
