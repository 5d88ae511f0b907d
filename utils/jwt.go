// utils/jwt.go
package utils

import (
	"github.com/golang-jwt/jwt/v4"

	"github.com/CareO-HQ/careo-sub009/config"
)

// Claims carries the identity resolved by the surrounding application's auth
// service. This subsystem only validates tokens; it never issues them.
type Claims struct {
	UserID         string `json:"userID"`
	Name           string `json:"name"`
	Role           string `json:"role"`
	OrganizationID string `json:"organizationId"`
	jwt.RegisteredClaims
}

func ValidateJWT(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return config.JWTKey, nil
	})

	if err != nil || !token.Valid {
		return nil, err
	}

	return claims, nil
}
