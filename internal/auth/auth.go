// Package auth knows how to validate the JWTs issued for back office users
// and carries the claim types attached to request contexts.
package auth

import (
	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
)

// Back office roles.
const (
	RoleAdmin     = "ADMIN"
	RoleDashboard = "DASHBOARD"
)

type ctxKey int

// Key is used to store/retrieve user claims from a context.Context.
const Key ctxKey = 1

// SchoolKey is used to store/retrieve the authenticated kiosk's school.
const SchoolKey ctxKey = 2

// Claims represents the authorization claims stored in an access token.
type Claims struct {
	jwt.StandardClaims
	UserId int    `json:"user_id"`
	Role   string `json:"role"`
}

// Authorized reports whether the claims carry one of the given roles.
func (c Claims) Authorized(roles ...string) bool {
	for _, role := range roles {
		if c.Role == role {
			return true
		}
	}
	return false
}

// SchoolClaims identifies the tenant a kiosk request was authenticated for.
type SchoolClaims struct {
	SchoolID int
}

// Auth is used to validate tokens issued by this service.
type Auth struct {
	secret []byte
}

func New(secret string) *Auth {
	return &Auth{secret: []byte(secret)}
}

// ValidateToken parses and validates a signed access token.
func (a *Auth) ValidateToken(tokenStr string) (Claims, error) {
	var claims Claims

	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return Claims{}, errors.Wrap(err, "parsing token")
	}
	if !token.Valid {
		return Claims{}, errors.New("invalid token")
	}

	return claims, nil
}
