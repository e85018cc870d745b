package middleware

import (
	"crypto/rsa"
	"errors"
	"strings"
	"time"

	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-models"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-utils"
	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuer identifies the service that issues all access tokens.
const TokenIssuer = utils.TokenIssuer

// Claims is what the property service needs out of a verified token.
type Claims struct {
	Subject string
	Role    models.RoleType
}

// ValidateToken checks the token's RS256 signature, expiry, issuer, subject
// and role claims. Token issuance lives in the auth service.
func ValidateToken(tokenString string, publicKey *rsa.PublicKey) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return publicKey, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	// ─── Standard claim checks ────────────────────────────────────────────────────
	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, errors.New("missing expiration claim")
	}
	if time.Unix(int64(exp), 0).Before(time.Now()) {
		return nil, jwt.ErrTokenExpired
	}

	iss, ok := claims["iss"].(string)
	if !ok {
		return nil, errors.New("missing issuer claim")
	}
	if iss != TokenIssuer {
		return nil, errors.New("invalid token issuer")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, errors.New("missing subject claim")
	}

	// ─── Role ─────────────────────────────────────────────────────────────────────
	roleStr, _ := claims["role"].(string)
	role := models.RoleType(strings.ToUpper(roleStr))
	if !role.Valid() {
		return nil, errors.New("missing or unknown role claim")
	}

	return &Claims{Subject: sub, Role: role}, nil
}
