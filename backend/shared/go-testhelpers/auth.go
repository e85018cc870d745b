package testhelpers

import (
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"time"

	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-models"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// CreateJWT signs an access token the way the auth service does.
func (h *TestHelper) CreateJWT(userID uuid.UUID, role models.RoleType) string {
	return h.signJWT(userID, role, time.Now().Add(15*time.Minute))
}

// CreateExpiredJWT signs a token that expired a minute ago.
func (h *TestHelper) CreateExpiredJWT(userID uuid.UUID, role models.RoleType) string {
	return h.signJWT(userID, role, time.Now().Add(-time.Minute))
}

func (h *TestHelper) signJWT(userID uuid.UUID, role models.RoleType, exp time.Time) string {
	claims := jwt.MapClaims{
		"iss":  utils.TokenIssuer,
		"sub":  userID.String(),
		"role": string(role),
		"iat":  time.Now().Add(-time.Minute).Unix(),
		"exp":  exp.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(h.PrivateKey)
	require.NoError(h.T, err, "Failed to sign test JWT")
	return signed
}

// PublicKeyBase64 returns the helper's public key in the
// RSA_PUBLIC_KEY_BASE64 format the config expects.
func (h *TestHelper) PublicKeyBase64() string {
	der, err := x509.MarshalPKIXPublicKey(&h.PrivateKey.PublicKey)
	require.NoError(h.T, err)
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
	return base64.StdEncoding.EncodeToString(pemBytes)
}
