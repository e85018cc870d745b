package config

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func publicKeyB64(t *testing.T) (string, *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})), key
}

func setBaseEnv(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	b64, key := publicKeyB64(t)
	t.Setenv("ENV", "dev")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("APP_URL_FROM_ANYWHERE", "http://localhost:8080")
	t.Setenv("RSA_PUBLIC_KEY_BASE64", b64)
	t.Setenv("BWS_ACCESS_TOKEN", "")
	t.Setenv("LD_SDK_KEY", "")
	t.Setenv("DB_URL", "")
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("ALLOW_PARTIAL_PAYMENTS", "")
	t.Setenv("SEED_DB_WITH_TEST_DATA", "")
	t.Setenv("CORS_HIGH_SECURITY", "")
	t.Setenv("OVERDUE_SCAN_SCHEDULE", "")
	return key
}

func TestLoadFromEnvironment(t *testing.T) {
	key := setBaseEnv(t)
	t.Setenv("STORE_BACKEND", "MEMORY")
	t.Setenv("ALLOW_PARTIAL_PAYMENTS", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreBackendMemory, cfg.StoreBackend)
	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, DefaultOverdueScanSchedule, cfg.OverdueScanSchedule)
	assert.True(t, cfg.LDFlag_AllowPartialPayments)
	assert.False(t, cfg.LDFlag_SeedDbWithTestData)
	assert.True(t, cfg.LDFlag_CORSHighSecurity)
	assert.Equal(t, 0, key.PublicKey.N.Cmp(cfg.RSAPublicKey.N))
}

func TestLoadRequiresDBURLForPostgres(t *testing.T) {
	setBaseEnv(t)
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_URL")

	t.Setenv("DB_URL", "postgres://localhost/depa")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreBackendPostgres, cfg.StoreBackend)
}

func TestLoadRejectsBadValues(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("STORE_BACKEND", "sqlite")
	_, err := Load()
	assert.ErrorContains(t, err, "STORE_BACKEND")

	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("ALLOW_PARTIAL_PAYMENTS", "sometimes")
	_, err = Load()
	assert.ErrorContains(t, err, "ALLOW_PARTIAL_PAYMENTS")

	t.Setenv("ALLOW_PARTIAL_PAYMENTS", "")
	t.Setenv("RSA_PUBLIC_KEY_BASE64", "bm90IGEga2V5")
	_, err = Load()
	assert.ErrorContains(t, err, "RSA_PUBLIC_KEY_BASE64")

	t.Setenv("APP_PORT", "")
	_, err = Load()
	assert.ErrorContains(t, err, "APP_PORT")
}
