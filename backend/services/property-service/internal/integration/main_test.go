//go:build integration

package integration

import (
	"os"
	"testing"
	_ "time/tzdata"

	"github.com/MillaAntonella/DepaManager--sub000/backend/services/property-service/internal/config"
	"github.com/MillaAntonella/DepaManager--sub000/backend/services/property-service/internal/services"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-testhelpers"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-utils"
)

// Global test-level variables
var (
	h   *testhelpers.TestHelper
	cfg *config.Config
)

// TestMain sets up a single postgres-backed TestHelper for the package.
func TestMain(m *testing.M) {
	utils.InitLogger(config.AppName)

	// TestMain runs before any test, so the helper gets a placeholder T.
	t := &testing.T{}
	h = testhelpers.NewPostgresTestHelper(t, services.NewInvariantValidator())

	cfg = &config.Config{
		AppName:                     "property-service",
		StoreBackend:                config.StoreBackendPostgres,
		RSAPublicKey:                &h.PrivateKey.PublicKey,
		LDFlag_AllowPartialPayments: true,
	}

	code := m.Run()
	h.Close()
	os.Exit(code)
}
