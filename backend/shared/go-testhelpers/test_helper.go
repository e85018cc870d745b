package testhelpers

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"os"
	"testing"
	"time"

	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-repositories"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/require"
)

// DefaultTestTime is where every FixedClock starts unless told otherwise.
var DefaultTestTime = time.Date(2025, time.January, 10, 9, 0, 0, 0, time.UTC)

// TestHelper bundles the store, clock and signing key a test needs.
type TestHelper struct {
	T          *testing.T
	Ctx        context.Context
	Store      repositories.Store
	Memory     *repositories.MemoryStore // nil for the postgres helper
	DB         *pgxpool.Pool             // nil for the memory helper
	Clock      *FixedClock
	PrivateKey *rsa.PrivateKey
	BaseURL    string
}

// NewTestHelper builds a helper over a fresh in-memory store.
func NewTestHelper(t *testing.T, validator repositories.Validator) *TestHelper {
	t.Helper()
	clock := NewFixedClock(DefaultTestTime)
	mem := repositories.NewMemoryStore(validator)
	mem.SetClock(clock.Now)

	return &TestHelper{
		T:          t,
		Ctx:        context.Background(),
		Store:      mem,
		Memory:     mem,
		Clock:      clock,
		PrivateKey: generateKey(t),
	}
}

// NewPostgresTestHelper connects to DB_URL, applies the schema and builds a
// PgStore. It is meant to be called once from TestMain in integration
// packages.
func NewPostgresTestHelper(t *testing.T, validator repositories.Validator) *TestHelper {
	dbURL := os.Getenv("DB_URL")
	require.NotEmpty(t, dbURL, "DB_URL env var is missing")

	ctx := context.Background()
	dbPool, err := pgxpool.Connect(ctx, dbURL)
	require.NoError(t, err)
	require.NoError(t, repositories.ApplySchema(ctx, dbPool), "Failed to apply schema")

	return &TestHelper{
		T:          t,
		Ctx:        ctx,
		Store:      repositories.NewPgStore(dbPool, validator),
		DB:         dbPool,
		Clock:      NewFixedClock(time.Now().UTC()),
		PrivateKey: generateKey(t),
		BaseURL:    os.Getenv("APP_URL_FROM_ANYWHERE"),
	}
}

// Close releases the database pool, if any.
func (h *TestHelper) Close() {
	if h.DB != nil {
		h.DB.Close()
	}
}

func generateKey(t *testing.T) *rsa.PrivateKey {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err, "Failed to generate RSA key")
	return key
}
