package config

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"github.com/launchdarkly/go-sdk-common/v3/ldcontext"
	ld "github.com/launchdarkly/go-server-sdk/v7"
)

const (
	StoreBackendPostgres = "postgres"
	StoreBackendMemory   = "memory"
)

type Config struct {
	OrganizationName string
	AppName          string
	AppPort          string
	AppUrl           string
	Env              string

	// Storage
	StoreBackend       string
	DBUrl              string
	ApplySchemaOnStart bool

	// Auth (verification only; tokens are issued by the auth service)
	RSAPublicKey *rsa.PublicKey

	// Background scan
	OverdueScanSchedule string

	// LaunchDarkly flags
	LDFlag_AllowPartialPayments bool
	LDFlag_SeedDbWithTestData   bool
	LDFlag_CORSHighSecurity     bool
}

const (
	OrganizationName           = utils.OrganizationName
	LDConnectionTimeout        = 5 * time.Second
	DefaultOverdueScanSchedule = "@every 15m"
	defaultAppName             = "property-service"
)

// build-time overrides
var (
	AppName             string
	LDServerContextKey  string
	LDServerContextKind string
)

// LoadConfig loads the configuration or exits the process.
func LoadConfig() *Config {
	cfg, err := Load()
	if err != nil {
		utils.Logger.WithError(err).Fatal("Failed to load config")
	}
	return cfg
}

// Load reads .env (if present), the environment, optional Bitwarden secrets
// and optional LaunchDarkly flags, in that order of precedence for secrets:
// BWS wins over the environment.
func Load() (*Config, error) {
	if AppName == "" {
		AppName = defaultAppName
		utils.Logger.Warnf("AppName ldflag missing, using %q", AppName)
	}
	utils.Logger.Info("Loading config for app: ", AppName)

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}

	env := os.Getenv("ENV")
	if env == "" {
		return nil, errors.New("ENV env var is missing")
	}
	appPort := os.Getenv("APP_PORT")
	if appPort == "" {
		return nil, errors.New("APP_PORT env var is missing")
	}
	appUrl := os.Getenv("APP_URL_FROM_ANYWHERE")
	if appUrl == "" {
		return nil, errors.New("APP_URL_FROM_ANYWHERE env var is missing")
	}

	secrets, err := loadSecrets(env)
	if err != nil {
		return nil, err
	}

	backend := strings.ToLower(envOr("STORE_BACKEND", StoreBackendPostgres))
	if backend != StoreBackendPostgres && backend != StoreBackendMemory {
		return nil, fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", StoreBackendPostgres, StoreBackendMemory, backend)
	}
	dbURL := secrets["DB_URL"]
	if backend == StoreBackendPostgres && dbURL == "" {
		return nil, errors.New("DB_URL not found in BWS or environment")
	}

	pubKey, err := ParseRSAPublicKeyBase64(secrets["RSA_PUBLIC_KEY_BASE64"])
	if err != nil {
		return nil, fmt.Errorf("RSA_PUBLIC_KEY_BASE64: %w", err)
	}

	applySchema, err := envBool("APPLY_SCHEMA_ON_START", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		OrganizationName:    OrganizationName,
		AppName:             AppName,
		AppPort:             appPort,
		AppUrl:              appUrl,
		Env:                 env,
		StoreBackend:        backend,
		DBUrl:               dbURL,
		ApplySchemaOnStart:  applySchema,
		RSAPublicKey:        pubKey,
		OverdueScanSchedule: envOr("OVERDUE_SCAN_SCHEDULE", DefaultOverdueScanSchedule),
	}

	if err := loadFlags(cfg, secrets["LD_SDK_KEY"]); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Close() {}

// loadSecrets reads DB_URL, RSA_PUBLIC_KEY_BASE64 and LD_SDK_KEY from
// Bitwarden when BWS_ACCESS_TOKEN is set, otherwise from the environment.
func loadSecrets(env string) (map[string]string, error) {
	keys := []string{"DB_URL", "RSA_PUBLIC_KEY_BASE64", "LD_SDK_KEY"}
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		out[k] = os.Getenv(k)
	}

	client, err := utils.NewBWSSecretsClient()
	if errors.Is(err, utils.ErrBWSNotConfigured) {
		utils.Logger.Info("BWS_ACCESS_TOKEN not set; reading secrets from the environment")
		return out, nil
	}
	if err != nil {
		return nil, fmt.Errorf("initializing BWSSecretsClient: %w", err)
	}
	defer client.Close()

	appSecretsName := fmt.Sprintf("%s-%s", AppName, env)
	appSecrets, err := client.GetBWSSecrets(appSecretsName)
	if err != nil {
		return nil, fmt.Errorf("fetching app secrets from BWS: %w", err)
	}
	sharedSecretsName := fmt.Sprintf("shared-%s", env)
	sharedSecrets, err := client.GetBWSSecrets(sharedSecretsName)
	if err != nil {
		return nil, fmt.Errorf("fetching shared secrets from BWS: %w", err)
	}

	for _, k := range keys {
		if v := sharedSecrets[k]; v != "" {
			out[k] = v
		}
		if v := appSecrets[k]; v != "" {
			out[k] = v
		}
	}
	return out, nil
}

// loadFlags reads feature flags from LaunchDarkly when an SDK key is
// available and falls back to environment variables otherwise.
func loadFlags(cfg *Config, ldSDKKey string) error {
	if ldSDKKey == "" {
		var err error
		if cfg.LDFlag_AllowPartialPayments, err = envBool("ALLOW_PARTIAL_PAYMENTS", false); err != nil {
			return err
		}
		if cfg.LDFlag_SeedDbWithTestData, err = envBool("SEED_DB_WITH_TEST_DATA", false); err != nil {
			return err
		}
		if cfg.LDFlag_CORSHighSecurity, err = envBool("CORS_HIGH_SECURITY", true); err != nil {
			return err
		}
		return nil
	}

	ldClient, err := ld.MakeClient(ldSDKKey, LDConnectionTimeout)
	if err != nil {
		return fmt.Errorf("creating LaunchDarkly client: %w", err)
	}
	defer ldClient.Close()
	if !ldClient.Initialized() {
		return errors.New("LaunchDarkly client failed to initialize")
	}

	kind, key := LDServerContextKind, LDServerContextKey
	if kind == "" || key == "" {
		kind, key = "service", cfg.AppName
	}
	ctx := ldcontext.NewWithKind(ldcontext.Kind(kind), key)

	flags := []struct {
		name string
		dst  *bool
		def  bool
	}{
		{"allow_partial_payments", &cfg.LDFlag_AllowPartialPayments, false},
		{"seed_db_with_test_data", &cfg.LDFlag_SeedDbWithTestData, false},
		{"cors_high_security", &cfg.LDFlag_CORSHighSecurity, true},
	}
	for _, f := range flags {
		v, err := ldClient.BoolVariation(f.name, ctx, f.def)
		if err != nil {
			return fmt.Errorf("retrieving %s flag: %w", f.name, err)
		}
		*f.dst = v
		utils.Logger.Debugf("%s flag: %t", f.name, v)
	}
	return nil
}

// ParseRSAPublicKeyBase64 decodes a base64-wrapped PEM public key.
func ParseRSAPublicKeyBase64(b64 string) (*rsa.PublicKey, error) {
	if b64 == "" {
		return nil, errors.New("missing")
	}
	pubPEM, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("decoding base64: %w", err)
	}
	if block, _ := pem.Decode(pubPEM); block == nil {
		return nil, errors.New("failed to decode PEM block for public key")
	}
	return jwt.ParseRSAPublicKeyFromPEM(pubPEM)
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean, got %q", key, v)
	}
	return b, nil
}
