package utils

const (
	OrganizationName                      = "DepaManager"
	CORSLowSecurityAllowedOriginLocalhost = "http://localhost:*"

	// TokenIssuer is the iss claim expected on every access token.
	TokenIssuer = "DepaManager"

	// DefaultCurrency is informational; amounts are stored without currency.
	DefaultCurrency = "PEN"
)
