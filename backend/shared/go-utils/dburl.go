package utils

import (
	"fmt"
	"net/url"
)

// RedactDBURL hides the password of a Postgres URL so it can be logged.
func RedactDBURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<unparseable db url>"
	}
	return u.Redacted()
}

// WithApplicationName tags the connection so it shows up in pg_stat_activity.
func WithApplicationName(rawURL, appName string) (string, error) {
	if appName == "" {
		return rawURL, nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid DB URL: %w", err)
	}
	q := u.Query()
	if q.Get("application_name") == "" {
		q.Set("application_name", appName)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
