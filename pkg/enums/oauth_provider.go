package enums

import (
	"fmt"
	"strings"
)

// OAuthProvider names an external identity provider.
type OAuthProvider string

const (
	OAuthProviderGoogle OAuthProvider = "google"
	OAuthProviderYandex OAuthProvider = "yandex"
)

var validOAuthProviders = []OAuthProvider{
	OAuthProviderGoogle,
	OAuthProviderYandex,
}

func (p OAuthProvider) String() string {
	return string(p)
}

func (p OAuthProvider) IsValid() bool {
	for _, candidate := range validOAuthProviders {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseOAuthProvider is case-insensitive.
func ParseOAuthProvider(value string) (OAuthProvider, error) {
	normalized := OAuthProvider(strings.ToLower(strings.TrimSpace(value)))
	if normalized.IsValid() {
		return normalized, nil
	}
	return "", fmt.Errorf("invalid oauth provider %q", value)
}
