// Package oauth adapts external identity providers to a single callback
// contract. Protocol work is delegated to golang.org/x/oauth2.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Profile is the provider-neutral view of the remote account.
type Profile struct {
	DisplayName string
	Username    string
	Emails      []string
	Photos      []string
}

// NormalizedUser is what a callback yields for account lookup. Email and
// Picture are nil when the provider did not share them.
type NormalizedUser struct {
	Email   *string
	Name    string
	Picture *string
}

// Provider is one OAuth identity provider.
type Provider interface {
	Name() string
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (Profile, error)
	ValidateCallback(profile Profile) NormalizedUser
}

func firstNonEmpty(values []string) *string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return &v
		}
	}
	return nil
}

// fetchJSON GETs url with a client already authorized by oauth2 and decodes
// the JSON body into dest.
func fetchJSON(ctx context.Context, client *http.Client, url string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("fetch profile: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode profile: %w", err)
	}
	return nil
}
