package oauth

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/angelmondragon/marketplace-backend/pkg/config"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
)

const googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// Google signs users in with their Google account.
type Google struct {
	oauth       *oauth2.Config
	userInfoURL string
}

// NewGoogle fails before any network call when the client credentials or
// SERVER_URL are missing.
func NewGoogle(cfg config.OAuthConfig) (*Google, error) {
	clientID := strings.TrimSpace(cfg.GoogleClientID)
	clientSecret := strings.TrimSpace(cfg.GoogleClientSecret)
	serverURL := strings.TrimRight(strings.TrimSpace(cfg.ServerURL), "/")
	if clientID == "" || clientSecret == "" || serverURL == "" {
		return nil, pkgerrors.New(
			pkgerrors.CodeConfiguration,
			"missing Google OAuth environment variables: GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET and SERVER_URL must be set",
		)
	}

	return &Google{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  serverURL + "/auth/google/callback",
			Scopes:       []string{"profile", "email"},
			Endpoint:     google.Endpoint,
		},
		userInfoURL: googleUserInfoURL,
	}, nil
}

func (g *Google) Name() string {
	return enums.OAuthProviderGoogle.String()
}

func (g *Google) RedirectURL() string {
	return g.oauth.RedirectURL
}

func (g *Google) AuthCodeURL(state string) string {
	return g.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

type googleUserInfo struct {
	Sub     string `json:"sub"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

func (g *Google) Exchange(ctx context.Context, code string) (Profile, error) {
	token, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return Profile{}, fmt.Errorf("google token exchange: %w", err)
	}

	var info googleUserInfo
	if err := fetchJSON(ctx, g.oauth.Client(ctx, token), g.userInfoURL, &info); err != nil {
		return Profile{}, fmt.Errorf("google: %w", err)
	}

	profile := Profile{DisplayName: info.Name}
	if info.Email != "" {
		profile.Emails = []string{info.Email}
	}
	if info.Picture != "" {
		profile.Photos = []string{info.Picture}
	}
	return profile, nil
}

// ValidateCallback maps the profile; Google accounts are named by their
// display name.
func (g *Google) ValidateCallback(profile Profile) NormalizedUser {
	return NormalizedUser{
		Email:   firstNonEmpty(profile.Emails),
		Name:    profile.DisplayName,
		Picture: firstNonEmpty(profile.Photos),
	}
}
