package oauth

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2"

	"github.com/angelmondragon/marketplace-backend/pkg/config"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
)

const (
	yandexAuthURL     = "https://oauth.yandex.ru/authorize"
	yandexTokenURL    = "https://oauth.yandex.ru/token"
	yandexUserInfoURL = "https://login.yandex.ru/info?format=json"
	yandexAvatarURL   = "https://avatars.yandex.net/get-yapic/%s/islands-200"
)

// Yandex signs users in with their Yandex ID.
type Yandex struct {
	oauth       *oauth2.Config
	userInfoURL string
}

// NewYandex never fails: unlike Google, missing credentials only surface when
// the provider rejects the authorization request.
func NewYandex(cfg config.OAuthConfig) *Yandex {
	serverURL := strings.TrimRight(strings.TrimSpace(cfg.ServerURL), "/")
	return &Yandex{
		oauth: &oauth2.Config{
			ClientID:     cfg.YandexClientID,
			ClientSecret: cfg.YandexClientSecret,
			RedirectURL:  serverURL + "/auth/yandex/callback",
			Endpoint: oauth2.Endpoint{
				AuthURL:   yandexAuthURL,
				TokenURL:  yandexTokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		userInfoURL: yandexUserInfoURL,
	}
}

func (y *Yandex) Name() string {
	return enums.OAuthProviderYandex.String()
}

func (y *Yandex) RedirectURL() string {
	return y.oauth.RedirectURL
}

func (y *Yandex) AuthCodeURL(state string) string {
	return y.oauth.AuthCodeURL(state)
}

type yandexUserInfo struct {
	Login           string   `json:"login"`
	DisplayName     string   `json:"display_name"`
	DefaultEmail    string   `json:"default_email"`
	Emails          []string `json:"emails"`
	DefaultAvatarID string   `json:"default_avatar_id"`
	IsAvatarEmpty   bool     `json:"is_avatar_empty"`
}

func (y *Yandex) Exchange(ctx context.Context, code string) (Profile, error) {
	token, err := y.oauth.Exchange(ctx, code)
	if err != nil {
		return Profile{}, fmt.Errorf("yandex token exchange: %w", err)
	}

	// login.yandex.ru expects "Authorization: OAuth <token>" rather than Bearer.
	authed := *token
	authed.TokenType = "OAuth"
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&authed))

	var info yandexUserInfo
	if err := fetchJSON(ctx, client, y.userInfoURL, &info); err != nil {
		return Profile{}, fmt.Errorf("yandex: %w", err)
	}
	return info.profile(), nil
}

func (info yandexUserInfo) profile() Profile {
	profile := Profile{
		DisplayName: info.DisplayName,
		Username:    info.Login,
	}
	if info.DefaultEmail != "" {
		profile.Emails = append(profile.Emails, info.DefaultEmail)
	}
	for _, email := range info.Emails {
		if email != info.DefaultEmail {
			profile.Emails = append(profile.Emails, email)
		}
	}
	if info.DefaultAvatarID != "" && !info.IsAvatarEmpty {
		profile.Photos = []string{fmt.Sprintf(yandexAvatarURL, info.DefaultAvatarID)}
	}
	return profile
}

// ValidateCallback maps the profile; Yandex accounts are named by login.
func (y *Yandex) ValidateCallback(profile Profile) NormalizedUser {
	return NormalizedUser{
		Email:   firstNonEmpty(profile.Emails),
		Name:    profile.Username,
		Picture: firstNonEmpty(profile.Photos),
	}
}
