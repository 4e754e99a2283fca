package controllers

import (
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/marketplace-backend/api/responses"
	"github.com/angelmondragon/marketplace-backend/api/validators"
	"github.com/angelmondragon/marketplace-backend/internal/auth"
	"github.com/angelmondragon/marketplace-backend/pkg/config"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
)

const (
	// RefreshTokenCookie carries the refresh token between browser and API.
	RefreshTokenCookie = "refreshToken"
	refreshCookieTTL   = 24 * time.Hour
	accessTokenParam   = "accessToken"
)

// AuthRegister opens a local account and signs the user in.
func AuthRegister(svc auth.Service, httpCfg config.HTTPConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "auth service")
			return
		}
		var req auth.RegisterRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		resp, err := svc.Register(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		setRefreshCookie(w, httpCfg, resp.RefreshToken)
		responses.WriteCreated(w, resp)
	}
}

// AuthLogin checks credentials and issues tokens.
func AuthLogin(svc auth.Service, httpCfg config.HTTPConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "auth service")
			return
		}
		var req auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		resp, err := svc.Login(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		setRefreshCookie(w, httpCfg, resp.RefreshToken)
		responses.WriteSuccess(w, resp)
	}
}

// AuthRefresh rotates the refresh cookie and returns a new access token.
func AuthRefresh(svc auth.Service, httpCfg config.HTTPConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "auth service")
			return
		}
		resp, err := svc.RefreshTokens(r.Context(), refreshCookieValue(r))
		if err != nil {
			clearRefreshCookie(w, httpCfg)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		setRefreshCookie(w, httpCfg, resp.RefreshToken)
		responses.WriteSuccess(w, resp)
	}
}

// AuthLogout revokes the session named by the refresh cookie. It succeeds
// without a cookie so clients can always reach a signed-out state.
func AuthLogout(svc auth.Service, httpCfg config.HTTPConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "auth service")
			return
		}
		if err := svc.Logout(r.Context(), refreshCookieValue(r)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		clearRefreshCookie(w, httpCfg)
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

// OAuthBegin redirects the browser to the provider's consent screen.
func OAuthBegin(flow *auth.OAuthFlow, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if flow == nil {
			unavailable(w, r, logg, "oauth")
			return
		}
		target, err := flow.Begin(r.Context(), chi.URLParam(r, "provider"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		http.Redirect(w, r, target, http.StatusFound)
	}
}

// OAuthCallback finishes a provider login, sets the refresh cookie and sends
// the browser back to the client with the access token.
func OAuthCallback(flow *auth.OAuthFlow, httpCfg config.HTTPConfig, clientURL string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if flow == nil {
			unavailable(w, r, logg, "oauth")
			return
		}
		q := r.URL.Query()
		resp, err := flow.Complete(r.Context(), chi.URLParam(r, "provider"), q.Get("state"), q.Get("code"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		setRefreshCookie(w, httpCfg, resp.RefreshToken)
		http.Redirect(w, r, clientRedirect(clientURL, resp.AccessToken), http.StatusFound)
	}
}

func clientRedirect(clientURL, accessToken string) string {
	target, err := url.Parse(clientURL)
	if err != nil || clientURL == "" {
		target = &url.URL{Path: "/"}
	}
	q := target.Query()
	q.Set(accessTokenParam, accessToken)
	target.RawQuery = q.Encode()
	return target.String()
}

func refreshCookieValue(r *http.Request) string {
	c, err := r.Cookie(RefreshTokenCookie)
	if err != nil {
		return ""
	}
	return c.Value
}

func setRefreshCookie(w http.ResponseWriter, cfg config.HTTPConfig, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshTokenCookie,
		Value:    token,
		Path:     "/",
		Domain:   cfg.CookieDomain,
		Expires:  time.Now().Add(refreshCookieTTL),
		MaxAge:   int(refreshCookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearRefreshCookie(w http.ResponseWriter, cfg config.HTTPConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshTokenCookie,
		Value:    "",
		Path:     "/",
		Domain:   cfg.CookieDomain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
