package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/marketplace-backend/internal/auth/oauth"
	"github.com/angelmondragon/marketplace-backend/internal/users"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
	"github.com/angelmondragon/marketplace-backend/pkg/redis"
	"github.com/angelmondragon/marketplace-backend/pkg/security"
)

const (
	invalidOAuthStateMessage = "invalid-oauth-state"
	oauthCodeRequiredMessage = "oauth-code-required"
	oauthExchangeMessage     = "oauth-exchange-failed"
	stateBytes               = 24
	defaultStateTTL          = 10 * time.Minute
)

type providerRegistry interface {
	Get(name string) (oauth.Provider, error)
}

type stateStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	GetDel(ctx context.Context, key string) (string, error)
	OAuthStateKey(provider, state string) string
}

type oauthUsers interface {
	FindOrCreateByEmail(ctx context.Context, identity oauth.NormalizedUser) (*users.UserDTO, error)
}

type tokenIssuer interface {
	IssueFor(ctx context.Context, user *users.UserDTO) (*AuthResponse, error)
}

// OAuthFlowParams bundles the dependencies of the redirect/callback flow.
type OAuthFlowParams struct {
	Providers providerRegistry
	States    stateStore
	Users     oauthUsers
	Issuer    tokenIssuer
	StateTTL  time.Duration
	Logger    *logger.Logger
}

// OAuthFlow drives the two legs of a provider login: Begin hands out the
// provider URL bound to a one-time state, Complete redeems it.
type OAuthFlow struct {
	providers providerRegistry
	states    stateStore
	users     oauthUsers
	issuer    tokenIssuer
	stateTTL  time.Duration
	logg      *logger.Logger
}

func NewOAuthFlow(params OAuthFlowParams) (*OAuthFlow, error) {
	if params.Providers == nil {
		return nil, fmt.Errorf("oauth providers required")
	}
	if params.States == nil {
		return nil, fmt.Errorf("oauth state store required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("users service required")
	}
	if params.Issuer == nil {
		return nil, fmt.Errorf("token issuer required")
	}
	ttl := params.StateTTL
	if ttl <= 0 {
		ttl = defaultStateTTL
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &OAuthFlow{
		providers: params.Providers,
		states:    params.States,
		users:     params.Users,
		issuer:    params.Issuer,
		stateTTL:  ttl,
		logg:      logg,
	}, nil
}

// Begin returns the provider authorization URL.
func (f *OAuthFlow) Begin(ctx context.Context, providerName string) (string, error) {
	provider, err := f.providers.Get(providerName)
	if err != nil {
		return "", err
	}
	state, err := security.RandomToken(stateBytes)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate oauth state")
	}
	if err := f.states.Set(ctx, f.states.OAuthStateKey(provider.Name(), state), provider.Name(), f.stateTTL); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store oauth state")
	}
	return provider.AuthCodeURL(state), nil
}

// Complete validates the state, exchanges the code and signs the user in,
// creating the account on first login.
func (f *OAuthFlow) Complete(ctx context.Context, providerName, state, code string) (*AuthResponse, error) {
	provider, err := f.providers.Get(providerName)
	if err != nil {
		return nil, err
	}
	if err := f.consumeState(ctx, provider.Name(), state); err != nil {
		return nil, err
	}
	if strings.TrimSpace(code) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, oauthCodeRequiredMessage)
	}

	ctx = f.logg.WithProvider(ctx, provider.Name())
	profile, err := provider.Exchange(ctx, code)
	if err != nil {
		f.logg.Warn(ctx, "oauth exchange failed: "+err.Error())
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, oauthExchangeMessage)
	}

	user, err := f.users.FindOrCreateByEmail(ctx, provider.ValidateCallback(profile))
	if err != nil {
		return nil, err
	}
	f.logg.Info(f.logg.WithUserID(ctx, user.ID.String()), "oauth login")
	return f.issuer.IssueFor(ctx, user)
}

func (f *OAuthFlow) consumeState(ctx context.Context, provider, state string) error {
	if strings.TrimSpace(state) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, invalidOAuthStateMessage)
	}
	stored, err := f.states.GetDel(ctx, f.states.OAuthStateKey(provider, state))
	if err != nil {
		if redis.IsNil(err) {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, invalidOAuthStateMessage)
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load oauth state")
	}
	if stored != provider {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, invalidOAuthStateMessage)
	}
	return nil
}
