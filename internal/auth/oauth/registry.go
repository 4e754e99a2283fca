package oauth

import (
	"sort"

	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
)

const providerNotFoundMessage = "oauth-provider-not-found"

// Registry dispatches by provider name.
type Registry struct {
	providers map[enums.OAuthProvider]Provider
}

func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[enums.OAuthProvider]Provider, len(providers))}
	for _, p := range providers {
		if p != nil {
			r.providers[enums.OAuthProvider(p.Name())] = p
		}
	}
	return r
}

// Get resolves a provider by (case-insensitive) name.
func (r *Registry) Get(name string) (Provider, error) {
	key, err := enums.ParseOAuthProvider(name)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, providerNotFoundMessage)
	}
	p, ok := r.providers[key]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, providerNotFoundMessage)
	}
	return p, nil
}

// Names lists the registered providers in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name.String())
	}
	sort.Strings(names)
	return names
}
