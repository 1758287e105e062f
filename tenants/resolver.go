package tenants

import (
	"context"
	"encoding/json"

	"github.com/hroffice/go-hrclient/credstore"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Resolver maps a browsing context (subdomain, or an explicit email lookup) to
// a company identity. Every successful resolution is cached in the credential
// store so the next startup can establish tenant context before the network is
// reachable.
type Resolver struct {
	dir   Directory
	store credstore.Store
	log   zerolog.Logger
}

type ResolverOption func(*Resolver)

func WithLogger(logger zerolog.Logger) ResolverOption {
	return func(r *Resolver) {
		r.log = logger
	}
}

func NewResolver(dir Directory, store credstore.Store, options ...ResolverOption) (*Resolver, error) {
	if dir == nil {
		return nil, errors.New("[NewResolver] Directory is required")
	}
	if store == nil {
		return nil, errors.New("[NewResolver] credential store is required")
	}

	resolver := &Resolver{dir: dir, store: store, log: log.Logger}
	for _, opt := range options {
		opt(resolver)
	}
	return resolver, nil
}

// ResolveBySubdomain looks a tenant up by its subdomain.
func (r *Resolver) ResolveBySubdomain(ctx context.Context, subdomain string) (*Company, error) {
	company, err := r.dir.TenantBySubdomain(ctx, subdomain)
	if err != nil {
		return nil, errors.Wrap(err, "[Resolver.ResolveBySubdomain] TenantBySubdomain")
	}
	r.cache(company)
	return company, nil
}

// ResolveByEmail looks a tenant up by a user email. Used when the browsing
// context carries no subdomain (e.g. local development).
func (r *Resolver) ResolveByEmail(ctx context.Context, email string) (*Company, error) {
	company, err := r.dir.TenantByEmail(ctx, email)
	if err != nil {
		return nil, errors.Wrap(err, "[Resolver.ResolveByEmail] TenantByEmail")
	}
	r.cache(company)
	return company, nil
}

// ListCompaniesForEmail returns every tenant an email belongs to, for the case
// where one email spans multiple companies and the caller must disambiguate
// before login.
func (r *Resolver) ListCompaniesForEmail(ctx context.Context, email string) ([]Company, error) {
	companies, err := r.dir.TenantsForEmail(ctx, email)
	if err != nil {
		return nil, errors.Wrap(err, "[Resolver.ListCompaniesForEmail] TenantsForEmail")
	}
	return companies, nil
}

// ValidateSubdomain checks a candidate subdomain during tenant
// self-registration. Not used during login.
func (r *Resolver) ValidateSubdomain(ctx context.Context, candidate string) (*SubdomainCheck, error) {
	check, err := r.dir.CheckSubdomain(ctx, candidate)
	if err != nil {
		return nil, errors.Wrap(err, "[Resolver.ValidateSubdomain] CheckSubdomain")
	}
	return check, nil
}

// ResolveFromHost establishes tenant context from the browsing host. When the
// host carries no subdomain, or remote resolution fails, the cached tenant
// from a previous run is used instead.
func (r *Resolver) ResolveFromHost(ctx context.Context, host string) (*Company, error) {
	subdomain := SubdomainFromHost(host)
	if subdomain == "" {
		if cached, ok := r.Cached(); ok && cached.Company != nil {
			return cached.Company, nil
		}
		return nil, errors.New("[Resolver.ResolveFromHost] no subdomain in host and no cached tenant")
	}

	company, err := r.ResolveBySubdomain(ctx, subdomain)
	if err != nil {
		if cached, ok := r.Cached(); ok && cached.Company != nil {
			r.log.Warn().Err(err).Str("subdomain", subdomain).Msg("tenant resolution failed, using cached tenant")
			return cached.Company, nil
		}
		return nil, err
	}
	return company, nil
}

// Cached returns the tenant info persisted by the last successful resolution.
func (r *Resolver) Cached() (*Info, bool) {
	raw, ok := r.store.Get(credstore.KeyTenant)
	if !ok {
		return nil, false
	}
	var info Info
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		// Corrupt cache entries are discarded, never fatal.
		r.log.Warn().Err(err).Msg("discarding corrupt cached tenant")
		_ = r.store.Delete(credstore.KeyTenant)
		return nil, false
	}
	return &info, true
}

func (r *Resolver) cache(company *Company) {
	if company == nil {
		return
	}
	info := Info{CompanyID: company.ID, Subdomain: company.Subdomain, Company: company}
	raw, err := json.Marshal(info)
	if err != nil {
		r.log.Warn().Err(err).Msg("failed to encode tenant cache entry")
		return
	}
	if err := r.store.Set(credstore.KeyTenant, string(raw)); err != nil {
		r.log.Warn().Err(err).Msg("failed to persist tenant cache entry")
	}
}
