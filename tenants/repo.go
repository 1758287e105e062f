package tenants

import "context"

// Directory is the remote tenant lookup surface consumed by the Resolver.
// Implemented by the api client.
type Directory interface {
	TenantBySubdomain(ctx context.Context, subdomain string) (*Company, error)
	TenantByEmail(ctx context.Context, email string) (*Company, error)
	TenantsForEmail(ctx context.Context, email string) ([]Company, error)
	CheckSubdomain(ctx context.Context, candidate string) (*SubdomainCheck, error)
}
