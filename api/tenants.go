package api

import (
	"context"
	"net/url"

	"github.com/hroffice/go-hrclient/tenants"
)

// TenantBySubdomain resolves a tenant by its subdomain.
func (c *Client) TenantBySubdomain(ctx context.Context, subdomain string) (*tenants.Company, error) {
	var company tenants.Company
	if err := c.do(ctx, "GET", tenantBySubdomainPath+url.PathEscape(subdomain), nil, nil, "", &company); err != nil {
		return nil, err
	}
	return &company, nil
}

// TenantByEmail resolves the tenant a user email belongs to.
func (c *Client) TenantByEmail(ctx context.Context, email string) (*tenants.Company, error) {
	query := url.Values{"email": {email}}
	var company tenants.Company
	if err := c.do(ctx, "GET", tenantByEmailPath, query, nil, "", &company); err != nil {
		return nil, err
	}
	return &company, nil
}

// TenantsForEmail lists every tenant an email belongs to.
func (c *Client) TenantsForEmail(ctx context.Context, email string) ([]tenants.Company, error) {
	query := url.Values{"email": {email}}
	var companies []tenants.Company
	if err := c.do(ctx, "GET", tenantLookupPath, query, nil, "", &companies); err != nil {
		return nil, err
	}
	return companies, nil
}

type subdomainCheckRequest struct {
	Subdomain string `json:"subdomain"`
}

// CheckSubdomain validates a candidate subdomain during tenant
// self-registration.
func (c *Client) CheckSubdomain(ctx context.Context, candidate string) (*tenants.SubdomainCheck, error) {
	var check tenants.SubdomainCheck
	if err := c.do(ctx, "POST", subdomainCheckPath, nil, subdomainCheckRequest{Subdomain: candidate}, "", &check); err != nil {
		return nil, err
	}
	return &check, nil
}

var _ tenants.Directory = (*Client)(nil)
