package tenant

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Tenant is one helpdesk account the agent operates for. A turn for an
// account with no active tenant is acknowledged and dropped.
type Tenant struct {
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
	Active    bool   `json:"active"`
}

// Registry maps helpdesk account IDs to tenant configuration.
type Registry struct {
	tenants map[string]Tenant
}

// ParseRegistry builds a registry from the TENANT_MAP_JSON document: a JSON
// array of tenant objects. An empty document yields an empty registry, not an
// error.
func ParseRegistry(raw string) (*Registry, error) {
	r := &Registry{tenants: make(map[string]Tenant)}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return r, nil
	}

	var tenants []Tenant
	if err := json.Unmarshal([]byte(raw), &tenants); err != nil {
		return nil, fmt.Errorf("tenant: parse tenant map: %w", err)
	}
	for _, t := range tenants {
		if t.AccountID == "" {
			return nil, fmt.Errorf("tenant: entry %q missing account_id", t.Name)
		}
		r.tenants[t.AccountID] = t
	}
	return r, nil
}

// Lookup returns the active tenant for an account. Inactive tenants are
// invisible to callers.
func (r *Registry) Lookup(accountID string) (Tenant, bool) {
	t, ok := r.tenants[accountID]
	if !ok || !t.Active {
		return Tenant{}, false
	}
	return t, true
}

// Len reports how many tenants are registered, active or not.
func (r *Registry) Len() int {
	return len(r.tenants)
}
