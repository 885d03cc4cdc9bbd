package tenant

import "strings"

// Resolve picks the single active tenant for a request.
//
// A global actor may pick any tenant: an explicit selector wins over the
// remembered selection. A scoped actor is always bound to its own company
// and any selector is ignored. When nothing resolves, Resolve fails instead
// of returning an unscoped value.
func Resolve(actor Actor, explicit, remembered string) (Scope, error) {
	if !actor.Global {
		if actor.CompanyID == nil || *actor.CompanyID == "" {
			return Scope{}, ErrActorNotBound
		}
		return NewScope(*actor.CompanyID), nil
	}

	if id := strings.TrimSpace(explicit); id != "" {
		return NewScope(id), nil
	}
	if id := strings.TrimSpace(remembered); id != "" {
		return NewScope(id), nil
	}
	return Scope{}, ErrNoTenantSelected
}
