package tenant

import "context"

type Resolver interface {
	// ResolveScope resolves the tenant for actor and verifies it exists.
	// An explicit selection by a global actor is remembered.
	ResolveScope(ctx context.Context, actor Actor, explicit string) (Scope, error)
}
