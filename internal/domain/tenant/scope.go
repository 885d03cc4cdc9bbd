// Package tenant resolves which company a request operates on and carries
// that decision to the storage layer as a Scope value.
package tenant

// Scope is a resolved tenant. Tenant-scoped repositories take a Scope
// instead of a bare company id, so a query cannot be issued without one.
// The zero Scope is invalid and repositories reject it.
type Scope struct {
	companyID string
}

func NewScope(companyID string) Scope {
	return Scope{companyID: companyID}
}

func (s Scope) CompanyID() string {
	return s.companyID
}

func (s Scope) Valid() bool {
	return s.companyID != ""
}

// Owns reports whether a row with the given company id belongs to the scope.
func (s Scope) Owns(companyID string) bool {
	return s.Valid() && s.companyID == companyID
}
