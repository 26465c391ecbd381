package domain

// Principal is the authenticated caller of a single request. It is rebuilt
// from the credential on every request and never persisted.
type Principal struct {
	ID     string
	Email  string
	Role   Role
	CartID string
}

// IsAdmin reports whether the principal holds the admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}
