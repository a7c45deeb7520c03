package cart

import "github.com/istmoglobal/storefront/internal/auth"

// RetailLineLimit caps the units per line for guests and retail accounts.
const RetailLineLimit = 8

// QuantityLimit returns the per line unit cap for role, or 0 when
// unlimited. An empty role is a guest.
func QuantityLimit(role auth.Role) int {
	switch role {
	case auth.RoleB2B, auth.RoleAdmin:
		return 0
	}
	return RetailLineLimit
}

// WithinLimit reports whether quantity is allowed for role.
func WithinLimit(role auth.Role, quantity int) bool {
	limit := QuantityLimit(role)
	return limit == 0 || quantity <= limit
}
