package auth

// Operation names an HTTP-level action for role checks.
type Operation string

const (
	OpListOrders   Operation = "orders:list"
	OpGetOrder     Operation = "orders:get"
	OpCreateOrder  Operation = "orders:create"
	OpReplaceOrder Operation = "orders:replace"
	OpDeleteOrder  Operation = "orders:delete"
)

// Policy maps operations to the roles allowed to perform them. A missing
// entry denies everyone.
type Policy map[Operation][]string

// Allows reports whether the principal may perform the operation.
func (p Policy) Allows(principal *Principal, op Operation) bool {
	roles, ok := p[op]
	if !ok || len(roles) == 0 {
		return false
	}
	return principal.HasAnyRole(roles...)
}

// DefaultPolicy grants read and write access to regular users and both
// privileged roles, and restricts deletion to admins and service callers.
func DefaultPolicy() Policy {
	return Policy{
		OpListOrders:   {"user", "admin", "service"},
		OpGetOrder:     {"user", "admin", "service"},
		OpCreateOrder:  {"user", "admin", "service"},
		OpReplaceOrder: {"user", "admin", "service"},
		OpDeleteOrder:  {"admin", "service"},
	}
}
