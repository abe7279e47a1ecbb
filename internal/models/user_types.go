package models

// User roles. The pipeline only cares about who is an admin (status and
// tracking mutation, broadcast notifications) and who is a reseller
// (per-product sale notifications); the auth middleware reads the role
// straight off the users table, so no row struct is modeled here.
const (
	RoleAdmin    = "admin"
	RoleReseller = "reseller"
	RoleCustomer = "customer"
)
