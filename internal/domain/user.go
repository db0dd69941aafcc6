// Package domain contains core domain types for the SalesTwin trainer.
package domain

// Role distinguishes what a signed-in user can do.
type Role string

const (
	RoleSalesRep Role = "sales-rep"
	RoleManager  Role = "manager"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleSalesRep || r == RoleManager
}

// User is a demo identity picked at login. It is never mutated afterwards.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// IsManager returns true if the user lands on the manager views.
func (u *User) IsManager() bool {
	return u != nil && u.Role == RoleManager
}
