package core

// Role is an account's access level as reported by the backend.
type Role string

const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "User"
)

// Identity is the profile of the authenticated account.
type Identity struct {
	DisplayName string `json:"username"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
}

// IsAdmin returns true if the identity carries the Admin role.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}

// Session is the current authentication state. Identity is present iff
// Token is present.
type Session struct {
	Token    string    `json:"token"`
	Identity *Identity `json:"user"`
}
