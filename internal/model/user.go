package model

// Roles known to the gateway.  The backend encodes them in the token scope
// as ROLE_<NAME>.
const (
	RoleGuest   = "GUEST"
	RoleStaff   = "STAFF"
	RoleManager = "MANAGER"
	RoleAdmin   = "ADMIN"
)

// User is an account as reported by the backend.
type User struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	BranchID  string `json:"branchId,omitempty"`
	Roles     []Role `json:"roles,omitempty"`
	Active    bool   `json:"active"`
}

// Role is a named set of permissions.
type Role struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// AuthToken is what the backend answers on login and refresh.
type AuthToken struct {
	Token         string `json:"token"`
	Authenticated bool   `json:"authenticated"`
	ExpiresAt     string `json:"expiresAt,omitempty"`
}

// Credentials is the login request body.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
