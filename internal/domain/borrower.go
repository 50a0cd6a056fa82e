package domain

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleMember    Role = "member"
	RoleNonMember Role = "non-member"
)

// Borrower is a registered account. Password holds the bcrypt hash.
type Borrower struct {
	Username     string `json:"username"`
	Password     string `json:"-"`
	FullName     string `json:"full_name"`
	Address      string `json:"address,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Role         Role   `json:"role"`
	RegisteredOn string `json:"registered_on"`
}

// Actor is the already-authenticated identity every core operation runs as.
// It is supplied by the auth middleware; the core never re-authenticates.
type Actor struct {
	Username string
	Role     Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
