package domain

// Role classifies the caller of a request.
type Role string

const (
	RoleAnonymous Role = "anonymous"
	RoleAdmin     Role = "admin"
	RoleStaff     Role = "staff"
)

// Identity is the verified caller attached to a request.
type Identity struct {
	Role      Role
	Subject   string
	Email     string
	StaffCode string
	Username  string
	Name      string
}

// IsStaff reports whether the identity belongs to a staff member with a usable code.
func (i Identity) IsStaff() bool {
	return i.Role == RoleStaff && i.StaffCode != ""
}
