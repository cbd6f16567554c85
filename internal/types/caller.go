package types

// Caller identifies who is performing an operation. The zero value is an
// anonymous caller.
type Caller struct {
	UserID      uint
	IsStaff     bool
	IsSuperuser bool
}

// Anonymous is the caller for unauthenticated requests.
var Anonymous = Caller{}

func (c Caller) IsAuthenticated() bool {
	return c.UserID != 0
}

// IsAdmin reports staff or superuser privileges.
func (c Caller) IsAdmin() bool {
	return c.IsAuthenticated() && (c.IsStaff || c.IsSuperuser)
}
