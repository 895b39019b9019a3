package user

// Actor is the authenticated caller of a service operation. It is resolved
// once per request and passed explicitly; services trust Role as given.
type Actor struct {
	UserID   string
	Name     string
	Role     Role
	IsActive bool
}

// Can is the single capability predicate used by every service.
func (a Actor) Can(p Permission) bool {
	return a.IsActive && HasPermission(a.Role, p)
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Require returns ErrInsufficientPermissions unless the actor holds p.
func (a Actor) Require(p Permission) error {
	if !a.Can(p) {
		return ErrInsufficientPermissions
	}
	return nil
}

// Owns reports whether the actor may act on a record belonging to userID.
func (a Actor) Owns(userID string) bool {
	return a.UserID == userID
}
