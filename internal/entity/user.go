package domain

import "strings"

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
}

// ResolveRole returns the role to put in a token. The persisted role column is
// the source of truth; the email-substring fallback only covers accounts
// created before the column existed and is slated for removal once those rows
// are backfilled.
func (u *User) ResolveRole() (role Role, inferred bool) {
	if u.Role != "" {
		return u.Role, false
	}
	email := strings.ToLower(u.Email)
	switch {
	case strings.Contains(email, "rider"):
		return RoleRider, true
	case strings.Contains(email, "chef"):
		return RoleChef, true
	case strings.Contains(email, "admin"):
		return RoleAdmin, true
	}
	return RoleCustomer, true
}
