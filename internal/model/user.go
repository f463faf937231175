package model

import "time"

// User is an authenticated principal together with its profile record.
// Both contact channels must be verified before a session is issued.
type User struct {
	UID            string    `json:"uid"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Mobile         string    `json:"mobile"`
	PasswordHash   string    `json:"-"`
	Role           string    `json:"role"`
	EmailVerified  bool      `json:"emailVerified"`
	MobileVerified bool      `json:"isMobileVerified"`
	CreatedAt      time.Time `json:"created_at"`
}

// Roles.
const (
	RoleAdmin = "admin"
	RoleDonor = "donor"
)

// RoleAtLeast checks if role meets or exceeds the minimum required role.
func RoleAtLeast(role, minimum string) bool {
	levels := map[string]int{
		RoleAdmin: 2,
		RoleDonor: 1,
	}
	return levels[role] >= levels[minimum]
}

// Verified reports whether both the email and the mobile number have been
// confirmed.
func (u *User) Verified() bool {
	return u.EmailVerified && u.MobileVerified
}
