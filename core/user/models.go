package user

import (
	"github.com/opennotes/opennotes/core"
)

// Roles
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// User is the application-level view of an externally authenticated identity.
// It is never persisted: identity lives with the provider and the role is
// recomputed on every resolution.
type User struct {
	ID       string `json:"id"` // opaque provider uid
	Email    string `json:"email"`
	Name     string `json:"name"`
	PhotoURL string `json:"photo_url,omitempty"`
	Role     string `json:"role"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Profile is what the external identity provider asserts about a credential.
type Profile struct {
	UID      string `json:"uid"`
	Email    string `json:"email"`
	Name     string `json:"displayName"`
	PhotoURL string `json:"photoURL"`
}

// RoleOf derives the application role from an email address.
// Pure function of (email, adminEmails); adding an admin is a config change.
func RoleOf(email string, adminEmails []string) string {
	email = core.CleanString(email, true /* lower */)
	for _, adm := range adminEmails {
		if adm == email {
			return RoleAdmin
		}
	}
	return RoleStudent
}
