package entity

import (
	"strings"
	"time"
)

// State is the user lifecycle state. Transitions only move forward:
// normal -> blocked, normal -> deleted, blocked -> deleted.
type State int

const (
	StateDeleted State = -1
	StateNormal  State = 1
	StateBlocked State = 2
)

// Role is a coarse authorization role derived from user fields, not stored.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleWikiEditor Role = "wiki_editor"
	RoleMember     Role = "member"
)

// User is the aggregate root for the forum user domain.
// Passwords are stored as bcrypt hashes in PasswordHash.
// Counters are maintained by the topic/reply/like collaborators,
// never mutated directly here except on soft delete.
type User struct {
	ID           string
	Login        string
	Email        string
	PasswordHash string
	Guest        bool

	Name      string
	Location  string
	Bio       string
	Website   string
	Github    string
	Tagline   string
	AvatarURL string

	Verified bool
	State    State

	TopicsCount  int
	RepliesCount int
	LikesCount   int

	Authorizations []Authorization

	SignInCount     int
	CurrentSignInAt *time.Time
	LastSignInAt    *time.Time
	CurrentSignInIP string
	LastSignInIP    string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Authorization is an external OAuth identity bound to a user.
// Lifetime is bound to the user row. Duplicate (provider, uid)
// pairs are allowed; Bind does not deduplicate.
type Authorization struct {
	ID        int64
	UserID    string
	Provider  string
	UID       string
	CreatedAt time.Time
}

// CanTransition reports whether the lifecycle state may move to next.
// Deleted is terminal and a state never reverses.
func (u *User) CanTransition(next State) bool {
	switch u.State {
	case StateNormal:
		return next == StateBlocked || next == StateDeleted
	case StateBlocked:
		return next == StateDeleted
	default:
		return false
	}
}

// PasswordRequired reports whether this user must have a password.
// Guests never do. Once an OAuth identity is bound and no password
// was ever set, a password stays optional.
func (u *User) PasswordRequired() bool {
	if u.Guest {
		return false
	}
	if len(u.Authorizations) > 0 && u.PasswordHash == "" {
		return false
	}
	return true
}

// IsBound reports whether any authorization uses the given provider.
func (u *User) IsBound(provider string) bool {
	for _, a := range u.Authorizations {
		if a.Provider == provider {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user's email is in the configured allow-list.
func (u *User) IsAdmin(adminEmails []string) bool {
	for _, e := range adminEmails {
		if strings.EqualFold(e, u.Email) {
			return true
		}
	}
	return false
}

// IsWikiEditor reports whether the user may maintain wiki pages.
func (u *User) IsWikiEditor(adminEmails []string) bool {
	return u.IsAdmin(adminEmails) || u.Verified
}

// HasRole checks a role against the user. Every authenticated user is a
// member; unknown roles are always false.
func (u *User) HasRole(role Role, adminEmails []string) bool {
	switch role {
	case RoleAdmin:
		return u.IsAdmin(adminEmails)
	case RoleWikiEditor:
		return u.IsWikiEditor(adminEmails)
	case RoleMember:
		return true
	default:
		return false
	}
}

// GithubProfileURL returns the canonical GitHub profile URL for the stored
// handle. The field tolerates both bare usernames and pasted full URLs;
// only the last path segment is kept.
func (u *User) GithubProfileURL() string {
	if u.Github == "" {
		return ""
	}
	parts := strings.Split(u.Github, "/")
	return "https://github.com/" + parts[len(parts)-1]
}
