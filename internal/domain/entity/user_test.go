package entity

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from State
		to   State
		want bool
	}{
		{StateNormal, StateBlocked, true},
		{StateNormal, StateDeleted, true},
		{StateBlocked, StateDeleted, true},
		{StateBlocked, StateNormal, false},
		{StateBlocked, StateBlocked, false},
		{StateDeleted, StateNormal, false},
		{StateDeleted, StateBlocked, false},
		{StateDeleted, StateDeleted, false},
		{StateNormal, StateNormal, false},
	}
	for _, tc := range cases {
		u := &User{State: tc.from}
		if got := u.CanTransition(tc.to); got != tc.want {
			t.Errorf("CanTransition(%d -> %d) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestPasswordRequired(t *testing.T) {
	if (&User{Guest: true}).PasswordRequired() {
		t.Error("guests never need a password")
	}
	if !(&User{}).PasswordRequired() {
		t.Error("plain member needs a password")
	}
	oauthOnly := &User{Authorizations: []Authorization{{Provider: "github"}}}
	if oauthOnly.PasswordRequired() {
		t.Error("OAuth-only account stays passwordless")
	}
	oauthWithPassword := &User{
		Authorizations: []Authorization{{Provider: "github"}},
		PasswordHash:   "$2a$10$x",
	}
	if !oauthWithPassword.PasswordRequired() {
		t.Error("a set password stays required even with OAuth bound")
	}
}

func TestIsBound(t *testing.T) {
	u := &User{Authorizations: []Authorization{
		{Provider: "github", UID: "1"},
		{Provider: "github", UID: "1"}, // duplicates are possible
	}}
	if !u.IsBound("github") {
		t.Error("bound provider not reported")
	}
	if u.IsBound("twitter") {
		t.Error("unbound provider reported")
	}
}

func TestRoles(t *testing.T) {
	admins := []string{"root@example.com"}

	admin := &User{Email: "Root@Example.COM"}
	if !admin.IsAdmin(admins) {
		t.Error("admin email match must be case-insensitive")
	}
	if !admin.HasRole(RoleAdmin, admins) || !admin.HasRole(RoleWikiEditor, admins) || !admin.HasRole(RoleMember, admins) {
		t.Error("admin holds every role")
	}

	verified := &User{Email: "v@example.com", Verified: true}
	if verified.HasRole(RoleAdmin, admins) {
		t.Error("verified user is not an admin")
	}
	if !verified.HasRole(RoleWikiEditor, admins) {
		t.Error("verified user edits the wiki")
	}

	plain := &User{Email: "p@example.com"}
	if plain.HasRole(RoleWikiEditor, admins) {
		t.Error("unverified user must not edit the wiki")
	}
	if plain.HasRole(Role("moderator"), admins) {
		t.Error("unknown role must be false")
	}
}

func TestGithubProfileURL(t *testing.T) {
	cases := []struct {
		github string
		want   string
	}{
		{"", ""},
		{"alice", "https://github.com/alice"},
		{"https://github.com/alice", "https://github.com/alice"},
		{"github.com/alice", "https://github.com/alice"},
	}
	for _, tc := range cases {
		u := &User{Github: tc.github}
		if got := u.GithubProfileURL(); got != tc.want {
			t.Errorf("GithubProfileURL(%q) = %q, want %q", tc.github, got, tc.want)
		}
	}
}
