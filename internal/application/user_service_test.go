package application

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/forumhq/forumhq/internal/domain/entity"
	"github.com/forumhq/forumhq/pkg/helpers"
	"github.com/forumhq/forumhq/pkg/mailer"
)

func newUserService(users *fakeUserRepo, pub Publisher) *UserService {
	return &UserService{
		Repo:          users,
		Topics:        newFakeTopicRepo(),
		Notifications: newFakeNotificationRepo(),
		JWT:           helpers.NewJWTManager("access-secret", "refresh-secret", time.Hour, 24*time.Hour),
		Pub:           pub,
		AdminEmails:   []string{"root@example.com"},
	}
}

func TestRegisterValidation(t *testing.T) {
	cases := []struct {
		name  string
		in    RegisterInput
		field string
	}{
		{"short login", RegisterInput{Login: "ab", Email: "a@b.com", Password: "secret123"}, "login"},
		{"long login", RegisterInput{Login: strings.Repeat("x", 21), Email: "a@b.com", Password: "secret123"}, "login"},
		{"bad characters", RegisterInput{Login: "has space", Email: "a@b.com", Password: "secret123"}, "login"},
		{"dash", RegisterInput{Login: "with-dash", Email: "a@b.com", Password: "secret123"}, "login"},
		{"missing email", RegisterInput{Login: "alice", Password: "secret123"}, "email"},
		{"missing password", RegisterInput{Login: "alice", Email: "a@b.com"}, "password"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newUserService(newFakeUserRepo(), nil)
			_, err := svc.Register(context.Background(), tc.in)
			fe, ok := IsValidation(err)
			if !ok {
				t.Fatalf("expected validation error, got %v", err)
			}
			if _, present := fe[tc.field]; !present {
				t.Fatalf("expected error on %q, got %v", tc.field, fe)
			}
		})
	}
}

func TestRegisterAcceptsUnderscoresAndDigits(t *testing.T) {
	svc := newUserService(newFakeUserRepo(), nil)
	u, err := svc.Register(context.Background(), RegisterInput{Login: "alice_42", Email: "alice@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.State != entity.StateNormal {
		t.Fatalf("new user state = %d, want %d", u.State, entity.StateNormal)
	}
	if u.PasswordHash == "" || u.PasswordHash == "secret123" {
		t.Fatalf("password was not hashed")
	}
}

func TestRegisterGuestSkipsLoginAndPasswordRules(t *testing.T) {
	svc := newUserService(newFakeUserRepo(), nil)
	if _, err := svc.Register(context.Background(), RegisterInput{Login: "g", Email: "guest@example.com", Guest: true}); err != nil {
		t.Fatalf("guest register: %v", err)
	}
}

func TestRegisterUniquenessIsCaseInsensitive(t *testing.T) {
	users := newFakeUserRepo()
	svc := newUserService(users, nil)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Login: "Alice", Email: "alice@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err := svc.Register(ctx, RegisterInput{Login: "ALICE", Email: "other@example.com", Password: "secret123"})
	if fe, ok := IsValidation(err); !ok || fe["login"] == "" {
		t.Fatalf("duplicate login accepted: %v", err)
	}

	_, err = svc.Register(ctx, RegisterInput{Login: "bob", Email: "ALICE@example.com", Password: "secret123"})
	if fe, ok := IsValidation(err); !ok || fe["email"] == "" {
		t.Fatalf("duplicate email accepted: %v", err)
	}
}

func TestRegisterPublishesWelcomeMailOnce(t *testing.T) {
	pub := &fakePublisher{}
	svc := newUserService(newFakeUserRepo(), pub)
	if _, err := svc.Register(context.Background(), RegisterInput{Login: "alice", Email: "alice@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if len(pub.published) != 1 {
		t.Fatalf("published %d jobs, want 1", len(pub.published))
	}
	job, ok := pub.published[0].(mailer.EmailJob)
	if !ok {
		t.Fatalf("published %T, want mailer.EmailJob", pub.published[0])
	}
	if job.Template != "welcome" || job.To != "alice@example.com" {
		t.Fatalf("unexpected job %+v", job)
	}
}

func TestRegisterSurvivesPublisherFailure(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := newUserService(newFakeUserRepo(), pub)
	if _, err := svc.Register(context.Background(), RegisterInput{Login: "alice", Email: "alice@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("register should not propagate publish errors: %v", err)
	}
}

func TestFindForAuthentication(t *testing.T) {
	svc := newUserService(newFakeUserRepo(), nil)
	ctx := context.Background()
	if _, err := svc.Register(ctx, RegisterInput{Login: "alice", Email: "alice@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	for _, probe := range []string{"alice", "ALICE", "alice@example.com", "Alice@Example.com"} {
		u, err := svc.FindForAuthentication(probe)
		if err != nil {
			t.Fatalf("probe %q: %v", probe, err)
		}
		if u.Login != "alice" {
			t.Fatalf("probe %q resolved %q", probe, u.Login)
		}
	}

	if _, err := svc.FindForAuthentication("nobody"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("missing probe: %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	svc := newUserService(newFakeUserRepo(), nil)
	ctx := context.Background()
	if _, err := svc.Register(ctx, RegisterInput{Login: "alice", Email: "alice@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Authenticate(ctx, "alice", "secret123"); err != nil {
		t.Fatalf("valid credentials rejected: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "alice", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("bad password: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user should look like bad credentials: %v", err)
	}
}

func TestLoginTracksSignIn(t *testing.T) {
	users := newFakeUserRepo()
	svc := newUserService(users, nil)
	ctx := context.Background()
	if _, err := svc.Register(ctx, RegisterInput{Login: "alice", Email: "alice@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	resp, pair, err := svc.Login(ctx, "alice", "secret123", "10.0.0.1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("missing tokens: %+v", pair)
	}

	u, _ := users.GetByID(resp.UserID)
	if u.SignInCount != 1 || u.CurrentSignInIP != "10.0.0.1" {
		t.Fatalf("trackable not rotated: count=%d ip=%q", u.SignInCount, u.CurrentSignInIP)
	}

	if _, _, err := svc.Login(ctx, "alice", "secret123", "10.0.0.2"); err != nil {
		t.Fatalf("second login: %v", err)
	}
	u, _ = users.GetByID(resp.UserID)
	if u.SignInCount != 2 || u.CurrentSignInIP != "10.0.0.2" || u.LastSignInIP != "10.0.0.1" {
		t.Fatalf("second rotation wrong: count=%d current=%q last=%q", u.SignInCount, u.CurrentSignInIP, u.LastSignInIP)
	}
	if u.LastSignInAt == nil {
		t.Fatalf("last sign-in timestamp not carried over")
	}
}

func TestUpdateWithPasswordProfileOnly(t *testing.T) {
	users := newFakeUserRepo()
	svc := newUserService(users, nil)
	ctx := context.Background()
	created, err := svc.Register(ctx, RegisterInput{Login: "alice", Email: "alice@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	oldHash := created.PasswordHash

	u, err := svc.UpdateWithPassword(ctx, created.ID, UpdateWithPasswordInput{Name: "Alice", Location: "Berlin", Github: "alice"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if u.Name != "Alice" || u.Location != "Berlin" {
		t.Fatalf("profile not applied: %+v", u)
	}
	if u.PasswordHash != oldHash {
		t.Fatalf("credentials changed on profile-only update")
	}
}

func TestUpdateWithPasswordChange(t *testing.T) {
	users := newFakeUserRepo()
	svc := newUserService(users, nil)
	ctx := context.Background()
	created, err := svc.Register(ctx, RegisterInput{Login: "alice", Email: "alice@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err = svc.UpdateWithPassword(ctx, created.ID, UpdateWithPasswordInput{
		CurrentPassword: "wrong", NewPassword: "newsecret", PasswordConfirmation: "newsecret",
	})
	if fe, ok := IsValidation(err); !ok || fe["current_password"] == "" {
		t.Fatalf("wrong current password accepted: %v", err)
	}

	_, err = svc.UpdateWithPassword(ctx, created.ID, UpdateWithPasswordInput{
		CurrentPassword: "secret123", NewPassword: "newsecret", PasswordConfirmation: "different",
	})
	if fe, ok := IsValidation(err); !ok || fe["password_confirmation"] == "" {
		t.Fatalf("mismatched confirmation accepted: %v", err)
	}

	if _, err = svc.UpdateWithPassword(ctx, created.ID, UpdateWithPasswordInput{
		CurrentPassword: "secret123", NewPassword: "newsecret", PasswordConfirmation: "newsecret",
	}); err != nil {
		t.Fatalf("password change: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "alice", "newsecret"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "alice", "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password still accepted")
	}
}

func TestBindAllowsDuplicates(t *testing.T) {
	users := newFakeUserRepo()
	svc := newUserService(users, nil)
	ctx := context.Background()
	created, err := svc.Register(ctx, RegisterInput{Login: "alice", Email: "alice@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Bind(created.ID, "github", "12345"); err != nil {
		t.Fatalf("bind: %v", err)
	}
	if _, err := svc.Bind(created.ID, "github", "12345"); err != nil {
		t.Fatalf("duplicate bind should be allowed: %v", err)
	}
	auths, _ := users.ListAuthorizations(created.ID)
	if len(auths) != 2 {
		t.Fatalf("got %d authorization rows, want 2", len(auths))
	}

	bound, err := svc.IsBound(created.ID, "github")
	if err != nil || !bound {
		t.Fatalf("IsBound = %v, %v", bound, err)
	}
	bound, err = svc.IsBound(created.ID, "twitter")
	if err != nil || bound {
		t.Fatalf("IsBound(twitter) = %v, %v", bound, err)
	}
}

func TestBlockTransitions(t *testing.T) {
	users := newFakeUserRepo()
	svc := newUserService(users, nil)
	ctx := context.Background()
	created, err := svc.Register(ctx, RegisterInput{Login: "alice", Email: "alice@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.Block(ctx, created.ID); err != nil {
		t.Fatalf("block: %v", err)
	}
	u, _ := users.GetByID(created.ID)
	if u.State != entity.StateBlocked {
		t.Fatalf("state = %d, want blocked", u.State)
	}

	if err := svc.Block(ctx, created.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("blocking a blocked user: %v", err)
	}
}

func TestSoftDeleteScrubsAndCascades(t *testing.T) {
	users := newFakeUserRepo()
	topics := newFakeTopicRepo()
	notifications := newFakeNotificationRepo()
	svc := newUserService(users, nil)
	svc.Topics = topics
	svc.Notifications = notifications
	ctx := context.Background()

	created, err := svc.Register(ctx, RegisterInput{Login: "alice", Email: "alice@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.UpdateWithPassword(ctx, created.ID, UpdateWithPasswordInput{Bio: "hi", Website: "https://a", Github: "alice", Tagline: "t", Location: "Berlin"}); err != nil {
		t.Fatalf("update: %v", err)
	}

	if err := svc.SoftDelete(ctx, created.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	u, err := users.GetByID(created.ID)
	if err != nil {
		t.Fatalf("deleted user must stay retrievable by id: %v", err)
	}
	if u.State != entity.StateDeleted {
		t.Fatalf("state = %d, want deleted", u.State)
	}
	if u.Login != DeletedLogin {
		t.Fatalf("login = %q, want %q", u.Login, DeletedLogin)
	}
	wantEmail := "alice_" + created.ID + "@deleted.forumhq.local"
	if u.Email != wantEmail {
		t.Fatalf("email = %q, want %q", u.Email, wantEmail)
	}
	if u.Bio != "" || u.Website != "" || u.Github != "" || u.Tagline != "" || u.Location != "" {
		t.Fatalf("profile not scrubbed: %+v", u)
	}

	if len(topics.deletedUsers) != 1 || topics.deletedUsers[0] != created.ID {
		t.Fatalf("topics not cascaded: %v", topics.deletedUsers)
	}
	if len(topics.deletedReplyFor) != 1 {
		t.Fatalf("replies not cascaded: %v", topics.deletedReplyFor)
	}
	if len(notifications.deletedFor) != 1 {
		t.Fatalf("notifications not deleted: %v", notifications.deletedFor)
	}

	// Deleted accounts cannot log in
	if _, err := svc.Authenticate(ctx, wantEmail, "secret123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("deleted user authenticated: %v", err)
	}
	// Deleted is terminal
	if err := svc.SoftDelete(ctx, created.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("double delete: %v", err)
	}
}

func TestHasRole(t *testing.T) {
	svc := newUserService(newFakeUserRepo(), nil)
	admin := &entity.User{Email: "ROOT@example.com", Verified: false}
	member := &entity.User{Email: "m@example.com", Verified: false}
	verified := &entity.User{Email: "v@example.com", Verified: true}

	if !svc.HasRole(admin, entity.RoleAdmin) {
		t.Fatalf("allow-listed email should be admin")
	}
	if svc.HasRole(member, entity.RoleAdmin) {
		t.Fatalf("plain member should not be admin")
	}
	if !svc.HasRole(admin, entity.RoleWikiEditor) || !svc.HasRole(verified, entity.RoleWikiEditor) {
		t.Fatalf("admins and verified users edit the wiki")
	}
	if svc.HasRole(member, entity.RoleWikiEditor) {
		t.Fatalf("unverified member should not edit the wiki")
	}
	if !svc.HasRole(member, entity.RoleMember) {
		t.Fatalf("everyone is a member")
	}
	if svc.HasRole(member, entity.Role("owner")) {
		t.Fatalf("unknown role must be false")
	}
}

func TestResetPassword(t *testing.T) {
	svc := newUserService(newFakeUserRepo(), nil)
	ctx := context.Background()
	created, err := svc.Register(ctx, RegisterInput{Login: "alice", Email: "alice@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := svc.ResetPassword(ctx, created.ID, "replacement"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "alice", "replacement"); err != nil {
		t.Fatalf("new password rejected: %v", err)
	}
}
