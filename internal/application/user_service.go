package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/forumhq/forumhq/internal/domain/entity"
	repo "github.com/forumhq/forumhq/internal/domain/repository"
	"github.com/forumhq/forumhq/pkg/helpers"
	"github.com/forumhq/forumhq/pkg/mailer"
)

// Login format rule: word characters only, 3 to 20 of them. Guest and
// system accounts are exempt.
var loginPattern = regexp.MustCompile(`^\w+$`)

const (
	// DeletedLogin is the sentinel login written on soft delete.
	DeletedLogin = "Guest"
	// deletedEmailDomain hosts the synthetic placeholder addresses of
	// soft-deleted users.
	deletedEmailDomain = "deleted.forumhq.local"
)

// UserService owns the identity/credential facet and the user lifecycle.
type UserService struct {
	Repo          repo.UserRepository
	Topics        repo.TopicRepository
	Notifications repo.NotificationRepository
	JWT           *helpers.JWTManager
	Redis         *redis.Client
	Pub           Publisher
	Logger        *logrus.Logger
	ES            *elasticsearch.Client
	ESUsersIndex  string
	AdminEmails   []string
}

func NewUserService(userRepo repo.UserRepository, topics repo.TopicRepository, notifications repo.NotificationRepository,
	jwt *helpers.JWTManager, rdb *redis.Client, pub Publisher, logger *logrus.Logger,
	es *elasticsearch.Client, esUsersIndex string, adminEmails []string) *UserService {
	return &UserService{
		Repo:          userRepo,
		Topics:        topics,
		Notifications: notifications,
		JWT:           jwt,
		Redis:         rdb,
		Pub:           pub,
		Logger:        logger,
		ES:            es,
		ESUsersIndex:  esUsersIndex,
		AdminEmails:   adminEmails,
	}
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

func sessionKey(userID string) string {
	return "user:session:" + userID
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

type RegisterInput struct {
	Login    string
	Email    string
	Password string
	Name     string
	Location string
	Guest    bool
}

// Register validates and creates a user, then publishes the welcome-mail
// job and indexes the new member. The welcome mail fires exactly once, at
// creation; publish failures are logged and swallowed (fire-and-forget).
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	fe := FieldErrors{}

	login := strings.TrimSpace(in.Login)
	if !in.Guest {
		switch {
		case len(login) < 3 || len(login) > 20:
			fe["login"] = "must be between 3 and 20 characters"
		case !loginPattern.MatchString(login):
			fe["login"] = "only letters, digits and underscore are allowed"
		}
	}
	email := strings.TrimSpace(in.Email)
	if email == "" {
		fe["email"] = "is required"
	}
	if in.Password == "" && !in.Guest {
		fe["password"] = "is required"
	}
	if len(fe) > 0 {
		return nil, fe
	}

	if _, err := s.Repo.GetByLogin(login); err == nil {
		return nil, FieldErrors{"login": "has already been taken"}
	} else if !isNotFound(err) {
		return nil, err
	}
	if _, err := s.Repo.GetByEmail(email); err == nil {
		return nil, FieldErrors{"email": "has already been taken"}
	} else if !isNotFound(err) {
		return nil, err
	}

	u := &entity.User{
		Login:    login,
		Email:    email,
		Guest:    in.Guest,
		Name:     in.Name,
		Location: in.Location,
		Verified: true,
		State:    entity.StateNormal,
	}
	if in.Password != "" {
		hash, err := helpers.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}
	if err := s.Repo.Create(u); err != nil {
		return nil, err
	}

	s.sendWelcomeMail(ctx, u)
	_ = s.indexUser(ctx, u)
	return u, nil
}

func (s *UserService) sendWelcomeMail(ctx context.Context, u *entity.User) {
	if s.Pub == nil {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: "welcome",
		Data:     map[string]any{"Name": u.Name, "Login": u.Login},
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("welcome mail enqueue failed")
	}
}

// FindForAuthentication resolves a login-or-email probe: case-insensitive
// exact match against login first, then against email. Both probes share
// one code path so the two outcomes stay indistinguishable to a caller
// timing the lookup.
func (s *UserService) FindForAuthentication(loginOrEmail string) (*entity.User, error) {
	for _, lookup := range []func(string) (*entity.User, error){s.Repo.GetByLogin, s.Repo.GetByEmail} {
		u, err := lookup(loginOrEmail)
		if err == nil {
			return s.withAuthorizations(u)
		}
		if !isNotFound(err) {
			return nil, err
		}
	}
	return nil, ErrUserNotFound
}

// Authenticate validates a login-or-email/password pair.
func (s *UserService) Authenticate(ctx context.Context, loginOrEmail, password string) (*entity.User, error) {
	u, err := s.FindForAuthentication(loginOrEmail)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if u.State == entity.StateDeleted {
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// TrackSignIn rotates the trackable fields after a successful login.
func (s *UserService) TrackSignIn(u *entity.User, ip string) error {
	now := time.Now()
	u.LastSignInAt = u.CurrentSignInAt
	u.LastSignInIP = u.CurrentSignInIP
	u.CurrentSignInAt = &now
	u.CurrentSignInIP = ip
	u.SignInCount++
	return s.Repo.Update(u)
}

// IssueTokens generates access/refresh tokens and records a session in Redis.
func (s *UserService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		}
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate refresh token failed")
		}
		return TokenPair{}, err
	}

	if s.Redis != nil {
		fields := map[string]any{
			"user_id":    u.ID,
			"login":      u.Login,
			"email":      u.Email,
			"name":       u.Name,
			"sid":        sid,
			"logged_in":  true,
			"created_at": nowRFC3339(),
		}
		key := sessionKey(u.ID)
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, 24*time.Hour)
		if _, rErr := pipe.Exec(ctx); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

type LoginResponse struct {
	UserID string `json:"user_id"`
	Login  string `json:"login"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

func (s *UserService) Login(ctx context.Context, loginOrEmail, password, ip string) (*LoginResponse, TokenPair, error) {
	u, err := s.Authenticate(ctx, loginOrEmail, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	if err := s.TrackSignIn(u, ip); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("sign-in tracking failed")
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	resp := &LoginResponse{UserID: u.ID, Login: u.Login, Email: u.Email, Name: u.Name}
	return resp, pair, nil
}

func (s *UserService) Refresh(ctx context.Context, refreshToken string) (TokenPair, string, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	u, err := s.Repo.GetByID(claims.UserID)
	if err != nil || u == nil {
		return TokenPair{}, "", ErrInvalidCredentials
	}
	// Validate current session id matches the token's sid
	if s.Redis != nil {
		key := sessionKey(u.ID)
		data, rErr := s.Redis.HGetAll(ctx, key).Result()
		if rErr != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return TokenPair{}, "", ErrInvalidCredentials
		}
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return TokenPair{}, "", err
	}
	return pair, u.ID, nil
}

func (s *UserService) GetProfile(userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	return s.withAuthorizations(u)
}

func (s *UserService) GetByLogin(login string) (*entity.User, error) {
	u, err := s.Repo.GetByLogin(login)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.withAuthorizations(u)
}

// HotUsers lists the most active members, replies first, then topics.
func (s *UserService) HotUsers(limit int) ([]entity.User, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.Repo.ListHot(limit)
}

type UpdateWithPasswordInput struct {
	CurrentPassword      string
	NewPassword          string
	PasswordConfirmation string

	Name     string
	Location string
	Bio      string
	Website  string
	Github   string
	Tagline  string
}

func (in UpdateWithPasswordInput) wantsPasswordChange() bool {
	return in.CurrentPassword != "" || in.NewPassword != "" || in.PasswordConfirmation != ""
}

// UpdateWithPassword updates the profile. When any credential field is
// present the standard re-authenticate-and-update flow runs; otherwise
// only the profile fields change and credentials are untouched.
func (s *UserService) UpdateWithPassword(ctx context.Context, userID string, in UpdateWithPasswordInput) (*entity.User, error) {
	u, err := s.Repo.GetByID(userID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if in.wantsPasswordChange() {
		fe := FieldErrors{}
		if !helpers.CompareHashAndPassword(u.PasswordHash, in.CurrentPassword) {
			fe["current_password"] = "is invalid"
		}
		if in.NewPassword == "" {
			fe["password"] = "is required"
		} else if in.NewPassword != in.PasswordConfirmation {
			fe["password_confirmation"] = "does not match password"
		}
		if len(fe) > 0 {
			return nil, fe
		}
		hash, err := helpers.HashPassword(in.NewPassword)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}

	s.applyProfile(u, in)
	if err := s.Repo.Update(u); err != nil {
		return nil, err
	}
	_ = s.indexUser(ctx, u)
	return u, nil
}

func (s *UserService) applyProfile(u *entity.User, in UpdateWithPasswordInput) {
	if in.Name != "" {
		u.Name = in.Name
	}
	if in.Location != "" {
		u.Location = in.Location
	}
	if in.Bio != "" {
		u.Bio = in.Bio
	}
	if in.Website != "" {
		u.Website = in.Website
	}
	if in.Github != "" {
		u.Github = in.Github
	}
	if in.Tagline != "" {
		u.Tagline = in.Tagline
	}
}

// ResetPassword replaces the password hash after a recovery token was
// verified by the caller.
func (s *UserService) ResetPassword(ctx context.Context, userID, newPassword string) error {
	u, err := s.Repo.GetByID(userID)
	if err != nil {
		if isNotFound(err) {
			return ErrUserNotFound
		}
		return err
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return s.Repo.Update(u)
}

// Bind appends an external OAuth identity. Binding the same provider
// twice creates two rows; the original behaves the same way and callers
// rely on IsBound, not on row counts.
func (s *UserService) Bind(userID, provider, uid string) (*entity.Authorization, error) {
	if _, err := s.Repo.GetByID(userID); err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.Repo.AddAuthorization(userID, provider, uid)
}

func (s *UserService) IsBound(userID, provider string) (bool, error) {
	u, err := s.GetProfile(userID)
	if err != nil {
		return false, err
	}
	return u.IsBound(provider), nil
}

func (s *UserService) HasRole(u *entity.User, role entity.Role) bool {
	return u.HasRole(role, s.AdminEmails)
}

// Block moves a normal user to the blocked state.
func (s *UserService) Block(ctx context.Context, userID string) error {
	u, err := s.Repo.GetByID(userID)
	if err != nil {
		if isNotFound(err) {
			return ErrUserNotFound
		}
		return err
	}
	if !u.CanTransition(entity.StateBlocked) {
		return ErrInvalidTransition
	}
	u.State = entity.StateBlocked
	return s.Repo.Update(u)
}

// SoftDelete scrubs PII and marks the user deleted. The record stays
// retrievable by id. The sentinel login/email would fail the same checks a
// fresh write runs, so this path writes through the repository without
// re-validating. Topics and replies cascade, notifications are bulk
// deleted; posts, photos and likes are left orphaned.
func (s *UserService) SoftDelete(ctx context.Context, userID string) error {
	u, err := s.Repo.GetByID(userID)
	if err != nil {
		if isNotFound(err) {
			return ErrUserNotFound
		}
		return err
	}
	if !u.CanTransition(entity.StateDeleted) {
		return ErrInvalidTransition
	}

	u.Email = fmt.Sprintf("%s_%s@%s", u.Login, u.ID, deletedEmailDomain)
	u.Login = DeletedLogin
	u.Bio = ""
	u.Website = ""
	u.Github = ""
	u.Tagline = ""
	u.Location = ""
	u.State = entity.StateDeleted
	if err := s.Repo.Update(u); err != nil {
		return err
	}

	if s.Topics != nil {
		if err := s.Topics.DeleteByUser(userID); err != nil {
			return err
		}
		if err := s.Topics.DeleteRepliesByUser(userID); err != nil {
			return err
		}
	}
	if s.Notifications != nil {
		if err := s.Notifications.DeleteByUser(userID); err != nil {
			return err
		}
	}

	if s.Redis != nil {
		if err := s.Redis.Del(ctx, sessionKey(userID)).Err(); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", userID).Warn("session delete failed")
		}
	}
	_ = s.indexUser(ctx, u)
	return nil
}

func (s *UserService) withAuthorizations(u *entity.User) (*entity.User, error) {
	auths, err := s.Repo.ListAuthorizations(u.ID)
	if err != nil {
		return nil, err
	}
	u.Authorizations = auths
	return u, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, repo.ErrNotFound)
}

func (s *UserService) indexUser(ctx context.Context, u *entity.User) error {
	if s.ES == nil || s.ESUsersIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":       u.ID,
		"login":    u.Login,
		"email":    u.Email,
		"name":     u.Name,
		"location": u.Location,
		"state":    u.State,
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESUsersIndex, DocumentID: u.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
	}
	return nil
}

// SearchUsers performs a simple multi_match search on login and name.
func (s *UserService) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"login^2", "name"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESUsersIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
