package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/forumhq/forumhq/internal/domain/entity"
	"github.com/forumhq/forumhq/internal/domain/repository"
)

// ErrNotFound aliases the repository sentinel so callers inside this
// package can return it directly.
var ErrNotFound = repository.ErrNotFound

const userColumns = `
	id, login, email, password_hash, guest,
	name, location, bio, website, github, tagline, avatar_url,
	verified, state, topics_count, replies_count, likes_count,
	sign_in_count, current_sign_in_at, last_sign_in_at,
	current_sign_in_ip, last_sign_in_ip,
	created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	err := row.Scan(&u.ID, &u.Login, &u.Email, &u.PasswordHash, &u.Guest,
		&u.Name, &u.Location, &u.Bio, &u.Website, &u.Github, &u.Tagline, &u.AvatarURL,
		&u.Verified, &u.State, &u.TopicsCount, &u.RepliesCount, &u.LikesCount,
		&u.SignInCount, &u.CurrentSignInAt, &u.LastSignInAt,
		&u.CurrentSignInIP, &u.LastSignInIP,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) Create(u *entity.User) error {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (login, email, password_hash, guest,
			name, location, bio, website, github, tagline, avatar_url,
			verified, state)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`, u.Login, u.Email, u.PasswordHash, u.Guest,
		u.Name, u.Location, u.Bio, u.Website, u.Github, u.Tagline, u.AvatarURL,
		u.Verified, u.State)

	return row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
}

func (r *UserRepository) GetByID(id string) (*entity.User, error) {
	ctx := context.Background()
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *UserRepository) GetByLogin(login string) (*entity.User, error) {
	ctx := context.Background()
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(login) = lower($1)`, login))
}

func (r *UserRepository) GetByEmail(email string) (*entity.User, error) {
	ctx := context.Background()
	return scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
}

func (r *UserRepository) Update(u *entity.User) error {
	ctx := context.Background()
	u.UpdatedAt = time.Now()

	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET login = $1, email = $2, password_hash = $3, guest = $4,
			name = $5, location = $6, bio = $7, website = $8, github = $9,
			tagline = $10, avatar_url = $11, verified = $12, state = $13,
			topics_count = $14, replies_count = $15, likes_count = $16,
			sign_in_count = $17, current_sign_in_at = $18, last_sign_in_at = $19,
			current_sign_in_ip = $20, last_sign_in_ip = $21, updated_at = $22
		WHERE id = $23
	`, u.Login, u.Email, u.PasswordHash, u.Guest,
		u.Name, u.Location, u.Bio, u.Website, u.Github,
		u.Tagline, u.AvatarURL, u.Verified, u.State,
		u.TopicsCount, u.RepliesCount, u.LikesCount,
		u.SignInCount, u.CurrentSignInAt, u.LastSignInAt,
		u.CurrentSignInIP, u.LastSignInIP, u.UpdatedAt, u.ID)
	if err != nil {
		return err
	}

	if res.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *UserRepository) ListHot(limit int) ([]entity.User, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE state = $1
		ORDER BY replies_count DESC, topics_count DESC
		LIMIT $2
	`, entity.StateNormal, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *UserRepository) AddAuthorization(userID, provider, uid string) (*entity.Authorization, error) {
	ctx := context.Background()
	a := &entity.Authorization{UserID: userID, Provider: provider, UID: uid}
	// No unique constraint here: binding the same provider twice creates
	// two rows, matching the original behavior.
	row := r.pool.QueryRow(ctx, `
		INSERT INTO authorizations (user_id, provider, uid)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, userID, provider, uid)
	if err := row.Scan(&a.ID, &a.CreatedAt); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *UserRepository) ListAuthorizations(userID string) ([]entity.Authorization, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, provider, uid, created_at
		FROM authorizations
		WHERE user_id = $1
		ORDER BY id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var auths []entity.Authorization
	for rows.Next() {
		var a entity.Authorization
		if err := rows.Scan(&a.ID, &a.UserID, &a.Provider, &a.UID, &a.CreatedAt); err != nil {
			return nil, err
		}
		auths = append(auths, a)
	}
	return auths, rows.Err()
}

var _ repository.UserRepository = (*UserRepository)(nil)
