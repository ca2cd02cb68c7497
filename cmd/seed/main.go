package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/forumhq/forumhq/config"
	"github.com/forumhq/forumhq/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	login := "admin"
	email := "admin@forumhq.local"
	password := "password123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	// Login/email have no unique constraint, so probe before inserting.
	var id string
	err = db.QueryRow(`SELECT id FROM users WHERE lower(login) = lower($1)`, login).Scan(&id)
	switch {
	case err == sql.ErrNoRows:
		if err := db.QueryRow(`
			INSERT INTO users (login, email, password_hash, name)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`, login, email, hash, "Admin").Scan(&id); err != nil {
			log.Fatalf("failed to seed user: %v", err)
		}
		fmt.Printf("seeded user: id=%s login=%s email=%s password=%s\n", id, login, email, password)
	case err != nil:
		log.Fatalf("failed to probe user: %v", err)
	default:
		fmt.Printf("user already present: id=%s login=%s\n", id, login)
	}

	// Base discussion nodes
	for _, n := range []struct{ name, summary string }{
		{"General", "Anything goes"},
		{"Jobs", "Hiring and job hunting"},
		{"Show", "Show off what you built"},
	} {
		if _, err := db.Exec(`
			INSERT INTO nodes (name, summary) VALUES ($1, $2)
			ON CONFLICT (name) DO UPDATE SET summary = EXCLUDED.summary, updated_at = now()
		`, n.name, n.summary); err != nil {
			log.Fatalf("failed to seed node %s: %v", n.name, err)
		}
	}
	fmt.Println("base nodes ensured")
	fmt.Printf("add %s to ADMIN_EMAILS to grant the admin role\n", email)
}
