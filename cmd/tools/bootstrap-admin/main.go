// Command bootstrap-admin seeds an administrator account in the database.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/mberzins/discnote/internal/server/models"
	"github.com/mberzins/discnote/internal/server/repositories/repomanager"
)

func main() {
	var (
		dsn      string
		username string
		password string
	)

	flag.StringVar(&dsn, "dsn", os.Getenv("DATABASE_DSN"), "Postgres connection string")
	flag.StringVar(&username, "username", "admin", "Username for the admin account")
	flag.StringVar(&password, "password", "", "Password for the admin account (prompted when omitted)")
	flag.Parse()

	if strings.TrimSpace(dsn) == "" {
		fatalf("--dsn or DATABASE_DSN must be provided")
	}
	username = strings.TrimSpace(username)
	if len(username) < 3 {
		fatalf("--username must be at least 3 characters")
	}

	if password == "" {
		var err error
		password, err = promptPassword()
		if err != nil {
			fatalf("read password: %v", err)
		}
	}
	if len(password) < 8 {
		fatalf("password must be at least 8 characters")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := bootstrapAdmin(ctx, dsn, username, password); err != nil {
		fatalf("bootstrap admin: %v", err)
	}

	fmt.Printf("Admin user %s created successfully.\n", username)
	fmt.Println("Remember to rotate this password after the first login.")
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func bootstrapAdmin(ctx context.Context, dsn, username, password string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	repo := m.Users(db)

	exists, err := repo.ExistsByUsername(ctx, username)
	if err != nil {
		return err
	}
	if exists {
		return errors.New("username is already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = repo.Create(ctx, &models.User{
		Username:     username,
		PasswordHash: hash,
		Roles:        []string{models.RoleUser, models.RoleAdmin},
	})
	return err
}
