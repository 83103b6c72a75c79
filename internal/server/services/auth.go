// Package services contains server-side business logic: the authentication
// gate and the review access service.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mberzins/discnote/internal/common"
	"github.com/mberzins/discnote/internal/dbx"
	"github.com/mberzins/discnote/internal/server/auth"
	"github.com/mberzins/discnote/internal/server/config"
	"github.com/mberzins/discnote/internal/server/models"
	"github.com/mberzins/discnote/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// AuthService is the authentication gate:
// - Register: create accounts
// - Login: verify credentials and mint a token
// - Authorize: resolve a presented token to a full identity
type AuthService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

// NewAuthService constructs an AuthService using repositories and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *AuthService {
	return &AuthService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

// validateCredentials checks the username only. Password policy is left to
// the caller: any non-empty secret is accepted.
func validateCredentials(username, password string) error {
	if len(username) < 3 || len(username) > 64 {
		return fmt.Errorf("%w: username must be 3-64 characters", common.ErrValidation)
	}
	if password == "" {
		return fmt.Errorf("%w: password is required", common.ErrValidation)
	}
	return nil
}

// Register creates a new account with the default role. The duplicate check
// and the insert run in one transaction so a losing racer never half-writes.
func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	var created *models.User
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		taken, err := repo.ExistsByUsername(ctx, username)
		if err != nil {
			return fmt.Errorf("error checking username: %w", err)
		}
		if taken {
			return common.ErrUsernameTaken
		}

		created, err = repo.Create(ctx, &models.User{
			Username:     username,
			PasswordHash: hash,
			Roles:        []string{models.RoleUser},
		})
		if err != nil {
			return fmt.Errorf("error creating user: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return created, nil
}

// Login verifies the credentials and returns a freshly issued token.
// Unknown usernames and wrong passwords fail identically.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrAuthentication
		}
		return "", common.ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return "", common.ErrAuthentication
	}

	token, err := auth.GenerateToken(user.Username, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", common.ErrInternal
	}

	return token, nil
}

// Authorize validates a presented token and resolves its subject to a full
// identity. A token whose subject no longer exists (account deleted after
// issuance) yields common.ErrUnknownSubject.
func (s *AuthService) Authorize(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, common.ErrUnauthenticated
	}

	subject, err := auth.GetSubjectFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, subject)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnknownSubject
		}
		return nil, common.ErrInternal
	}

	return user, nil
}
