package users

import (
	"context"

	"github.com/mberzins/discnote/internal/server/models"
)

// Repository is the durable credential store: username to password hash and
// role set.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}
