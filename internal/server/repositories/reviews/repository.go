package reviews

import (
	"context"

	"github.com/mberzins/discnote/internal/server/models"
)

// Repository is the durable review store. Listing queries return one page
// of results ordered by publication time descending, plus the total number
// of matching rows.
type Repository interface {
	Create(ctx context.Context, review *models.Review) (*models.Review, error)
	GetByID(ctx context.Context, id string) (*models.Review, error)
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id string) error
	ListByAlbumID(ctx context.Context, albumID string, offset, limit int) ([]*models.Review, int64, error)
	ListByUserID(ctx context.Context, userID string, offset, limit int) ([]*models.Review, int64, error)
}
