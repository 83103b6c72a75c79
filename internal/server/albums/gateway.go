// Package albums fetches descriptive album metadata from the external
// catalogue. Lookups are independent of review state; a failure here only
// ever degrades a listing, it never aborts one.
package albums

import (
	"context"

	"github.com/mberzins/discnote/internal/server/models"
)

// Gateway resolves an album id to its metadata.
type Gateway interface {
	GetAlbum(ctx context.Context, albumID string) (*models.Album, error)
}
