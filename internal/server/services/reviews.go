package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mberzins/discnote/internal/common"
	"github.com/mberzins/discnote/internal/logging"
	"github.com/mberzins/discnote/internal/server/albums"
	"github.com/mberzins/discnote/internal/server/models"
	"github.com/mberzins/discnote/internal/server/repositories/repomanager"
)

const maxPageSize = 100

// ReviewInput carries the caller-supplied fields for a new review.
type ReviewInput struct {
	AlbumID string
	Title   string
	Content string
	Score   int
}

// ReviewUpdate carries a partial update: nil fields are left unchanged.
// An explicit zero score is also treated as "no change", so 0 stays
// reserved as the no-op sentinel for callers that cannot express absence.
type ReviewUpdate struct {
	Title   *string
	Content *string
	Score   *int
}

// ReviewService orchestrates review access: paginated listings, optional
// album enrichment, and owner-gated mutations. The caller's identity is
// resolved at the boundary (AuthService.Authorize) and passed in
// explicitly; the service holds no per-request state.
type ReviewService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	albums      albums.Gateway
	logger      logging.Logger

	// now is a clock seam for tests.
	now func() time.Time
}

// NewReviewService constructs a ReviewService.
func NewReviewService(db *sql.DB, m repomanager.RepositoryManager, gateway albums.Gateway, logger logging.Logger) *ReviewService {
	return &ReviewService{
		db:          db,
		repomanager: m,
		albums:      gateway,
		logger:      logger,
		now:         time.Now,
	}
}

// validatePaging checks the caller-facing 1-indexed paging parameters and
// returns the store's 0-indexed offset.
func validatePaging(pageNo, pageSize int) (int, error) {
	if pageNo < 1 {
		return 0, fmt.Errorf("%w: pageNo must be >= 1", common.ErrValidation)
	}
	if pageSize < 1 || pageSize > maxPageSize {
		return 0, fmt.Errorf("%w: pageSize must be between 1 and %d", common.ErrValidation, maxPageSize)
	}
	return (pageNo - 1) * pageSize, nil
}

func validateScore(score int) error {
	if score < 1 || score > 10 {
		return fmt.Errorf("%w: score must be between 1 and 10", common.ErrValidation)
	}
	return nil
}

// ListByAlbum returns one page of an album's reviews, newest first.
// No enrichment: the caller already knows the album.
func (s *ReviewService) ListByAlbum(ctx context.Context, albumID string, pageNo, pageSize int) (*models.ReviewPage, error) {
	offset, err := validatePaging(pageNo, pageSize)
	if err != nil {
		return nil, err
	}

	items, total, err := s.repomanager.Reviews(s.db).ListByAlbumID(ctx, albumID, offset, pageSize)
	if err != nil {
		return nil, fmt.Errorf("error listing reviews: %w", err)
	}

	return models.NewReviewPage(items, pageNo, pageSize, total), nil
}

// ListByUsername returns one page of a user's reviews, newest first, each
// enriched with album metadata. A failed lookup degrades that item and
// flags the page as partial instead of failing the request.
func (s *ReviewService) ListByUsername(ctx context.Context, username string, pageNo, pageSize int) (*models.ReviewPage, error) {
	offset, err := validatePaging(pageNo, pageSize)
	if err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("error resolving username: %w", err)
	}

	items, total, err := s.repomanager.Reviews(s.db).ListByUserID(ctx, user.ID, offset, pageSize)
	if err != nil {
		return nil, fmt.Errorf("error listing reviews: %w", err)
	}

	page := models.NewReviewPage(items, pageNo, pageSize, total)
	s.enrich(ctx, page)

	return page, nil
}

// enrich fetches metadata once per distinct album id in the page.
func (s *ReviewService) enrich(ctx context.Context, page *models.ReviewPage) {
	byAlbum := make(map[string][]*models.Review)
	for _, r := range page.Content {
		byAlbum[r.AlbumID] = append(byAlbum[r.AlbumID], r)
	}

	for albumID, reviews := range byAlbum {
		album, err := s.albums.GetAlbum(ctx, albumID)
		if err != nil {
			s.logger.Warn(ctx, "album enrichment failed", "album_id", albumID, "error", err.Error())
			page.Partial = true
			continue
		}
		for _, r := range reviews {
			r.Album = album
		}
	}
}

// GetByID returns a single review without enrichment.
func (s *ReviewService) GetByID(ctx context.Context, reviewID string) (*models.Review, error) {
	review, err := s.repomanager.Reviews(s.db).GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrReviewNotFound
		}
		return nil, fmt.Errorf("error loading review: %w", err)
	}
	return review, nil
}

// Create persists a new review owned by the caller, stamping the
// publication time with the server clock.
func (s *ReviewService) Create(ctx context.Context, caller *models.User, input ReviewInput) (*models.Review, error) {
	if input.AlbumID == "" {
		return nil, fmt.Errorf("%w: albumId is required", common.ErrValidation)
	}
	if input.Title == "" {
		return nil, fmt.Errorf("%w: title is required", common.ErrValidation)
	}
	if err := validateScore(input.Score); err != nil {
		return nil, err
	}

	review := &models.Review{
		AlbumID:     input.AlbumID,
		UserID:      caller.ID,
		Username:    caller.Username,
		Title:       input.Title,
		Content:     input.Content,
		Score:       input.Score,
		PublishedAt: s.now(),
	}

	created, err := s.repomanager.Reviews(s.db).Create(ctx, review)
	if err != nil {
		return nil, fmt.Errorf("error creating review: %w", err)
	}

	return created, nil
}

// loadOwned fetches a review and enforces that caller owns it.
func (s *ReviewService) loadOwned(ctx context.Context, caller *models.User, reviewID string) (*models.Review, error) {
	review, err := s.repomanager.Reviews(s.db).GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrReviewNotFound
		}
		return nil, fmt.Errorf("error loading review: %w", err)
	}

	if review.Username != caller.Username {
		return nil, common.ErrNotOwner
	}

	return review, nil
}

// Update applies a partial update to a review the caller owns.
func (s *ReviewService) Update(ctx context.Context, caller *models.User, reviewID string, input ReviewUpdate) (*models.Review, error) {
	review, err := s.loadOwned(ctx, caller, reviewID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		review.Title = *input.Title
	}
	if input.Content != nil {
		review.Content = *input.Content
	}
	if input.Score != nil && *input.Score != 0 {
		if err := validateScore(*input.Score); err != nil {
			return nil, err
		}
		review.Score = *input.Score
	}

	if err := s.repomanager.Reviews(s.db).Update(ctx, review); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrReviewNotFound
		}
		return nil, fmt.Errorf("error updating review: %w", err)
	}

	return review, nil
}

// Delete removes a review the caller owns.
func (s *ReviewService) Delete(ctx context.Context, caller *models.User, reviewID string) error {
	review, err := s.loadOwned(ctx, caller, reviewID)
	if err != nil {
		return err
	}

	if err := s.repomanager.Reviews(s.db).Delete(ctx, review.ID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrReviewNotFound
		}
		return fmt.Errorf("error deleting review: %w", err)
	}

	return nil
}
