// Package reviews provides the PostgreSQL-backed review store.
package reviews

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mberzins/discnote/internal/common"
	"github.com/mberzins/discnote/internal/dbx"
	"github.com/mberzins/discnote/internal/server/models"
)

// PostgresRepository implements review storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists a new review, assigning its id.
func (r *PostgresRepository) Create(ctx context.Context, review *models.Review) (*models.Review, error) {
	review.ID = uuid.NewString()

	query :=
		`INSERT INTO reviews (id, album_id, user_id, title, content, score, published_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 `

	_, err := r.db.ExecContext(ctx, query,
		review.ID, review.AlbumID, review.UserID, review.Title, review.Content,
		review.Score, review.PublishedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return review, nil
}

// GetByID returns a single review with the owner's username resolved.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Review, error) {
	query :=
		`SELECT r.id, r.album_id, r.user_id, u.username, r.title, r.content, r.score, r.likes, r.published_at
		 FROM reviews r
		 JOIN users u ON u.id = r.user_id
		 WHERE r.id = $1
		 `

	review := &models.Review{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&review.ID, &review.AlbumID, &review.UserID, &review.Username,
		&review.Title, &review.Content, &review.Score, &review.Likes, &review.PublishedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return review, nil
}

// Update overwrites the mutable fields of an existing review.
func (r *PostgresRepository) Update(ctx context.Context, review *models.Review) error {
	query :=
		`UPDATE reviews SET title = $1, content = $2, score = $3
		 WHERE id = $4
		 `

	res, err := r.db.ExecContext(ctx, query, review.Title, review.Content, review.Score, review.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}

	return nil
}

// Delete removes a review by id.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}

	return nil
}

// ListByAlbumID returns one page of an album's reviews, newest first, and
// the total number of reviews for the album.
func (r *PostgresRepository) ListByAlbumID(ctx context.Context, albumID string, offset, limit int) ([]*models.Review, int64, error) {
	query :=
		`SELECT r.id, r.album_id, r.user_id, u.username, r.title, r.content, r.score, r.likes, r.published_at
		 FROM reviews r
		 JOIN users u ON u.id = r.user_id
		 WHERE r.album_id = $1
		 ORDER BY r.published_at DESC
		 OFFSET $2 LIMIT $3
		 `

	items, err := r.list(ctx, query, albumID, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	total, err := r.count(ctx, `SELECT count(*) FROM reviews WHERE album_id = $1`, albumID)
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// ListByUserID returns one page of a user's reviews, newest first, and the
// total number of reviews owned by the user.
func (r *PostgresRepository) ListByUserID(ctx context.Context, userID string, offset, limit int) ([]*models.Review, int64, error) {
	query :=
		`SELECT r.id, r.album_id, r.user_id, u.username, r.title, r.content, r.score, r.likes, r.published_at
		 FROM reviews r
		 JOIN users u ON u.id = r.user_id
		 WHERE r.user_id = $1
		 ORDER BY r.published_at DESC
		 OFFSET $2 LIMIT $3
		 `

	items, err := r.list(ctx, query, userID, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	total, err := r.count(ctx, `SELECT count(*) FROM reviews WHERE user_id = $1`, userID)
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *PostgresRepository) list(ctx context.Context, query, key string, offset, limit int) ([]*models.Review, error) {
	rows, err := r.db.QueryContext(ctx, query, key, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Review
	for rows.Next() {
		var item models.Review
		if err := rows.Scan(
			&item.ID, &item.AlbumID, &item.UserID, &item.Username,
			&item.Title, &item.Content, &item.Score, &item.Likes, &item.PublishedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) count(ctx context.Context, query, key string) (int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, query, key).Scan(&total); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return total, nil
}
